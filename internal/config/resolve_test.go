package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mapSource(name SourceName, m map[string]string) Source {
	return Source{Name: name, Lookup: func(k string) string { return m[k] }}
}

func TestResolveFrom_DefaultsWhenNothingSet(t *testing.T) {
	res := ResolveFrom([]Source{mapSource(SourceHost, nil)})
	require.Equal(t, DefaultAPIURL, res.APIBaseURL)
	require.Empty(t, res.StaticCredential)
	require.Equal(t, SourceDefault, res.URLSource)
	require.Equal(t, SourceDefault, res.CredentialSource)
}

func TestResolveFrom_KeysResolveIndependently(t *testing.T) {
	res := ResolveFrom([]Source{
		mapSource(SourceBuild, map[string]string{KeyAPIURL: "https://build.example/v1"}),
		mapSource(SourceEnvMapping, map[string]string{KeyAPIURL: "https://mapping.example/v1", KeyAPIKey: "mapping-key"}),
		mapSource(SourceHost, map[string]string{KeyAPIKey: "host-key"}),
	})
	require.Equal(t, "https://build.example/v1", res.APIBaseURL)
	require.Equal(t, SourceBuild, res.URLSource)
	require.Equal(t, "mapping-key", res.StaticCredential)
	require.Equal(t, SourceEnvMapping, res.CredentialSource)
}

func TestResolveFrom_PanickingSourceIsAbsent(t *testing.T) {
	res := ResolveFrom([]Source{
		{Name: SourceBuild, Lookup: func(string) string { panic("unavailable") }},
		{Name: SourceEnvMapping},
		mapSource(SourceHost, map[string]string{KeyAPIKey: "host-key"}),
	})
	require.Equal(t, DefaultAPIURL, res.APIBaseURL)
	require.Equal(t, "host-key", res.StaticCredential)
	require.Equal(t, SourceHost, res.CredentialSource)
}

func TestResolve_ReadsMappingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("VITE_GROQ_API_URL: https://mapped.example/v1\nVITE_GROQ_API_KEY: \"\"\n"), 0o600))
	env := map[string]string{KeyAPIKey: "from-host"}
	res := Resolve(ResolveOptions{EnvMappingPath: path, Getenv: func(k string) string { return env[k] }})
	require.Equal(t, "https://mapped.example/v1", res.APIBaseURL)
	require.Equal(t, SourceEnvMapping, res.URLSource)
	require.Equal(t, "from-host", res.StaticCredential)
	require.Equal(t, SourceHost, res.CredentialSource)
}

func TestResolve_NonMappingFileIsAbsent(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"list.yaml":   "- a\n- b\n",
		"scalar.yaml": "just a string\n",
		"broken.json": "{not json",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			res := Resolve(ResolveOptions{EnvMappingPath: path, Getenv: func(string) string { return "" }})
			require.Equal(t, DefaultAPIURL, res.APIBaseURL)
			require.Equal(t, SourceDefault, res.URLSource)
		})
	}
}

func TestResolve_JSONMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"VITE_GROQ_API_KEY":"json-key","OTHER":3}`), 0o600))
	res := Resolve(ResolveOptions{EnvMappingPath: path, Getenv: func(string) string { return "" }})
	require.Equal(t, "json-key", res.StaticCredential)
}

func TestResolve_NestedEnvMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("_env_:\n  VITE_GROQ_API_URL: https://nested.example/v1\n"), 0o600))
	res := Resolve(ResolveOptions{EnvMappingPath: path, Getenv: func(string) string { return "" }})
	require.Equal(t, "https://nested.example/v1", res.APIBaseURL)
	require.Equal(t, SourceEnvMapping, res.URLSource)
}

func TestCredentials_Effective(t *testing.T) {
	c := NewCredentials("")
	require.Empty(t, c.EffectiveKey())
	c.SetDevKey("  dev  ")
	require.Equal(t, "dev", c.EffectiveKey())
	require.True(t, c.HasDev())

	s := NewCredentials("static")
	s.SetDevKey("dev")
	require.Equal(t, "static", s.EffectiveKey())
	require.True(t, s.HasStatic())

	c.SetDevKey("")
	require.False(t, c.HasDev())
	require.Empty(t, c.EffectiveKey())
}
