package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Names of the two values resolved through the source chain.
const (
	KeyAPIURL = "VITE_GROQ_API_URL"
	KeyAPIKey = "VITE_GROQ_API_KEY"
)

// DefaultAPIURL is used when no source supplies KeyAPIURL.
const DefaultAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// Set with -ldflags "-X github.com/chadiek/agentic-interview/internal/config.buildAPIURL=...".
var (
	buildAPIURL string
	buildAPIKey string
)

// SourceName identifies where a resolved value came from.
type SourceName string

const (
	SourceBuild      SourceName = "build"
	SourceEnvMapping SourceName = "env-mapping"
	SourceHost       SourceName = "host"
	SourceDefault    SourceName = "default"
)

// Source is one link in the resolution chain. Lookup returns "" when the key is absent.
type Source struct {
	Name   SourceName
	Lookup func(key string) string
}

// Resolution is the outcome of walking the chain once at startup.
type Resolution struct {
	APIBaseURL       string
	StaticCredential string
	URLSource        SourceName
	CredentialSource SourceName
}

// ResolveOptions configures the default chain.
type ResolveOptions struct {
	// EnvMappingPath points at an injected _env_ mapping (YAML or JSON object).
	EnvMappingPath string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Resolve walks build-time values, the injected mapping file and the host environment.
func Resolve(opts ResolveOptions) Resolution {
	return ResolveFrom(DefaultSources(opts))
}

// DefaultSources returns the fixed-priority chain.
func DefaultSources(opts ResolveOptions) []Source {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	build := map[string]string{KeyAPIURL: buildAPIURL, KeyAPIKey: buildAPIKey}
	mapping := readEnvMapping(opts.EnvMappingPath)
	return []Source{
		{Name: SourceBuild, Lookup: func(k string) string { return build[k] }},
		{Name: SourceEnvMapping, Lookup: func(k string) string { return mapping[k] }},
		{Name: SourceHost, Lookup: getenv},
	}
}

// ResolveFrom picks, independently for URL and credential, the first source with a non-empty value.
// Lookups that panic are treated as absent sources.
func ResolveFrom(sources []Source) Resolution {
	res := Resolution{
		APIBaseURL: DefaultAPIURL,
		URLSource:  SourceDefault,
		// credential defaults to empty
		CredentialSource: SourceDefault,
	}
	if v, name, ok := firstValue(sources, KeyAPIURL); ok {
		res.APIBaseURL, res.URLSource = v, name
	}
	if v, name, ok := firstValue(sources, KeyAPIKey); ok {
		res.StaticCredential, res.CredentialSource = v, name
	}
	return res
}

func firstValue(sources []Source, key string) (string, SourceName, bool) {
	for _, s := range sources {
		if v := safeLookup(s, key); v != "" {
			return v, s.Name, true
		}
	}
	return "", "", false
}

func safeLookup(s Source, key string) (v string) {
	if s.Lookup == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			v = ""
		}
	}()
	return strings.TrimSpace(s.Lookup(key))
}

// readEnvMapping loads a flat string mapping. Anything other than a readable mapping yields nil.
func readEnvMapping(path string) map[string]string {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if nested, ok := raw["_env_"].(map[string]any); ok {
		raw = nested
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
