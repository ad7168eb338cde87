package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("INTERVIEW_MODEL", "")
	t.Setenv("INTERVIEW_REQUEST_SHAPE", "")
	t.Setenv("INTERVIEW_REARM_AFTER_EVALUATION", "")
	cfg := Load(zap.NewNop())
	if cfg.HTTPAddress == "" {
		t.Fatalf("expected default http address")
	}
	if cfg.Model == "" {
		t.Fatalf("expected default model id")
	}
	require.Equal(t, ShapeChat, cfg.RequestShape)
	require.True(t, cfg.RearmAfterEvaluation)
	require.True(t, cfg.ReseedOnClear)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9999")
	t.Setenv("INTERVIEW_REQUEST_SHAPE", "prompt")
	t.Setenv("INTERVIEW_REARM_AFTER_EVALUATION", "false")
	t.Setenv("INTERVIEW_RESEED_ON_CLEAR", "not-a-bool")
	cfg := Load(zap.NewNop())
	require.Equal(t, ":9999", cfg.HTTPAddress)
	require.Equal(t, ShapePrompt, cfg.RequestShape)
	require.False(t, cfg.RearmAfterEvaluation)
	require.True(t, cfg.ReseedOnClear, "unparseable bool keeps the default")
}

func TestParseRequestShape(t *testing.T) {
	cases := map[string]RequestShape{
		"":            ShapeChat,
		"chat":        ShapeChat,
		"PROMPT":      ShapePrompt,
		" completion": ShapePrompt,
		"bogus":       ShapeChat,
	}
	for in, want := range cases {
		if got := ParseRequestShape(in); got != want {
			t.Fatalf("ParseRequestShape(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadDotEnv_MissingFileIsNotFatal(t *testing.T) {
	LoadDotEnv(zap.NewNop(), filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDotEnv_SetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("INTERVIEW_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("INTERVIEW_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("INTERVIEW_TEST_DOTENV"))
	LoadDotEnv(zap.NewNop(), path)
	require.Equal(t, "loaded", os.Getenv("INTERVIEW_TEST_DOTENV"))
}
