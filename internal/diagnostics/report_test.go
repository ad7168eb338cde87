package diagnostics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chadiek/agentic-interview/internal/config"
	"github.com/chadiek/agentic-interview/internal/llm"
)

type countingCompleter struct {
	calls int
	reply string
	err   error
}

func (c *countingCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	c.calls++
	return c.reply, c.err
}

func TestBuild_ReportsSourcesWithoutKeys(t *testing.T) {
	creds := config.NewCredentials("sk-secret")
	res := config.Resolution{APIBaseURL: "https://x.example/v1", StaticCredential: "sk-secret", URLSource: config.SourceDefault, CredentialSource: config.SourceHost}
	r := Build(res, creds, "m", config.ShapeChat)
	text := r.Text()
	require.Contains(t, text, "API URL: https://x.example/v1 (source: default)")
	require.Contains(t, text, "API key: present (source: host)")
	require.Contains(t, text, "Effective key: present")
	require.NotContains(t, text, "sk-secret")
}

func TestBuild_NoKey(t *testing.T) {
	creds := config.NewCredentials("")
	r := Build(config.Resolution{APIBaseURL: config.DefaultAPIURL, URLSource: config.SourceDefault, CredentialSource: config.SourceDefault}, creds, "m", config.ShapePrompt)
	require.False(t, r.EffectiveKey)
	require.Contains(t, r.Text(), "API key: not configured")
	require.Contains(t, r.Text(), "Request shape: prompt")

	creds.SetDevKey("dev")
	r = Build(config.Resolution{}, creds, "m", config.ShapeChat)
	require.True(t, r.DevKey)
	require.True(t, r.EffectiveKey)
}

func TestSelfTest(t *testing.T) {
	t.Run("no_key", func(t *testing.T) {
		c := &countingCompleter{reply: "pong"}
		res := SelfTest(context.Background(), c, config.NewCredentials(""))
		require.Equal(t, StatusNoKey, res.Status)
		require.Zero(t, c.calls)
	})
	t.Run("ok", func(t *testing.T) {
		c := &countingCompleter{reply: "pong"}
		res := SelfTest(context.Background(), c, config.NewCredentials("k"))
		require.Equal(t, SelfTestResult{Status: StatusOK, Output: "pong"}, res)
		require.Equal(t, 1, c.calls)
	})
	t.Run("failure", func(t *testing.T) {
		c := &countingCompleter{err: errors.New("boom")}
		res := SelfTest(context.Background(), c, config.NewCredentials("k"))
		require.Equal(t, StatusFailed, res.Status)
		require.Equal(t, "boom", res.Output)
	})
}
