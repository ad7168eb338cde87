package diagnostics

import (
	"context"

	"github.com/chadiek/agentic-interview/internal/llm"
)

const (
	StatusNoKey  = "no API key configured"
	StatusOK     = "ok"
	StatusFailed = "failed"

	selfTestPrompt = "Reply with exactly one word: pong"
)

// SelfTestResult is the outcome of one test prompt.
type SelfTestResult struct {
	Status string `json:"status"`
	Output string `json:"output"`
}

// SelfTest sends a fixed trivial prompt. Without an effective key it reports StatusNoKey
// and makes no call.
func SelfTest(ctx context.Context, c Completer, keys KeyState) SelfTestResult {
	if keys.EffectiveKey() == "" {
		return SelfTestResult{Status: StatusNoKey}
	}
	out, err := c.Complete(ctx, llm.Request{Prompt: selfTestPrompt, Temperature: 0, MaxTokens: 16})
	if err != nil {
		return SelfTestResult{Status: StatusFailed, Output: err.Error()}
	}
	return SelfTestResult{Status: StatusOK, Output: out}
}
