// Package diagnostics reports which configuration was picked up and runs a trivial test prompt.
package diagnostics

import (
	"context"
	"fmt"
	"strings"

	"github.com/chadiek/agentic-interview/internal/config"
	"github.com/chadiek/agentic-interview/internal/llm"
)

// KeyState is the credential view needed for reporting. Key values are never exposed.
type KeyState interface {
	HasStatic() bool
	HasDev() bool
	EffectiveKey() string
}

// Completer is the completion call used by the self-test.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Report summarises the resolved configuration.
type Report struct {
	APIBaseURL       string            `json:"apiBaseUrl"`
	URLSource        config.SourceName `json:"urlSource"`
	CredentialSource config.SourceName `json:"credentialSource"`
	StaticKey        bool              `json:"staticKeyPresent"`
	DevKey           bool              `json:"devKeyPresent"`
	EffectiveKey     bool              `json:"effectiveKeyPresent"`
	Model            string            `json:"model"`
	RequestShape     string            `json:"requestShape"`
}

// Build assembles a Report from startup resolution and current credentials.
func Build(res config.Resolution, keys KeyState, model string, shape config.RequestShape) Report {
	return Report{
		APIBaseURL:       res.APIBaseURL,
		URLSource:        res.URLSource,
		CredentialSource: res.CredentialSource,
		StaticKey:        keys.HasStatic(),
		DevKey:           keys.HasDev(),
		EffectiveKey:     keys.EffectiveKey() != "",
		Model:            model,
		RequestShape:     string(shape),
	}
}

// Text renders the short report shown in the diagnostics panel.
func (r Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "API URL: %s (source: %s)\n", r.APIBaseURL, r.URLSource)
	if r.StaticKey {
		fmt.Fprintf(&b, "API key: present (source: %s)\n", r.CredentialSource)
	} else {
		b.WriteString("API key: not configured\n")
	}
	fmt.Fprintf(&b, "Dev API key: %s\n", presence(r.DevKey))
	fmt.Fprintf(&b, "Effective key: %s\n", presence(r.EffectiveKey))
	fmt.Fprintf(&b, "Model: %s\n", r.Model)
	fmt.Fprintf(&b, "Request shape: %s", r.RequestShape)
	return b.String()
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "absent"
}
