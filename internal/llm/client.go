package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/chadiek/agentic-interview/internal/config"
)

// KeySource supplies the credential for each call.
type KeySource interface {
	EffectiveKey() string
}

// Message is one entry of a chat-shaped request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion call. When Messages is empty, Prompt is used.
type Request struct {
	Prompt      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type promptRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature"`
}

// Client talks to a hosted completion endpoint. One request per call, no retries.
type Client struct {
	HTTPClient *http.Client
	URL        string
	Model      string
	Shape      config.RequestShape

	keys   KeySource
	logger *zap.Logger
}

// NewClient builds a Client. The http.Client carries no timeout; bound calls with ctx if needed.
func NewClient(url, model string, shape config.RequestShape, keys KeySource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTPClient: &http.Client{},
		URL:        url,
		Model:      model,
		Shape:      shape,
		keys:       keys,
		logger:     logger,
	}
}

// Complete sends req and returns the extracted completion text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	key := ""
	if c.keys != nil {
		key = c.keys.EffectiveKey()
	}
	if key == "" {
		return "", &ConfigurationError{Reason: "no API key configured (set VITE_GROQ_API_KEY or enter a dev key)"}
	}

	reqBody, err := c.encode(req)
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+key)
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("completion request",
		zap.String("shape", string(c.Shape)),
		zap.Float64("temperature", req.Temperature),
		zap.Int("max_tokens", req.MaxTokens))

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return ExtractText(body)
}

func (c *Client) encode(req Request) ([]byte, error) {
	if c.Shape == config.ShapePrompt {
		prompt := req.Prompt
		if prompt == "" && len(req.Messages) > 0 {
			prompt = flattenMessages(req.Messages)
		}
		return json.Marshal(promptRequest{Model: c.Model, Prompt: prompt, MaxTokens: req.MaxTokens, Temperature: req.Temperature})
	}
	msgs := req.Messages
	if len(msgs) == 0 {
		msgs = []Message{{Role: "user", Content: req.Prompt}}
	}
	return json.Marshal(chatRequest{Model: c.Model, Messages: msgs, MaxTokens: req.MaxTokens, Temperature: req.Temperature})
}

func flattenMessages(msgs []Message) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.ToUpper(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}
