package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ExtractText decodes a successful response body into plain text.
// Priority: choices[0].text, choices[0].message.content, output, then the whole body
// re-serialized in compact form so the caller always gets something readable.
// Each step decodes on its own; a field of an unexpected type only skips that step.
func ExtractText(body []byte) (string, error) {
	if !json.Valid(body) {
		return "", errors.New("completion response is not valid JSON")
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return compact(body), nil
	}
	if first, ok := firstChoice(top["choices"]); ok {
		if s, ok := stringField(first["text"]); ok {
			return strings.TrimSpace(s), nil
		}
		var msg map[string]json.RawMessage
		if json.Unmarshal(first["message"], &msg) == nil {
			if s, ok := stringField(msg["content"]); ok {
				return strings.TrimSpace(s), nil
			}
		}
	}
	if out := bytes.TrimSpace(top["output"]); len(out) > 0 && !bytes.Equal(out, []byte("null")) {
		if s, ok := stringField(out); ok {
			return strings.TrimSpace(s), nil
		}
		return compact(out), nil
	}
	return compact(body), nil
}

func firstChoice(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var choices []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &choices) != nil || len(choices) == 0 {
		return nil, false
	}
	var first map[string]json.RawMessage
	if json.Unmarshal(choices[0], &first) != nil {
		return nil, false
	}
	return first, true
}

func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

func compact(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
