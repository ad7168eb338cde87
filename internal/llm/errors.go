package llm

import "fmt"

// ConfigurationError means no usable credential was available. No request was sent.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// UpstreamError carries a non-2xx response from the completion endpoint.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status=%d body=%s", e.StatusCode, e.Body)
}
