package trello

import "fmt"

// ConfigError reports a missing or empty required configuration value.
// It is fatal and never retryable; the operator must fix the environment.
type ConfigError struct {
	// Name is the configuration variable that could not be resolved.
	Name string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required environment variable: %s", e.Name)
}

// APIError reports a non-2xx response from the Trello API. The body is
// carried verbatim so callers see exactly what the upstream said.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Trello API error %d: %s", e.StatusCode, e.Body)
}

// TransportError reports a network-level failure (DNS, connection reset,
// timeout) that prevented a response from being received. The original
// error remains reachable via Unwrap so callers can still inspect it.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("trello: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
