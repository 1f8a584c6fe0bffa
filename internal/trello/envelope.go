package trello

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
)

// Request describes a single Trello API call. The path must already have
// resource identifiers substituted; no templating is performed.
type Request struct {
	// Method is one of GET, POST, PUT, DELETE.
	Method string

	// Path is the resource path relative to the API origin, e.g.
	// "/boards/abc123/lists".
	Path string

	// Query holds query string parameters.
	Query url.Values

	// Body holds form body parameters for non-GET methods.
	Body url.Values

	// Header holds optional extra headers. Accept is always overwritten
	// with "application/json" regardless of what the caller sets here.
	Header http.Header
}

// Envelope is the normalized result of a successful API call: either the
// decoded JSON payload or, when the upstream returned a successful but
// non-JSON body, the raw response text. An Envelope is never partially
// decoded.
type Envelope struct {
	// Value is the decoded JSON payload (object, array, or scalar).
	Value any

	// Raw is the original response text when it was not valid JSON.
	Raw string

	// IsRaw reports that Raw carries the payload instead of Value.
	IsRaw bool
}

// MarshalJSON renders decoded payloads as-is and raw-text fallbacks as
// {"raw": "..."}.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.IsRaw {
		return json.Marshal(map[string]string{"raw": e.Raw})
	}
	return json.Marshal(e.Value)
}

// decodeEnvelope normalizes a 2xx response body. An empty body becomes the
// empty object, a JSON body is decoded, and anything else is preserved as
// raw text. It never fails: a malformed-but-successful payload must not
// surface as an error.
func decodeEnvelope(body []byte) Envelope {
	if len(bytes.TrimSpace(body)) == 0 {
		return Envelope{Value: map[string]any{}}
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return Envelope{Raw: string(body), IsRaw: true}
	}
	return Envelope{Value: value}
}
