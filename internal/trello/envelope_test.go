package trello

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantValue any
		wantRaw   string
	}{
		{
			name:      "empty body becomes empty object",
			body:      "",
			wantValue: map[string]any{},
		},
		{
			name:      "whitespace only becomes empty object",
			body:      "  \n\t",
			wantValue: map[string]any{},
		},
		{
			name:      "object",
			body:      `{"id":"abc"}`,
			wantValue: map[string]any{"id": "abc"},
		},
		{
			name:      "array",
			body:      `[1,2]`,
			wantValue: []any{float64(1), float64(2)},
		},
		{
			name:      "scalar",
			body:      `"done"`,
			wantValue: "done",
		},
		{
			name:    "non-JSON falls back to raw",
			body:    "rate limit exceeded",
			wantRaw: "rate limit exceeded",
		},
		{
			name:    "truncated JSON falls back to raw, never partially decoded",
			body:    `{"id":"ab`,
			wantRaw: `{"id":"ab`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope := decodeEnvelope([]byte(tt.body))
			if tt.wantRaw != "" {
				assert.True(t, envelope.IsRaw)
				assert.Equal(t, tt.wantRaw, envelope.Raw)
				assert.Nil(t, envelope.Value)
				return
			}
			assert.False(t, envelope.IsRaw)
			assert.Equal(t, tt.wantValue, envelope.Value)
		})
	}
}

func TestEnvelopeMarshalJSON(t *testing.T) {
	decoded := Envelope{Value: map[string]any{"id": "abc"}}
	out, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc"}`, string(out))

	raw := Envelope{Raw: "<html/>", IsRaw: true}
	out, err = json.Marshal(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw":"<html/>"}`, string(out))
}

func TestErrorTypesAreDistinguishable(t *testing.T) {
	var err error = &ConfigError{Name: EnvAPIKey}
	assert.Contains(t, err.Error(), "TRELLO_API_KEY")

	err = &APIError{StatusCode: 404, Body: "not found"}
	assert.Equal(t, "Trello API error 404: not found", err.Error())

	transport := &TransportError{Err: assert.AnError}
	assert.Contains(t, transport.Error(), assert.AnError.Error())
	assert.Equal(t, assert.AnError, transport.Unwrap())
}
