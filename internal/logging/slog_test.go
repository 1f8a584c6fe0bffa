package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{
			name:     "empty token",
			token:    "",
			expected: "<empty>",
		},
		{
			name:     "short token",
			token:    "abc",
			expected: "[token:3 chars]",
		},
		{
			name:     "typical trello token",
			token:    "1234567890abcdef1234567890abcdef",
			expected: "[token:32 chars]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeToken(tt.token))
		})
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "redacts key and token",
			raw:      "https://api.trello.com/1/boards/abc?key=k123&token=t456",
			expected: "https://api.trello.com/1/boards/abc?key=REDACTED&token=REDACTED",
		},
		{
			name:     "leaves other parameters intact",
			raw:      "https://api.trello.com/1/boards/abc?fields=name&key=k123",
			expected: "https://api.trello.com/1/boards/abc?fields=name&key=REDACTED",
		},
		{
			name:     "no credentials present",
			raw:      "https://api.trello.com/1/members/me",
			expected: "https://api.trello.com/1/members/me",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RedactURL(tt.raw))
		})
	}
}

func TestErrWithNilError(t *testing.T) {
	attr := Err(nil)
	// A nil error must produce an empty group that slog omits from output.
	assert.Equal(t, "", attr.Key)
}

func TestAttributeHelpers(t *testing.T) {
	assert.Equal(t, KeyMethod, Method("GET").Key)
	assert.Equal(t, "GET", Method("GET").Value.String())

	assert.Equal(t, KeyPath, Path("/boards/123").Key)
	assert.Equal(t, KeyStatusCode, StatusCode(404).Key)
	assert.Equal(t, int64(404), StatusCode(404).Value.Int64())
	assert.Equal(t, KeyDuration, Duration(time.Second).Key)
	assert.Equal(t, KeyTool, Tool("trello_get_batch").Key)
	assert.Equal(t, KeyStatus, Status(StatusSuccess).Key)
}
