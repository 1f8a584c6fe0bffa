package instrumentation

import "strings"

// Cardinality management helpers for metrics.
//
// Trello resource paths embed opaque identifiers ("/boards/5f2c7a...",
// "/cards/60b1..."), so using a raw path as a metric label would create one
// time series per resource. CollapsePath reduces paths to their shape.

// idPlaceholder replaces identifier segments in collapsed paths.
const idPlaceholder = "{id}"

// Resource collection names that appear as the first path segment. Segments
// following any other word are treated as identifiers.
var knownSegments = map[string]bool{
	"actions":       true,
	"attachments":   true,
	"batch":         true,
	"boards":        true,
	"cards":         true,
	"checklists":    true,
	"labels":        true,
	"lists":         true,
	"members":       true,
	"organizations": true,
	"search":        true,
	"tokens":        true,
	"webhooks":      true,
}

// CollapsePath rewrites a Trello resource path so identifier segments become
// "{id}", keeping the label space bounded by the API's endpoint shapes.
//
// Example:
//
//	CollapsePath("/boards/5f2c7a9b1d/cards")  // "/boards/{id}/cards"
//	CollapsePath("/members/me")               // "/members/me"
func CollapsePath(path string) string {
	if path == "" {
		return path
	}
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if segment == "" || knownSegments[segment] || segment == "me" {
			continue
		}
		// A sub-resource name after an identifier stays as-is.
		if i > 0 && (knownSegments[segments[i-1]] || segments[i-1] == idPlaceholder) && looksLikeID(segment) {
			segments[i] = idPlaceholder
		}
	}
	return strings.Join(segments, "/")
}

// looksLikeID reports whether a path segment appears to be an opaque
// identifier rather than a sub-resource or field name. Trello IDs are hex
// strings; short card numbers are digits.
func looksLikeID(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Common operation types for Trello API metrics.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationSearch = "search"
	OperationBatch  = "batch"
	OperationAttach = "attach"
)
