package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// BatchEntry records the outcome of one path within a batch.
type BatchEntry struct {
	URL     string    `json:"url"`
	Data    *Envelope `json:"data"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// BatchResult aggregates the outcomes of a batch of GET requests. Entries
// are keyed by 1-based slot labels ("url_1", "url_2", ...) in request
// order. A fresh result is built per invocation; nothing is persisted.
type BatchResult struct {
	Results    map[string]BatchEntry `json:"results"`
	TotalURLs  int                   `json:"total_urls"`
	Successful int                   `json:"successful_requests"`
	Failed     int                   `json:"failed_requests"`
	Errors     []string              `json:"errors,omitempty"`
}

// OK reports whether every request in the batch succeeded. Individual
// successful entries remain accessible even when the batch as a whole
// failed.
func (r *BatchResult) OK() bool {
	return r.Failed == 0
}

// MarshalJSON renders the batch with slot-label entries at the top level
// alongside the aggregate counters:
//
//	{"url_1": {...}, "url_2": {...}, "total_urls": 2, ...}
func (r *BatchResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Results)+4)
	for label, entry := range r.Results {
		out[label] = entry
	}
	out["total_urls"] = r.TotalURLs
	out["successful_requests"] = r.Successful
	out["failed_requests"] = r.Failed
	if len(r.Errors) > 0 {
		out["errors"] = r.Errors
	}
	return json.Marshal(out)
}

// BatchGet issues a sequence of independent GET requests, one per path,
// strictly in order.
//
// Validation is all-or-nothing: after trimming, the list must be non-empty
// and every path must be relative and begin with "/"; otherwise the whole
// batch is rejected before any network call. Past that point failures are
// isolated per path: a failed request becomes an entry with success=false
// and its error message, and iteration continues. Duplicate paths are each
// executed independently.
func (c *Client) BatchGet(ctx context.Context, paths []string) (*BatchResult, error) {
	trimmed := make([]string, 0, len(paths))
	for _, p := range paths {
		if s := strings.TrimSpace(p); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("no valid URLs provided")
	}

	var invalid []string
	for _, p := range trimmed {
		if !strings.HasPrefix(p, "/") {
			invalid = append(invalid, p)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid URLs: %s (all URLs must be relative paths starting with %q, e.g. %q)",
			strings.Join(invalid, ", "), "/", "/boards/123")
	}

	result := &BatchResult{
		Results:   make(map[string]BatchEntry, len(trimmed)),
		TotalURLs: len(trimmed),
	}
	for i, path := range trimmed {
		label := fmt.Sprintf("url_%d", i+1)
		envelope, err := c.Get(ctx, path, nil)
		if err != nil {
			result.Results[label] = BatchEntry{URL: path, Success: false, Error: err.Error()}
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("URL %d (%s): %v", i+1, path, err))
			continue
		}
		result.Results[label] = BatchEntry{URL: path, Data: &envelope, Success: true}
		result.Successful++
	}
	return result, nil
}
