// Package logging provides structured logging utilities for the trellist
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Credential redaction helpers for API keys, tokens, and request URLs
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "trello_get_board")
//	logger.Info("board retrieved",
//	    logging.Status(logging.StatusSuccess))
//
// Sanitize sensitive data before logging:
//
//	logger.Debug("request sent",
//	    slog.String("url", logging.RedactURL(endpoint)))
//
// # Security Considerations
//
// Trello authenticates by placing the API key and token in the query string
// or form body of every request, so raw request URLs must never reach the
// logs. Use RedactURL and SanitizeToken for anything derived from a request.
package logging
