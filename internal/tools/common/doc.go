// Package common provides shared utilities for MCP tool implementations.
// It contains argument validation helpers and the instrumented handler
// wrapper used across all tool packages to ensure consistent behavior.
package common
