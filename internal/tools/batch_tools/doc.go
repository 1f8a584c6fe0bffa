// Package batch_tools provides the MCP tool for batched Trello reads.
//
// trello_get_batch issues several GET requests in one tool call and returns
// a combined result. Each URL gets its own slot in the output, so one
// failing request does not discard the others.
package batch_tools
