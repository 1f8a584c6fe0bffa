package batch_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/trellist/trellist/internal/instrumentation"
	"github.com/trellist/trellist/internal/server"
	"github.com/trellist/trellist/internal/tools/common"
)

type toolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// RegisterBatchTools registers the batch read tool with the MCP server.
// Batch requests are read-only, so readOnly has no effect here.
func RegisterBatchTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	batchTool := mcp.NewTool("trello_get_batch",
		mcp.WithDescription("Perform multiple Trello GET requests in a single call. Each URL must start with a slash, e.g. /boards/abc123/cards. Results are keyed url_1, url_2, and so on in request order, and a failing URL does not discard the results of the others."),
		mcp.WithString("urls",
			mcp.Required(),
			mcp.Description("The API paths to fetch: a comma-separated string or a JSON array of strings"),
		),
	)
	s.AddTool(batchTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_batch", instrumentation.OperationBatch, "GET", "/batch", sc,
		handleGetBatch(sc)))

	return nil
}

func handleGetBatch(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		urls, err := common.ParseStringOrArray(args["urls"], "urls")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		batch, err := sc.TrelloClient().BatchGet(ctx, urls)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Batch request failed: %v", err)), nil
		}

		if m := sc.Metrics(); m != nil {
			m.RecordBatch(ctx, batch.TotalURLs, batchOutcome(batch.Successful, batch.Failed))
		}

		result, _ := json.MarshalIndent(batch, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func batchOutcome(successful, failed int) string {
	switch {
	case failed == 0:
		return "success"
	case successful == 0:
		return "error"
	default:
		return "partial"
	}
}
