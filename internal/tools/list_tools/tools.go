package list_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/trellist/trellist/internal/instrumentation"
	"github.com/trellist/trellist/internal/server"
	"github.com/trellist/trellist/internal/tools/common"
)

type toolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// RegisterListTools registers all list-related tools with the MCP server.
// Write operations are only registered when readOnly is false.
func RegisterListTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getListTool := mcp.NewTool("trello_get_list",
		mcp.WithDescription("Get details of a Trello list"),
		mcp.WithString("list_id",
			mcp.Required(),
			mcp.Description("The ID of the list to retrieve"),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated list of fields to include (default: all)"),
		),
	)
	s.AddTool(getListTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_list", instrumentation.OperationGet, "GET", "/lists/{id}", sc,
		handleGetList(sc)))

	getListCardsTool := mcp.NewTool("trello_get_list_cards",
		mcp.WithDescription("Get the cards in a Trello list"),
		mcp.WithString("list_id",
			mcp.Required(),
			mcp.Description("The ID of the list"),
		),
		mcp.WithString("filter",
			mcp.Description("Which cards to return: all, open, or closed (default: open)"),
		),
	)
	s.AddTool(getListCardsTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_list_cards", instrumentation.OperationList, "GET", "/lists/{id}/cards", sc,
		handleGetListCards(sc)))

	if !readOnly {
		createListTool := mcp.NewTool("trello_create_list",
			mcp.WithDescription("Create a new list on a Trello board"),
			mcp.WithString("board_id",
				mcp.Required(),
				mcp.Description("The ID of the board to add the list to"),
			),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("The name of the new list"),
			),
			mcp.WithString("pos",
				mcp.Description("Position of the list: top, bottom, or a positive number"),
			),
		)
		s.AddTool(createListTool, common.InstrumentedToolHandlerWithRequest(
			"trello_create_list", instrumentation.OperationCreate, "POST", "/lists", sc,
			handleCreateList(sc)))

		updateListTool := mcp.NewTool("trello_update_list",
			mcp.WithDescription("Rename or reposition a Trello list"),
			mcp.WithString("list_id",
				mcp.Required(),
				mcp.Description("The ID of the list to update"),
			),
			mcp.WithString("name",
				mcp.Description("The new name for the list"),
			),
			mcp.WithString("pos",
				mcp.Description("New position of the list: top, bottom, or a positive number"),
			),
		)
		s.AddTool(updateListTool, common.InstrumentedToolHandlerWithRequest(
			"trello_update_list", instrumentation.OperationUpdate, "PUT", "/lists/{id}", sc,
			handleUpdateList(sc)))

		archiveListTool := mcp.NewTool("trello_archive_list",
			mcp.WithDescription("Archive (close) a Trello list"),
			mcp.WithString("list_id",
				mcp.Required(),
				mcp.Description("The ID of the list to archive"),
			),
		)
		s.AddTool(archiveListTool, common.InstrumentedToolHandlerWithRequest(
			"trello_archive_list", instrumentation.OperationUpdate, "PUT", "/lists/{id}/closed", sc,
			handleArchiveList(sc)))
	}

	return nil
}

func handleGetList(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		listID, err := common.StringArg(args, "list_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		query := url.Values{}
		if fields := common.OptionalStringArg(args, "fields"); fields != "" {
			query.Set("fields", fields)
		}

		env, err := sc.TrelloClient().Get(ctx, "/lists/"+listID, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get list: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleGetListCards(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		listID, err := common.StringArg(args, "list_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		query := url.Values{}
		if filter := common.OptionalStringArg(args, "filter"); filter != "" {
			query.Set("filter", filter)
		}

		env, err := sc.TrelloClient().Get(ctx, "/lists/"+listID+"/cards", query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get list cards: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleCreateList(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := common.RequireArgs(args, "board_id", "name"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		boardID, err := common.StringArg(args, "board_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := common.StringArg(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := url.Values{}
		body.Set("idBoard", boardID)
		body.Set("name", name)
		if pos := common.OptionalStringArg(args, "pos"); pos != "" {
			body.Set("pos", pos)
		}

		env, err := sc.TrelloClient().Post(ctx, "/lists", body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create list: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleUpdateList(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		listID, err := common.StringArg(args, "list_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := url.Values{}
		if name := common.OptionalStringArg(args, "name"); name != "" {
			body.Set("name", name)
		}
		if pos := common.OptionalStringArg(args, "pos"); pos != "" {
			body.Set("pos", pos)
		}
		if len(body) == 0 {
			return mcp.NewToolResultError("at least one of name or pos must be provided"), nil
		}

		env, err := sc.TrelloClient().Put(ctx, "/lists/"+listID, body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update list: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleArchiveList(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		listID, err := common.StringArg(args, "list_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := url.Values{}
		body.Set("value", "true")

		env, err := sc.TrelloClient().Put(ctx, "/lists/"+listID+"/closed", body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to archive list: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}
