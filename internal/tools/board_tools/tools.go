package board_tools

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

// RegisterBoardTools registers all board-related tools with the MCP server.
// Write operations are only registered when readOnly is false.
func RegisterBoardTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerBoardReadTools(s, sc)
	if !readOnly {
		registerBoardWriteTools(s, sc)
	}
	return nil
}

func registerBoardReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	getBoardTool := mcp.NewTool("trello_get_board",
		mcp.WithDescription("Get details of a Trello board"),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The ID of the board to retrieve"),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated list of board fields to include (default: all)"),
		),
	)
	s.AddTool(getBoardTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_board", instrumentation.OperationGet, "GET", "/boards/{id}", sc,
		handleGetBoard(sc)))

	getBoardListsTool := mcp.NewTool("trello_get_board_lists",
		mcp.WithDescription("Get the lists on a Trello board"),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The ID of the board"),
		),
		mcp.WithString("filter",
			mcp.Description("Which lists to return: all, open, or closed (default: open)"),
		),
	)
	s.AddTool(getBoardListsTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_board_lists", instrumentation.OperationList, "GET", "/boards/{id}/lists", sc,
		handleGetBoardLists(sc)))

	getBoardCardsTool := mcp.NewTool("trello_get_board_cards",
		mcp.WithDescription("Get the cards on a Trello board"),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The ID of the board"),
		),
		mcp.WithString("filter",
			mcp.Description("Which cards to return: all, open, closed, or visible (default: open)"),
		),
	)
	s.AddTool(getBoardCardsTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_board_cards", instrumentation.OperationList, "GET", "/boards/{id}/cards", sc,
		handleGetBoardCards(sc)))

	getBoardMembersTool := mcp.NewTool("trello_get_board_members",
		mcp.WithDescription("Get the members of a Trello board"),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The ID of the board"),
		),
	)
	s.AddTool(getBoardMembersTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_board_members", instrumentation.OperationList, "GET", "/boards/{id}/members", sc,
		handleGetBoardMembers(sc)))

	getBoardActionsTool := mcp.NewTool("trello_get_board_actions",
		mcp.WithDescription("Get recent activity (actions) on a Trello board"),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The ID of the board"),
		),
		mcp.WithString("filter",
			mcp.Description("Comma-separated action types to include (default: all)"),
		),
		mcp.WithString("limit",
			mcp.Description("Maximum number of actions to return (default: 50, max: 1000)"),
		),
	)
	s.AddTool(getBoardActionsTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_board_actions", instrumentation.OperationList, "GET", "/boards/{id}/actions", sc,
		handleGetBoardActions(sc)))
}

func registerBoardWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createBoardTool := mcp.NewTool("trello_create_board",
		mcp.WithDescription("Create a new Trello board"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the new board"),
		),
		mcp.WithString("desc",
			mcp.Description("A description for the board"),
		),
		mcp.WithBoolean("default_lists",
			mcp.Description("Create the default To Do/Doing/Done lists (default: true)"),
		),
	)
	s.AddTool(createBoardTool, common.InstrumentedToolHandlerWithRequest(
		"trello_create_board", instrumentation.OperationCreate, "POST", "/boards", sc,
		handleCreateBoard(sc)))

	updateBoardTool := mcp.NewTool("trello_update_board",
		mcp.WithDescription("Update a Trello board's name or description"),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The ID of the board to update"),
		),
		mcp.WithString("name",
			mcp.Description("The new name for the board"),
		),
		mcp.WithString("desc",
			mcp.Description("The new description for the board"),
		),
	)
	s.AddTool(updateBoardTool, common.InstrumentedToolHandlerWithRequest(
		"trello_update_board", instrumentation.OperationUpdate, "PUT", "/boards/{id}", sc,
		handleUpdateBoard(sc)))

	closeBoardTool := mcp.NewTool("trello_close_board",
		mcp.WithDescription("Close (archive) a Trello board"),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The ID of the board to close"),
		),
	)
	s.AddTool(closeBoardTool, common.InstrumentedToolHandlerWithRequest(
		"trello_close_board", instrumentation.OperationUpdate, "PUT", "/boards/{id}", sc,
		handleCloseBoard(sc)))
}

func handleGetBoard(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		boardID, err := common.StringArg(args, "board_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		query := url.Values{}
		if fields := common.OptionalStringArg(args, "fields"); fields != "" {
			query.Set("fields", fields)
		}

		env, err := sc.TrelloClient().Get(ctx, "/boards/"+boardID, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get board: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleGetBoardLists(sc *server.ServerContext) toolHandler {
	return boardSubResourceHandler(sc, "lists")
}

func handleGetBoardCards(sc *server.ServerContext) toolHandler {
	return boardSubResourceHandler(sc, "cards")
}

func handleGetBoardMembers(sc *server.ServerContext) toolHandler {
	return boardSubResourceHandler(sc, "members")
}

func handleGetBoardActions(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		boardID, err := common.StringArg(args, "board_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		query := url.Values{}
		if filter := common.OptionalStringArg(args, "filter"); filter != "" {
			query.Set("filter", filter)
		}
		if limit := common.OptionalStringArg(args, "limit"); limit != "" {
			query.Set("limit", limit)
		}

		env, err := sc.TrelloClient().Get(ctx, "/boards/"+boardID+"/actions", query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get board actions: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

// boardSubResourceHandler serves the board sub-resource collections that
// share the same shape: a required board_id plus an optional filter.
func boardSubResourceHandler(sc *server.ServerContext, resource string) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		boardID, err := common.StringArg(args, "board_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		query := url.Values{}
		if filter := common.OptionalStringArg(args, "filter"); filter != "" {
			query.Set("filter", filter)
		}

		env, err := sc.TrelloClient().Get(ctx, "/boards/"+boardID+"/"+resource, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get board %s: %v", resource, err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleCreateBoard(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		name, err := common.StringArg(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := url.Values{}
		body.Set("name", name)
		if desc := common.OptionalStringArg(args, "desc"); desc != "" {
			body.Set("desc", desc)
		}
		if !common.OptionalBoolArg(args, "default_lists", true) {
			body.Set("defaultLists", "false")
		}

		env, err := sc.TrelloClient().Post(ctx, "/boards", body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create board: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleUpdateBoard(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		boardID, err := common.StringArg(args, "board_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := url.Values{}
		if name := common.OptionalStringArg(args, "name"); name != "" {
			body.Set("name", name)
		}
		if desc := common.OptionalStringArg(args, "desc"); desc != "" {
			body.Set("desc", desc)
		}
		if len(body) == 0 {
			return mcp.NewToolResultError("at least one of name or desc must be provided"), nil
		}

		env, err := sc.TrelloClient().Put(ctx, "/boards/"+boardID, body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update board: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleCloseBoard(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		boardID, err := common.StringArg(args, "board_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := url.Values{}
		body.Set("closed", "true")

		env, err := sc.TrelloClient().Put(ctx, "/boards/"+boardID, body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to close board: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}
