package card_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/trellist/trellist/internal/instrumentation"
	"github.com/trellist/trellist/internal/server"
	"github.com/trellist/trellist/internal/tools/common"
)

type toolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// RegisterCardTools registers all card-related tools with the MCP server.
// Write operations are only registered when readOnly is false.
func RegisterCardTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerCardReadTools(s, sc)
	if !readOnly {
		registerCardWriteTools(s, sc)
	}
	return nil
}

func registerCardReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	getCardTool := mcp.NewTool("trello_get_card",
		mcp.WithDescription("Get details of a Trello card"),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The ID of the card to retrieve"),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated list of card fields to include (default: all)"),
		),
	)
	s.AddTool(getCardTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_card", instrumentation.OperationGet, "GET", "/cards/{id}", sc,
		handleGetCard(sc)))

	getCardActionsTool := mcp.NewTool("trello_get_card_actions",
		mcp.WithDescription("Get recent activity (actions) on a Trello card"),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The ID of the card"),
		),
		mcp.WithString("filter",
			mcp.Description("Comma-separated action types to include (default: commentCard)"),
		),
		mcp.WithString("limit",
			mcp.Description("Maximum number of actions to return (default: 50, max: 1000)"),
		),
	)
	s.AddTool(getCardActionsTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_card_actions", instrumentation.OperationList, "GET", "/cards/{id}/actions", sc,
		handleGetCardActions(sc)))

	getCardAttachmentsTool := mcp.NewTool("trello_get_card_attachments",
		mcp.WithDescription("Get the attachments on a Trello card"),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The ID of the card"),
		),
	)
	s.AddTool(getCardAttachmentsTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_card_attachments", instrumentation.OperationList, "GET", "/cards/{id}/attachments", sc,
		handleGetCardAttachments(sc)))
}

func registerCardWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createCardTool := mcp.NewTool("trello_create_card",
		mcp.WithDescription("Create a new Trello card in a list"),
		mcp.WithString("list_id",
			mcp.Required(),
			mcp.Description("The ID of the list to add the card to"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the new card"),
		),
		mcp.WithString("desc",
			mcp.Description("A description for the card"),
		),
		mcp.WithString("due",
			mcp.Description("Due date in ISO 8601 format (e.g. 2026-09-15T12:00:00Z)"),
		),
		mcp.WithString("pos",
			mcp.Description("Position in the list: top, bottom, or a positive number"),
		),
	)
	s.AddTool(createCardTool, common.InstrumentedToolHandlerWithRequest(
		"trello_create_card", instrumentation.OperationCreate, "POST", "/cards", sc,
		handleCreateCard(sc)))

	updateCardTool := mcp.NewTool("trello_update_card",
		mcp.WithDescription("Update a Trello card's name, description, or due date"),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The ID of the card to update"),
		),
		mcp.WithString("name",
			mcp.Description("The new name for the card"),
		),
		mcp.WithString("desc",
			mcp.Description("The new description for the card"),
		),
		mcp.WithString("due",
			mcp.Description("New due date in ISO 8601 format, or the string null to clear it"),
		),
	)
	s.AddTool(updateCardTool, common.InstrumentedToolHandlerWithRequest(
		"trello_update_card", instrumentation.OperationUpdate, "PUT", "/cards/{id}", sc,
		handleUpdateCard(sc)))

	moveCardTool := mcp.NewTool("trello_move_card",
		mcp.WithDescription("Move a Trello card to another list"),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The ID of the card to move"),
		),
		mcp.WithString("list_id",
			mcp.Required(),
			mcp.Description("The ID of the destination list"),
		),
		mcp.WithString("pos",
			mcp.Description("Position in the destination list: top, bottom, or a positive number"),
		),
	)
	s.AddTool(moveCardTool, common.InstrumentedToolHandlerWithRequest(
		"trello_move_card", instrumentation.OperationUpdate, "PUT", "/cards/{id}", sc,
		handleMoveCard(sc)))

	deleteCardTool := mcp.NewTool("trello_delete_card",
		mcp.WithDescription("Permanently delete a Trello card. This cannot be undone."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The ID of the card to delete"),
		),
	)
	s.AddTool(deleteCardTool, common.InstrumentedToolHandlerWithRequest(
		"trello_delete_card", instrumentation.OperationDelete, "DELETE", "/cards/{id}", sc,
		handleDeleteCard(sc)))

	addCommentTool := mcp.NewTool("trello_add_comment",
		mcp.WithDescription("Add a comment to a Trello card"),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The ID of the card to comment on"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The comment text"),
		),
	)
	s.AddTool(addCommentTool, common.InstrumentedToolHandlerWithRequest(
		"trello_add_comment", instrumentation.OperationCreate, "POST", "/cards/{id}/actions/comments", sc,
		handleAddComment(sc)))

	attachURLTool := mcp.NewTool("trello_attach_url",
		mcp.WithDescription("Attach a URL to a Trello card"),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The ID of the card"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL to attach"),
		),
		mcp.WithString("name",
			mcp.Description("A display name for the attachment"),
		),
	)
	s.AddTool(attachURLTool, common.InstrumentedToolHandlerWithRequest(
		"trello_attach_url", instrumentation.OperationCreate, "POST", "/cards/{id}/attachments", sc,
		handleAttachURL(sc)))

	attachFileTool := mcp.NewTool("trello_attach_file",
		mcp.WithDescription("Upload a local file as an attachment on a Trello card. The file path is resolved relative to the directory in the BASE_PATH environment variable."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The ID of the card"),
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the file, relative to BASE_PATH"),
		),
		mcp.WithString("name",
			mcp.Description("A display name for the attachment (default: the file name)"),
		),
	)
	s.AddTool(attachFileTool, common.InstrumentedToolHandlerWithRequest(
		"trello_attach_file", instrumentation.OperationCreate, "POST", "/cards/{id}/attachments", sc,
		handleAttachFile(sc)))
}

func handleGetCard(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		cardID, err := common.StringArg(args, "card_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		query := url.Values{}
		if fields := common.OptionalStringArg(args, "fields"); fields != "" {
			query.Set("fields", fields)
		}

		env, err := sc.TrelloClient().Get(ctx, "/cards/"+cardID, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get card: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleGetCardActions(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		cardID, err := common.StringArg(args, "card_id")
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

		env, err := sc.TrelloClient().Get(ctx, "/cards/"+cardID+"/actions", query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get card actions: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleGetCardAttachments(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		cardID, err := common.StringArg(args, "card_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		env, err := sc.TrelloClient().Get(ctx, "/cards/"+cardID+"/attachments", nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get card attachments: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleCreateCard(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := common.RequireArgs(args, "list_id", "name"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		listID, err := common.StringArg(args, "list_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := common.StringArg(args, "name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := url.Values{}
		body.Set("idList", listID)
		body.Set("name", name)
		if desc := common.OptionalStringArg(args, "desc"); desc != "" {
			body.Set("desc", desc)
		}
		if due := common.OptionalStringArg(args, "due"); due != "" {
			body.Set("due", due)
		}
		if pos := common.OptionalStringArg(args, "pos"); pos != "" {
			body.Set("pos", pos)
		}

		env, err := sc.TrelloClient().Post(ctx, "/cards", body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create card: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleUpdateCard(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		cardID, err := common.StringArg(args, "card_id")
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
		if due := common.OptionalStringArg(args, "due"); due != "" {
			body.Set("due", due)
		}
		if len(body) == 0 {
			return mcp.NewToolResultError("at least one of name, desc, or due must be provided"), nil
		}

		env, err := sc.TrelloClient().Put(ctx, "/cards/"+cardID, body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update card: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleMoveCard(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := common.RequireArgs(args, "card_id", "list_id"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cardID, err := common.StringArg(args, "card_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		listID, err := common.StringArg(args, "list_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := url.Values{}
		body.Set("idList", listID)
		if pos := common.OptionalStringArg(args, "pos"); pos != "" {
			body.Set("pos", pos)
		}

		env, err := sc.TrelloClient().Put(ctx, "/cards/"+cardID, body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to move card: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleDeleteCard(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		cardID, err := common.StringArg(args, "card_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		env, err := sc.TrelloClient().Delete(ctx, "/cards/"+cardID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete card: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleAddComment(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := common.RequireArgs(args, "card_id", "text"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cardID, err := common.StringArg(args, "card_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := common.StringArg(args, "text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := url.Values{}
		body.Set("text", text)

		env, err := sc.TrelloClient().Post(ctx, "/cards/"+cardID+"/actions/comments", body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to add comment: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleAttachURL(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := common.RequireArgs(args, "card_id", "url"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cardID, err := common.StringArg(args, "card_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		attachmentURL, err := common.StringArg(args, "url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := url.Values{}
		body.Set("url", attachmentURL)
		if name := common.OptionalStringArg(args, "name"); name != "" {
			body.Set("name", name)
		}

		env, err := sc.TrelloClient().Post(ctx, "/cards/"+cardID+"/attachments", body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to attach URL: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleAttachFile(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := common.RequireArgs(args, "card_id", "file_path"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cardID, err := common.StringArg(args, "card_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filePath, err := common.StringArg(args, "file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		basePath, err := sc.BasePath()
		if err != nil {
			return mcp.NewToolResultError("file attachments are disabled: BASE_PATH is not set"), nil
		}

		fullPath, err := resolveAttachmentPath(basePath, filePath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		file, err := os.Open(fullPath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to open file: %v", err)), nil
		}
		defer file.Close()

		query := url.Values{}
		name := common.OptionalStringArg(args, "name")
		if name == "" {
			name = filepath.Base(fullPath)
		}
		query.Set("name", name)

		env, err := sc.TrelloClient().UploadAttachment(ctx, "/cards/"+cardID+"/attachments", query, name, file)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to attach file: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

// resolveAttachmentPath joins relPath onto basePath and rejects results that
// escape the base directory, including via ".." segments or absolute paths.
func resolveAttachmentPath(basePath, relPath string) (string, error) {
	base, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("invalid BASE_PATH: %w", err)
	}

	if filepath.IsAbs(relPath) {
		return "", fmt.Errorf("file_path must be relative to the configured base directory")
	}

	full := filepath.Join(base, relPath)
	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", fmt.Errorf("file_path escapes the configured base directory")
	}
	return full, nil
}
