package member_tools

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

// RegisterMemberTools registers member and search tools with the MCP server.
// All tools in this package are read-only, so readOnly has no effect here.
func RegisterMemberTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getMemberTool := mcp.NewTool("trello_get_member",
		mcp.WithDescription("Get a Trello member's profile. Defaults to the authenticated member."),
		mcp.WithString("member_id",
			mcp.Description("The member ID or username (default: me)"),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated list of member fields to include (default: all)"),
		),
	)
	s.AddTool(getMemberTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_member", instrumentation.OperationGet, "GET", "/members/{id}", sc,
		handleGetMember(sc)))

	getMemberBoardsTool := mcp.NewTool("trello_get_member_boards",
		mcp.WithDescription("List the boards a Trello member belongs to. Defaults to the authenticated member."),
		mcp.WithString("member_id",
			mcp.Description("The member ID or username (default: me)"),
		),
		mcp.WithString("filter",
			mcp.Description("Which boards to return: all, open, closed, members, organization, or starred (default: open)"),
		),
	)
	s.AddTool(getMemberBoardsTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_member_boards", instrumentation.OperationList, "GET", "/members/{id}/boards", sc,
		handleGetMemberBoards(sc)))

	getMemberCardsTool := mcp.NewTool("trello_get_member_cards",
		mcp.WithDescription("List the cards assigned to a Trello member. Defaults to the authenticated member."),
		mcp.WithString("member_id",
			mcp.Description("The member ID or username (default: me)"),
		),
	)
	s.AddTool(getMemberCardsTool, common.InstrumentedToolHandlerWithRequest(
		"trello_get_member_cards", instrumentation.OperationList, "GET", "/members/{id}/cards", sc,
		handleGetMemberCards(sc)))

	searchTool := mcp.NewTool("trello_search",
		mcp.WithDescription("Search Trello boards, cards, and members"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query"),
		),
		mcp.WithString("model_types",
			mcp.Description("Comma-separated model types to search: boards, cards, members, organizations (default: all)"),
		),
		mcp.WithString("cards_limit",
			mcp.Description("Maximum number of cards to return (default: 10, max: 1000)"),
		),
		mcp.WithString("boards_limit",
			mcp.Description("Maximum number of boards to return (default: 10, max: 1000)"),
		),
	)
	s.AddTool(searchTool, common.InstrumentedToolHandlerWithRequest(
		"trello_search", instrumentation.OperationSearch, "GET", "/search", sc,
		handleSearch(sc)))

	return nil
}

// memberIDOrMe returns the member_id argument, falling back to the special
// "me" alias the Trello API resolves to the token owner.
func memberIDOrMe(args map[string]interface{}) string {
	if id := common.OptionalStringArg(args, "member_id"); id != "" {
		return id
	}
	return "me"
}

func handleGetMember(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		memberID := memberIDOrMe(args)

		query := url.Values{}
		if fields := common.OptionalStringArg(args, "fields"); fields != "" {
			query.Set("fields", fields)
		}

		env, err := sc.TrelloClient().Get(ctx, "/members/"+memberID, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get member: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleGetMemberBoards(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		memberID := memberIDOrMe(args)

		query := url.Values{}
		if filter := common.OptionalStringArg(args, "filter"); filter != "" {
			query.Set("filter", filter)
		}

		env, err := sc.TrelloClient().Get(ctx, "/members/"+memberID+"/boards", query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get member boards: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleGetMemberCards(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		memberID := memberIDOrMe(args)

		env, err := sc.TrelloClient().Get(ctx, "/members/"+memberID+"/cards", nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get member cards: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}

func handleSearch(sc *server.ServerContext) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		searchQuery, err := common.StringArg(args, "query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		query := url.Values{}
		query.Set("query", searchQuery)
		if modelTypes := common.OptionalStringArg(args, "model_types"); modelTypes != "" {
			query.Set("modelTypes", modelTypes)
		}
		if cardsLimit := common.OptionalStringArg(args, "cards_limit"); cardsLimit != "" {
			query.Set("cards_limit", cardsLimit)
		}
		if boardsLimit := common.OptionalStringArg(args, "boards_limit"); boardsLimit != "" {
			query.Set("boards_limit", boardsLimit)
		}

		env, err := sc.TrelloClient().Get(ctx, "/search", query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Search failed: %v", err)), nil
		}

		result, _ := json.MarshalIndent(env, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}
}
