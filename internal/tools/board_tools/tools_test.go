package board_tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/trellist/trellist/internal/server"
	"github.com/trellist/trellist/internal/trello"
)

func testServerContext(t *testing.T, handler http.HandlerFunc) (*server.ServerContext, *httptest.Server) {
	t.Helper()

	stub := httptest.NewServer(handler)
	t.Cleanup(stub.Close)

	creds := trello.StaticProvider{
		trello.EnvAPIKey:   "test-key",
		trello.EnvAPIToken: "test-token",
	}
	sc, err := server.NewServerContextWithProvider(context.Background(), creds)
	if err != nil {
		t.Fatalf("NewServerContextWithProvider() error = %v", err)
	}
	t.Cleanup(func() { sc.Shutdown() })
	sc.SetTrelloClient(trello.NewClientWithHTTPClient(stub.URL, creds, stub.Client()))
	return sc, stub
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestRegisterBoardTools(t *testing.T) {
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	s := mcpserver.NewMCPServer("test", "0.0.1")
	if err := RegisterBoardTools(s, sc, false); err != nil {
		t.Fatalf("RegisterBoardTools failed: %v", err)
	}
}

func TestRegisterBoardTools_ReadOnly(t *testing.T) {
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	s := mcpserver.NewMCPServer("test", "0.0.1")
	if err := RegisterBoardTools(s, sc, true); err != nil {
		t.Fatalf("RegisterBoardTools failed: %v", err)
	}
}

func TestHandleGetBoard(t *testing.T) {
	var gotPath, gotQuery string
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"id": "abc123", "name": "Roadmap"}`))
	})

	handler := handleGetBoard(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"board_id": "abc123",
		"fields":   "name,desc",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	if gotPath != "/boards/abc123" {
		t.Errorf("path = %q, want /boards/abc123", gotPath)
	}
	if !strings.Contains(gotQuery, "fields=name%2Cdesc") {
		t.Errorf("query %q missing fields parameter", gotQuery)
	}
	if !strings.Contains(gotQuery, "key=test-key") || !strings.Contains(gotQuery, "token=test-token") {
		t.Errorf("query %q missing credentials", gotQuery)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Roadmap") {
		t.Errorf("result %q missing board name", text)
	}
}

func TestHandleGetBoard_MissingID(t *testing.T) {
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the API")
	})

	handler := handleGetBoard(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing board_id")
	}
}

func TestHandleGetBoard_APIError(t *testing.T) {
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("board not found"))
	})

	handler := handleGetBoard(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"board_id": "missing",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for 404 response")
	}
	if text := resultText(t, result); !strings.Contains(text, "board not found") {
		t.Errorf("result %q missing upstream error body", text)
	}
}

func TestHandleGetBoardLists(t *testing.T) {
	var gotPath, gotQuery string
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"id": "l1", "name": "To Do"}]`))
	})

	handler := handleGetBoardLists(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"board_id": "abc123",
		"filter":   "open",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	if gotPath != "/boards/abc123/lists" {
		t.Errorf("path = %q, want /boards/abc123/lists", gotPath)
	}
	if !strings.Contains(gotQuery, "filter=open") {
		t.Errorf("query %q missing filter", gotQuery)
	}
	if text := resultText(t, result); !strings.Contains(text, "To Do") {
		t.Errorf("result %q missing list name", text)
	}
}

func TestHandleGetBoardCards(t *testing.T) {
	var gotPath string
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"id": "c1"}]`))
	})

	handler := handleGetBoardCards(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"board_id": "abc123",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if gotPath != "/boards/abc123/cards" {
		t.Errorf("path = %q, want /boards/abc123/cards", gotPath)
	}
}

func TestHandleGetBoardMembers(t *testing.T) {
	var gotPath string
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"id": "m1", "username": "alice"}]`))
	})

	handler := handleGetBoardMembers(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"board_id": "abc123",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if gotPath != "/boards/abc123/members" {
		t.Errorf("path = %q, want /boards/abc123/members", gotPath)
	}
}

func TestHandleGetBoardActions(t *testing.T) {
	var gotPath, gotQuery string
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})

	handler := handleGetBoardActions(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"board_id": "abc123",
		"filter":   "commentCard",
		"limit":    "10",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if gotPath != "/boards/abc123/actions" {
		t.Errorf("path = %q, want /boards/abc123/actions", gotPath)
	}
	if !strings.Contains(gotQuery, "filter=commentCard") || !strings.Contains(gotQuery, "limit=10") {
		t.Errorf("query %q missing filter or limit", gotQuery)
	}
}

func TestHandleCreateBoard(t *testing.T) {
	var gotMethod, gotPath string
	var gotForm map[string][]string
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"id": "new1", "name": "Sprint"}`))
	})

	handler := handleCreateBoard(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"name":          "Sprint",
		"desc":          "Sprint planning",
		"default_lists": false,
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotPath != "/boards" {
		t.Errorf("path = %q, want /boards", gotPath)
	}
	if got := gotForm["name"]; len(got) != 1 || got[0] != "Sprint" {
		t.Errorf("form name = %v, want [Sprint]", got)
	}
	if got := gotForm["desc"]; len(got) != 1 || got[0] != "Sprint planning" {
		t.Errorf("form desc = %v, want [Sprint planning]", got)
	}
	if got := gotForm["defaultLists"]; len(got) != 1 || got[0] != "false" {
		t.Errorf("form defaultLists = %v, want [false]", got)
	}
	if got := gotForm["key"]; len(got) != 1 || got[0] != "test-key" {
		t.Errorf("form key = %v, want [test-key]", got)
	}
}

func TestHandleCreateBoard_MissingName(t *testing.T) {
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the API")
	})

	handler := handleCreateBoard(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing name")
	}
}

func TestHandleUpdateBoard(t *testing.T) {
	var gotMethod, gotPath string
	var gotForm map[string][]string
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"id": "abc123"}`))
	})

	handler := handleUpdateBoard(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"board_id": "abc123",
		"name":     "Renamed",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotPath != "/boards/abc123" {
		t.Errorf("path = %q, want /boards/abc123", gotPath)
	}
	if got := gotForm["name"]; len(got) != 1 || got[0] != "Renamed" {
		t.Errorf("form name = %v, want [Renamed]", got)
	}
}

func TestHandleUpdateBoard_NoFields(t *testing.T) {
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the API")
	})

	handler := handleUpdateBoard(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"board_id": "abc123",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result when no fields are provided")
	}
}

func TestHandleCloseBoard(t *testing.T) {
	var gotMethod, gotPath string
	var gotForm map[string][]string
	sc, _ := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"id": "abc123", "closed": true}`))
	})

	handler := handleCloseBoard(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"board_id": "abc123",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotPath != "/boards/abc123" {
		t.Errorf("path = %q, want /boards/abc123", gotPath)
	}
	if got := gotForm["closed"]; len(got) != 1 || got[0] != "true" {
		t.Errorf("form closed = %v, want [true]", got)
	}
}
