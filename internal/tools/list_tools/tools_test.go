package list_tools

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

func testServerContext(t *testing.T, handler http.HandlerFunc) *server.ServerContext {
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
	return sc
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

func TestRegisterListTools(t *testing.T) {
	sc := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	for _, readOnly := range []bool{false, true} {
		s := mcpserver.NewMCPServer("test", "0.0.1")
		if err := RegisterListTools(s, sc, readOnly); err != nil {
			t.Fatalf("RegisterListTools(readOnly=%v) failed: %v", readOnly, err)
		}
	}
}

func TestHandleGetList(t *testing.T) {
	var gotPath, gotQuery string
	sc := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"id": "l1", "name": "Doing"}`))
	})

	handler := handleGetList(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"list_id": "l1",
		"fields":  "name",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	if gotPath != "/lists/l1" {
		t.Errorf("path = %q, want /lists/l1", gotPath)
	}
	if !strings.Contains(gotQuery, "fields=name") {
		t.Errorf("query %q missing fields parameter", gotQuery)
	}
	if text := resultText(t, result); !strings.Contains(text, "Doing") {
		t.Errorf("result %q missing list name", text)
	}
}

func TestHandleGetList_MissingID(t *testing.T) {
	sc := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the API")
	})

	handler := handleGetList(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing list_id")
	}
}

func TestHandleGetListCards(t *testing.T) {
	var gotPath, gotQuery string
	sc := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"id": "c1", "name": "Ship it"}]`))
	})

	handler := handleGetListCards(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"list_id": "l1",
		"filter":  "open",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	if gotPath != "/lists/l1/cards" {
		t.Errorf("path = %q, want /lists/l1/cards", gotPath)
	}
	if !strings.Contains(gotQuery, "filter=open") {
		t.Errorf("query %q missing filter", gotQuery)
	}
}

func TestHandleCreateList(t *testing.T) {
	var gotMethod, gotPath string
	var gotForm map[string][]string
	sc := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"id": "l2", "name": "Backlog"}`))
	})

	handler := handleCreateList(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"board_id": "b1",
		"name":     "Backlog",
		"pos":      "bottom",
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
	if gotPath != "/lists" {
		t.Errorf("path = %q, want /lists", gotPath)
	}
	if got := gotForm["idBoard"]; len(got) != 1 || got[0] != "b1" {
		t.Errorf("form idBoard = %v, want [b1]", got)
	}
	if got := gotForm["name"]; len(got) != 1 || got[0] != "Backlog" {
		t.Errorf("form name = %v, want [Backlog]", got)
	}
	if got := gotForm["pos"]; len(got) != 1 || got[0] != "bottom" {
		t.Errorf("form pos = %v, want [bottom]", got)
	}
}

func TestHandleCreateList_MissingArgs(t *testing.T) {
	sc := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the API")
	})

	handler := handleCreateList(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"name": "Backlog",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing board_id")
	}
	if text := resultText(t, result); !strings.Contains(text, "board_id") {
		t.Errorf("error %q does not name the missing parameter", text)
	}
}

func TestHandleUpdateList(t *testing.T) {
	var gotMethod, gotPath string
	var gotForm map[string][]string
	sc := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"id": "l1"}`))
	})

	handler := handleUpdateList(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"list_id": "l1",
		"name":    "In Review",
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
	if gotPath != "/lists/l1" {
		t.Errorf("path = %q, want /lists/l1", gotPath)
	}
	if got := gotForm["name"]; len(got) != 1 || got[0] != "In Review" {
		t.Errorf("form name = %v, want [In Review]", got)
	}
}

func TestHandleUpdateList_NoFields(t *testing.T) {
	sc := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the API")
	})

	handler := handleUpdateList(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"list_id": "l1",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result when no fields are provided")
	}
}

func TestHandleArchiveList(t *testing.T) {
	var gotMethod, gotPath string
	var gotForm map[string][]string
	sc := testServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"id": "l1", "closed": true}`))
	})

	handler := handleArchiveList(sc)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"list_id": "l1",
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
	if gotPath != "/lists/l1/closed" {
		t.Errorf("path = %q, want /lists/l1/closed", gotPath)
	}
	if got := gotForm["value"]; len(got) != 1 || got[0] != "true" {
		t.Errorf("form value = %v, want [true]", got)
	}
}
