package mcpserver

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sdn3bangkuang/sekolahku/internal/content"
	"github.com/sdn3bangkuang/sekolahku/internal/testutil"
)

type stubAsker struct {
	lastQuestion string
	reply        string
}

func (s *stubAsker) Send(_ context.Context, q string) string {
	s.lastQuestion = q
	return s.reply
}

func testServer(t *testing.T, ask Asker) *Server {
	t.Helper()

	backend := testutil.NewFakeSheet(t)
	backend.Teachers = []map[string]any{
		{"id": "1", "nama": "Ria Frenica", "jabatan": "Kepala Sekolah"},
	}
	backend.News = []map[string]any{
		{"id": "10", "judul": "Upacara Bendera", "tanggal": "2025-12-14"},
	}

	store := content.NewStore(backend.Client(), nil, slog.Default(), nil)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return New(store, ask)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper; call the handler funcs.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_teachers":
		result, err = srv.listTeachers(ctx, req)
	case "list_news":
		result, err = srv.listNews(ctx, req)
	case "list_gallery":
		result, err = srv.listGallery(ctx, req)
	case "refresh_content":
		result, err = srv.refresh(ctx, req)
	case "ask":
		result, err = srv.askTool(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListTeachersTool(t *testing.T) {
	srv := testServer(t, nil)
	got := resultText(callTool(t, srv, "list_teachers", nil))
	if !strings.Contains(got, "Ria Frenica") || !strings.Contains(got, "Kepala Sekolah") {
		t.Errorf("list_teachers = %s", got)
	}
}

func TestListNewsToolUsesDisplayDates(t *testing.T) {
	srv := testServer(t, nil)
	got := resultText(callTool(t, srv, "list_news", nil))
	if !strings.Contains(got, "14 Desember 2025") {
		t.Errorf("list_news should carry display dates: %s", got)
	}
}

func TestAskToolForwardsQuestion(t *testing.T) {
	ask := &stubAsker{reply: "Kepala sekolah kami adalah Ibu Ria Frenica."}
	srv := testServer(t, ask)

	got := resultText(callTool(t, srv, "ask", map[string]any{"question": "siapa kepala sekolah?"}))
	if got != ask.reply {
		t.Errorf("ask reply = %q", got)
	}
	if ask.lastQuestion != "siapa kepala sekolah?" {
		t.Errorf("forwarded question = %q", ask.lastQuestion)
	}
}

func TestAskToolWithoutAssistant(t *testing.T) {
	srv := testServer(t, nil)
	res := callTool(t, srv, "ask", map[string]any{"question": "halo"})
	if !res.IsError {
		t.Error("ask without assistant should be a tool error")
	}
}

func TestProfileResource(t *testing.T) {
	srv := testServer(t, nil)
	contents, err := srv.readProfileResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || !strings.Contains(tc.Text, "SD Negeri 3 Bangkuang") {
		t.Errorf("profile resource = %+v", contents[0])
	}
}
