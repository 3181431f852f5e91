// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the school content and assistant via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sdn3bangkuang/sekolahku/internal/content"
)

// Asker answers free-form questions about the school.
type Asker interface {
	Send(ctx context.Context, userText string) string
}

// Server wraps the MCP server with school content tools.
type Server struct {
	mcp   *server.MCPServer
	store *content.Store
	ask   Asker
}

// New creates a new MCP server with all tools registered. ask may be nil
// when no assistant credential is configured; the ask tool then reports
// that the assistant is unavailable.
func New(store *content.Store, ask Asker) *Server {
	s := &Server{store: store, ask: ask}

	s.mcp = server.NewMCPServer(
		"SekolahKu",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_teachers",
		mcp.WithDescription("List all teachers and staff of SD Negeri 3 Bangkuang with role, contact and NIP."),
	), s.listTeachers)

	s.mcp.AddTool(mcp.NewTool("list_news",
		mcp.WithDescription("List published school news, newest first."),
	), s.listNews)

	s.mcp.AddTool(mcp.NewTool("list_gallery",
		mcp.WithDescription("List the school activity gallery, newest first."),
	), s.listGallery)

	s.mcp.AddTool(mcp.NewTool("refresh_content",
		mcp.WithDescription("Refetch all collections from the spreadsheet backend."),
	), s.refresh)

	s.mcp.AddTool(mcp.NewTool("ask",
		mcp.WithDescription("Ask the school assistant a question. Answers are grounded "+
			"in the current teachers, news and gallery data and phrased in Indonesian."),
		mcp.WithString("question", mcp.Required(), mcp.Description("Question about the school")),
	), s.askTool)

	// Resource: static school profile.
	s.mcp.AddResource(
		mcp.NewResource("sekolahku://profile", "School Profile",
			mcp.WithResourceDescription("Profile of SD Negeri 3 Bangkuang."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readProfileResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listTeachers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.store.Teachers(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNews(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.store.News(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listGallery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.store.Gallery(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) refresh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.store.Refresh(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("content refreshed"), nil
}

func (s *Server) askTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.ask == nil {
		return mcp.NewToolResultError("assistant is not configured"), nil
	}
	return mcp.NewToolResultText(s.ask.Send(ctx, question)), nil
}

func (s *Server) readProfileResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "sekolahku://profile",
			MIMEType: "text/markdown",
			Text:     SchoolProfile,
		},
	}, nil
}
