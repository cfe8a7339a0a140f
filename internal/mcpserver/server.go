// Package mcpserver exposes the documentation service as MCP (Model
// Context Protocol) tools over stdio or streamable HTTP transport.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yriveiro/opencode-python-docs/internal/cache"
	"github.com/yriveiro/opencode-python-docs/internal/docservice"
	"github.com/yriveiro/opencode-python-docs/internal/format"
	"github.com/yriveiro/opencode-python-docs/internal/models"
	"github.com/yriveiro/opencode-python-docs/internal/searchindex"
)

// DocService is the slice of the documentation service the tool layer uses.
type DocService interface {
	GetIndex(ctx context.Context, version string) (*models.DocIndex, error)
	GetSearchIndex(ctx context.Context, version string) (*searchindex.SearchIndex, error)
	GetDoc(ctx context.Context, version, path string) (*models.FetchedDoc, error)
	SearchWithFallback(index *models.DocIndex, idx *searchindex.SearchIndex, query, docType string, limit int) docservice.FallbackResult
	RunGarbageCollection() cache.GCStats
}

// Verify the concrete service satisfies DocService at compile time.
var _ DocService = (*docservice.Service)(nil)

// Server wraps the MCP server with the documentation tools.
type Server struct {
	mcp            *server.MCPServer
	docs           DocService
	defaultVersion string
	logger         *slog.Logger
}

// New creates an MCP server with all documentation tools registered.
// A cache garbage-collection sweep runs on every new client session.
func New(docs DocService, defaultVersion string, logger *slog.Logger) *Server {
	s := &Server{docs: docs, defaultVersion: defaultVersion, logger: logger}

	hooks := &server.Hooks{}
	hooks.AddOnRegisterSession(func(_ context.Context, session server.ClientSession) {
		stats := s.docs.RunGarbageCollection()
		logger.Debug("cache gc on session start",
			slog.String("session", session.SessionID()),
			slog.Int("scanned", stats.Scanned),
			slog.Int("deleted", stats.Deleted),
			slog.Int("errors", stats.Errors))
	})

	s.mcp = server.NewMCPServer(
		"opencode-python-docs",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithHooks(hooks),
	)

	s.mcp.AddTool(mcp.NewTool("search_docs",
		mcp.WithDescription("Search the documentation index by keyword. "+
			"When a type filter matches nothing, likely types are inferred "+
			"from the query and the search is broadened automatically."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("type", mcp.Description("Optional doc type filter (e.g. asyncio, socket)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
		mcp.WithString("version", mcp.Description("Documentation version (defaults to the configured one)")),
	), s.searchDocs)

	s.mcp.AddTool(mcp.NewTool("get_doc",
		mcp.WithDescription("Fetch a documentation page as Markdown with pagination."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Document path from a search result")),
		mcp.WithString("version", mcp.Description("Documentation version (defaults to the configured one)")),
		mcp.WithString("anchor", mcp.Description("Optional section anchor to return")),
		mcp.WithNumber("offset", mcp.Description("Character offset into the document (default 0)")),
		mcp.WithNumber("limit", mcp.Description("Maximum characters to return (default 10000)")),
	), s.getDoc)

	s.mcp.AddTool(mcp.NewTool("suggest_types",
		mcp.WithDescription("Preview which documentation types a query would infer."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Query to analyze")),
		mcp.WithString("version", mcp.Description("Documentation version (defaults to the configured one)")),
	), s.suggestTypes)

	return s
}

// ServeStdio runs the MCP server on stdin/stdout until ctx is done.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// HTTPHandler returns the streamable HTTP transport for mounting on a router.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) version(req mcp.CallToolRequest) string {
	if v := req.GetString("version", ""); v != "" {
		return v
	}
	return s.defaultVersion
}

func (s *Server) searchDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docType := req.GetString("type", "")
	limit := req.GetInt("limit", 0)
	version := s.version(req)

	index, err := s.docs.GetIndex(ctx, version)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load index for %s: %v", version, err)), nil
	}
	idx, err := s.docs.GetSearchIndex(ctx, version)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load search index for %s: %v", version, err)), nil
	}

	res := s.docs.SearchWithFallback(index, idx, query, docType, limit)
	return mcp.NewToolResultText(format.SearchResults(query, res)), nil
}

func (s *Server) getDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	anchor := req.GetString("anchor", "")
	offset := req.GetInt("offset", 0)
	limit := req.GetInt("limit", 0)
	version := s.version(req)

	doc, err := s.docs.GetDoc(ctx, version, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch %s: %v", path, err)), nil
	}
	return mcp.NewToolResultText(format.Document(doc, anchor, offset, limit)), nil
}

func (s *Server) suggestTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	version := s.version(req)

	idx, err := s.docs.GetSearchIndex(ctx, version)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load search index for %s: %v", version, err)), nil
	}

	res := searchindex.InferTypes(query, idx)
	return mcp.NewToolResultText(format.TypeSuggestions(res)), nil
}
