package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/blognav/internal/content"
	"github.com/ziadkadry99/blognav/internal/search"
	"github.com/ziadkadry99/blognav/internal/taxonomy"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the blog's search index and
// taxonomy to AI agents.
type Server struct {
	index  *content.Index
	engine *search.Engine
	pages  []taxonomy.Page
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server. posts may be nil when only the
// published index is available; list_taxonomy then reports nothing.
func NewServer(index *content.Index, engine *search.Engine, posts []content.Post) *Server {
	if engine == nil {
		engine = search.NewEngine(search.Options{})
	}
	s := &Server{
		index:  index,
		engine: engine,
		pages:  taxonomy.All(posts),
	}

	s.mcp = server.NewMCPServer(
		"blognav",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchPostsTool, s.handleSearchPosts)
	s.mcp.AddTool(listTaxonomyTool, s.handleListTaxonomy)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
