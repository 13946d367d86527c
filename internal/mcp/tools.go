package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchPostsTool defines the search_posts MCP tool.
var searchPostsTool = mcp.NewTool("search_posts",
	mcp.WithDescription("Search the blog's posts by title, content and tags. Matching is a case-insensitive substring match; results come back in index order (newest first)."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Substring to look for, at least two characters"),
	),
)

// listTaxonomyTool defines the list_taxonomy MCP tool.
var listTaxonomyTool = mcp.NewTool("list_taxonomy",
	mcp.WithDescription("List the blog's category, tag and series pages with their URLs and post counts."),
	mcp.WithString("kind",
		mcp.Description("Only list pages of this kind"),
		mcp.Enum("category", "tag", "series"),
	),
)
