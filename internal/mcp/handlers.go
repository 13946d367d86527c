package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/blognav/internal/search"
	"github.com/ziadkadry99/blognav/internal/taxonomy"
)

// handleSearchPosts runs the in-page search over the loaded index.
func (s *Server) handleSearchPosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	if err := s.index.Wait(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("content index unavailable: %v", err)), nil
	}

	resp := s.engine.Search(query, s.index.Records())
	switch resp.State {
	case search.StateIdle:
		return mcp.NewToolResultError(fmt.Sprintf(
			"query %q is too short; use at least %d characters", query, s.engine.Options().MinQueryLength,
		)), nil
	case search.StateNoResults:
		return mcp.NewToolResultText("No posts found. The index may be empty; run `blognav index` to build it."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(resp)), nil
}

// handleListTaxonomy lists the generated category, tag and series pages.
func (s *Server) handleListTaxonomy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := taxonomy.Kind(request.GetString("kind", ""))

	var sb strings.Builder
	n := 0
	for _, p := range s.pages {
		if kind != "" && p.Kind != kind {
			continue
		}
		n++
		sb.WriteString(fmt.Sprintf("- [%s] %s (%d post(s)) %s\n", p.Kind, p.Name, len(p.Posts), p.URL()))
	}
	if n == 0 {
		return mcp.NewToolResultText("No taxonomy pages found."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d page(s):\n", n) + sb.String()), nil
}

// formatSearchResults converts a response into plain text for agent
// consumption.
func formatSearchResults(resp search.Response) string {
	var sb strings.Builder
	if resp.Total > len(resp.Results) {
		sb.WriteString(fmt.Sprintf("Found %d post(s), showing the first %d:\n", resp.Total, len(resp.Results)))
	} else {
		sb.WriteString(fmt.Sprintf("Found %d post(s):\n", resp.Total))
	}

	for i, r := range resp.Results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Title: %s\n", r.Title))
		sb.WriteString(fmt.Sprintf("URL: %s\n", r.URL))
		if r.Date != "" {
			sb.WriteString(fmt.Sprintf("Date: %s\n", r.Date))
		}
		if len(r.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(r.Tags, ", ")))
		}
		sb.WriteString("\n")
		sb.WriteString(r.Excerpt)
		sb.WriteString("\n")
	}

	return sb.String()
}
