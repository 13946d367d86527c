package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blognav/internal/content"
	mcpserver "github.com/ziadkadry99/blognav/internal/mcp"
	"github.com/ziadkadry99/blognav/internal/search"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the blog's search index and taxonomy pages as tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		ctx := context.Background()
		idx := content.NewIndex(indexSource(cfg), logger)
		idx.Load(ctx)

		posts, err := buildPosts(ctx, cfg)
		if err != nil {
			// Search still works from the published index.
			logger.Warn("taxonomy unavailable", "posts_dir", cfg.PostsDir, "error", err)
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "blognav MCP server started on stdio (index=%s, posts=%d)\n", cfg.IndexPath(), len(posts))

		srv := mcpserver.NewServer(idx, search.NewEngine(engineOptions(cfg)), posts)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
