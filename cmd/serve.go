package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blognav/internal/content"
	"github.com/ziadkadry99/blognav/internal/db"
	"github.com/ziadkadry99/blognav/internal/search"
	"github.com/ziadkadry99/blognav/internal/server"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built site with the search, taxonomy and tree-state APIs",
	Long: `Starts an HTTP server that serves site_dir and exposes:

  GET  /api/search?q=         search results as JSON
  GET  /api/search/panel?q=   the rendered results panel
  GET  /ws/search             live debounced search over a websocket
  GET  /api/taxonomy          category, tag and series pages
  GET  /api/tree              category tree state
  POST /api/tree/toggle       toggle a category (?node=)
  POST /api/tree/expand-all   expand everything and clear the state`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default server.port)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The index loads in the background; searches see an empty index until
	// it arrives.
	idx := content.NewIndex(indexSource(cfg), logger)
	idx.Load(ctx)

	posts, err := buildPosts(ctx, cfg)
	if err != nil {
		logger.Warn("taxonomy unavailable", "posts_dir", cfg.PostsDir, "error", err)
	}

	database, err := db.Open(cfg.StateDB)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer database.Close()

	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		SiteDir:        cfg.SiteDir,
		AllowAll:       cfg.Server.AllowAll || serveAllowAll,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		NoResultsText:  cfg.Search.NoResultsText,
		Debounce:       cfg.Search.Debounce,
		FrameInterval:  cfg.TOC.FrameInterval,
		TreeStateKey:   cfg.Tree.StateKey,
	}, server.Deps{
		Index:  idx,
		Engine: search.NewEngine(engineOptions(cfg)),
		Posts:  posts,
		Store:  database,
		Logger: logger,
	})

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "blognav %s serving %s on http://localhost:%d\n", Version, cfg.SiteDir, cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "  State: %s\n", database.Path())
	fmt.Fprintf(os.Stderr, "  Posts: %d\n", len(posts))

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
