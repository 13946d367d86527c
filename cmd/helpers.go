package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ziadkadry99/blognav/internal/config"
	"github.com/ziadkadry99/blognav/internal/content"
	"github.com/ziadkadry99/blognav/internal/search"
	"github.com/ziadkadry99/blognav/internal/toc"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `blognav init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs always go to stderr so stdout
// stays usable for command output and the MCP protocol.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == config.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// setup loads the config and installs its logger as the default.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func engineOptions(cfg *config.Config) search.Options {
	return search.Options{
		MinQueryLength: cfg.Search.MinQueryLength,
		MaxResults:     cfg.Search.MaxResults,
		ExcerptRadius:  cfg.Search.ExcerptRadius,
	}
}

func pageOptions(cfg *config.Config) toc.PageOptions {
	return toc.PageOptions{
		ContentSelector:   cfg.TOC.ContentSelector,
		ContainerSelector: cfg.TOC.ContainerSelector,
		SidebarSelector:   cfg.TOC.SidebarSelector,
		HeadingSelector:   cfg.TOC.HeadingSelector,
		ActiveClass:       cfg.TOC.ActiveClass,
		MinHeadings:       cfg.TOC.MinHeadings,
	}
}

func trackerOptions(cfg *config.Config, logger *slog.Logger) toc.TrackerOptions {
	return toc.TrackerOptions{
		Offset:      cfg.TOC.ScrollOffset,
		MinHeadings: cfg.TOC.MinHeadings,
		Logger:      logger,
	}
}

// indexSource picks where the content index is read from: index_url when
// set, otherwise the built file under site_dir.
func indexSource(cfg *config.Config) content.Source {
	if cfg.IndexURL != "" {
		return content.HTTPSource{URL: cfg.IndexURL}
	}
	return content.FileSource{Path: cfg.IndexPath()}
}

// loadIndex starts loading the content index and waits for it.
func loadIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*content.Index, error) {
	idx := content.NewIndex(indexSource(cfg), logger)
	idx.Load(ctx)
	if err := idx.Wait(ctx); err != nil {
		return nil, fmt.Errorf("loading content index: %w\nRun `blognav index` to build it", err)
	}
	return idx, nil
}

// buildPosts parses the posts directory.
func buildPosts(ctx context.Context, cfg *config.Config) ([]content.Post, error) {
	b := content.NewBuilder(content.BuilderOptions{
		PostsDir:  cfg.PostsDir,
		Include:   cfg.Include,
		Exclude:   cfg.Exclude,
		Permalink: cfg.Permalink,
	})
	return b.Build(ctx)
}

func writeJSONTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
