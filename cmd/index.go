package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blognav/internal/content"
	"github.com/ziadkadry99/blognav/internal/db"
	"github.com/ziadkadry99/blognav/internal/progress"
	"github.com/ziadkadry99/blognav/internal/taxonomy"
)

var (
	indexWritePages bool
	indexNoProgress bool
	indexHistory    int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the search index (search.json) from the posts directory",
	Long: `Parses every post under posts_dir, renders its markdown to plain text and
writes the records the in-page search loads, newest first, to
site_dir/index_file. With --pages the category, tag and series pages are
written into site_dir as well.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexWritePages, "pages", false, "also write category, tag and series pages")
	indexCmd.Flags().BoolVar(&indexNoProgress, "no-progress", false, "disable the progress bar")
	indexCmd.Flags().IntVar(&indexHistory, "history", 0, "print the last N recorded builds instead of building")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.StateDB)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer database.Close()

	if indexHistory > 0 {
		builds, err := database.Builds(indexHistory)
		if err != nil {
			return err
		}
		for _, b := range builds {
			fmt.Printf("%s  %s  %4d records  %s -> %s\n", b.BuiltAt.Local().Format("2006-01-02 15:04:05"), b.ID[:8], b.Records, b.PostsDir, b.Output)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reporter progress.Reporter = progress.Nop{}
	if !indexNoProgress {
		reporter = progress.NewReporter()
	}

	builder := content.NewBuilder(content.BuilderOptions{
		PostsDir:  cfg.PostsDir,
		Include:   cfg.Include,
		Exclude:   cfg.Exclude,
		Permalink: cfg.Permalink,
		Reporter:  reporter,
	})
	posts, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	out := cfg.IndexPath()
	records := content.Records(posts)
	if err := content.WriteIndex(records, out); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	logger.Info("content index written", "path", out, "records", len(records))

	if _, err := database.RecordBuild(cfg.PostsDir, out, len(records)); err != nil {
		logger.Warn("could not record build", "error", err)
	}

	if indexWritePages {
		n, err := taxonomy.WritePages(cfg.SiteDir, taxonomy.All(posts), taxonomy.BuildCategoryTree(posts))
		if err != nil {
			return fmt.Errorf("writing taxonomy pages: %w", err)
		}
		logger.Info("taxonomy pages written", "dir", cfg.SiteDir, "pages", n)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d post(s) into %s\n", len(records), out)
	return nil
}
