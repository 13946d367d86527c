package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blognav/internal/taxonomy"
)

var (
	taxonomyKind  string
	taxonomyWrite bool
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "List or write the category, tag and series pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		posts, err := buildPosts(context.Background(), cfg)
		if err != nil {
			return err
		}

		var pages []taxonomy.Page
		switch taxonomy.Kind(taxonomyKind) {
		case "":
			pages = taxonomy.All(posts)
		case taxonomy.KindCategory:
			pages = taxonomy.Categories(posts)
		case taxonomy.KindTag:
			pages = taxonomy.Tags(posts)
		case taxonomy.KindSeries:
			pages = taxonomy.Series(posts)
		default:
			return fmt.Errorf("unknown kind %q (want category, tag or series)", taxonomyKind)
		}

		if taxonomyWrite {
			n, err := taxonomy.WritePages(cfg.SiteDir, pages, taxonomy.BuildCategoryTree(posts))
			if err != nil {
				return err
			}
			logger.Info("taxonomy pages written", "dir", cfg.SiteDir, "pages", n)
			return nil
		}

		for _, p := range pages {
			fmt.Fprintf(os.Stdout, "%-8s  %-30s  %3d  %s\n", p.Kind, p.Name, len(p.Posts), p.URL())
		}
		return nil
	},
}

func init() {
	taxonomyCmd.Flags().StringVar(&taxonomyKind, "kind", "", "only category, tag or series pages")
	taxonomyCmd.Flags().BoolVar(&taxonomyWrite, "write", false, "write the pages into site_dir")
	rootCmd.AddCommand(taxonomyCmd)
}
