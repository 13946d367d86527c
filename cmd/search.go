package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blognav/internal/content"
	"github.com/ziadkadry99/blognav/internal/search"
)

var (
	searchHTML bool
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the content index the way the in-page search does",
	Long: `Runs a query against the built content index: case-insensitive substring
matching on title, content and tags, at most max_results results in index
order, with excerpts. Without a query an interactive prompt is started.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchHTML, "html", false, "print the rendered results panel")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	idx, err := loadIndex(ctx, cfg, logger)
	if err != nil {
		return err
	}

	engine := search.NewEngine(engineOptions(cfg))
	render := func(query string) error {
		resp := engine.Search(query, idx.Records())
		return printResponse(os.Stdout, resp, cfg.Search.NoResultsText)
	}

	if len(args) > 0 {
		return render(strings.Join(args, " "))
	}
	return interactiveSearch(idx, engine, render)
}

// interactiveSearch prompts for queries until the user interrupts.
func interactiveSearch(idx *content.Index, engine *search.Engine, render func(string) error) error {
	fmt.Fprintf(os.Stderr, "%d post(s) indexed. Ctrl+C to quit.\n", len(idx.Records()))
	minLen := engine.Options().MinQueryLength
	for {
		prompt := promptui.Prompt{
			Label: "Search",
			Validate: func(s string) error {
				if len([]rune(s)) < minLen {
					return fmt.Errorf("enter at least %d characters", minLen)
				}
				return nil
			},
		}
		query, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := render(query); err != nil {
			return err
		}
	}
}

func printResponse(w io.Writer, resp search.Response, noResults string) error {
	switch {
	case searchJSON:
		return writeJSONTo(w, resp)
	case searchHTML:
		out, err := search.RenderPanel(resp, search.RenderOptions{NoResultsText: noResults})
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
		return nil
	}

	switch resp.State {
	case search.StateIdle:
		fmt.Fprintln(w, "Query too short.")
		return nil
	case search.StateNoResults:
		if noResults == "" {
			noResults = search.DefaultNoResultsText
		}
		fmt.Fprintln(w, noResults)
		return nil
	}

	if resp.Total > len(resp.Results) {
		fmt.Fprintf(w, "%d result(s), showing %d:\n\n", resp.Total, len(resp.Results))
	} else {
		fmt.Fprintf(w, "%d result(s):\n\n", resp.Total)
	}
	for i, r := range resp.Results {
		fmt.Fprintf(w, "%2d. %s\n", i+1, r.Title)
		fmt.Fprintf(w, "    %s", r.URL)
		if r.Date != "" {
			fmt.Fprintf(w, "  %s", r.Date)
		}
		if len(r.Tags) > 0 {
			fmt.Fprintf(w, "  [%s]", strings.Join(r.Tags, ", "))
		}
		fmt.Fprintf(w, "\n    %s\n\n", r.Excerpt)
	}
	return nil
}
