package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blognav/internal/dom"
	"github.com/ziadkadry99/blognav/internal/event"
	"github.com/ziadkadry99/blognav/internal/toc"
)

var (
	tocScrollY    float64
	tocNavigate   string
	tocLineHeight float64
	tocList       bool
)

var tocCmd = &cobra.Command{
	Use:   "toc <page.html>",
	Short: "Inject the table of contents into a built page and preview the scroll-spy",
	Long: `Parses a built post page, assigns ids to its h2/h3 headings, appends the
table of contents to the TOC container and prints the resulting HTML.

Heading positions are estimated from the text that precedes them, so
--scroll-y shows which link the scroll-spy would mark active at that scroll
position and --navigate shows the effect of clicking a TOC link. Use "-" to
read the page from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTOC,
}

func init() {
	tocCmd.Flags().Float64Var(&tocScrollY, "scroll-y", 0, "simulated vertical scroll position in pixels")
	tocCmd.Flags().StringVar(&tocNavigate, "navigate", "", "simulate a click on the TOC link for this heading id")
	tocCmd.Flags().Float64Var(&tocLineHeight, "line-height", 24, "estimated line height in pixels")
	tocCmd.Flags().BoolVar(&tocList, "list", false, "list headings and estimated positions instead of printing HTML")
	rootCmd.AddCommand(tocCmd)
}

func runTOC(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	doc, err := dom.Parse(in)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	page, err := toc.NewPage(doc, pageOptions(cfg))
	switch {
	case errors.Is(err, toc.ErrTooFewHeadings):
		logger.Info("table of contents hidden", "reason", err)
		return dom.Render(os.Stdout, doc)
	case err != nil:
		return err
	}

	layout := toc.EstimateLayout(page, tocLineHeight, 0)
	sched := event.NewManual()
	tracker, err := toc.NewTracker(sched, page.Headings, layout, page, trackerOptions(cfg, logger))
	if err != nil {
		return err
	}
	handlers := event.NewHandlers()
	tracker.Register(handlers)

	if tocNavigate != "" {
		if err := tracker.Navigate(tocNavigate); err != nil {
			return err
		}
	} else {
		layout.ScrollTo(tocScrollY)
		handlers.Dispatch(event.Event{Name: event.Scroll})
		sched.Frame()
	}

	if tocList {
		return printHeadings(os.Stdout, tracker, layout)
	}
	return dom.Render(os.Stdout, doc)
}

func printHeadings(w io.Writer, tracker *toc.Tracker, layout *toc.StaticLayout) error {
	active, _ := tracker.Active()
	fmt.Fprintf(w, "scroll y = %.0f\n", layout.ScrollY())
	for _, h := range tracker.Headings() {
		mark := " "
		if h.ID == active.ID {
			mark = "*"
		}
		indent := strings.Repeat("  ", int(h.Level-toc.H2))
		top, _ := layout.HeadingTop(h.ID)
		fmt.Fprintf(w, "%s %6.0f  %s%s (#%s)\n", mark, top, indent, h.Text, h.ID)
	}
	return nil
}
