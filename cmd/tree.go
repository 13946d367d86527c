package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blognav/internal/config"
	"github.com/ziadkadry99/blognav/internal/db"
	"github.com/ziadkadry99/blognav/internal/taxonomy"
	"github.com/ziadkadry99/blognav/internal/tree"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Inspect and change the persisted category tree state",
	Long: `The category tree remembers which nodes are collapsed under a single key
(tree.state_key) in the local state database. These commands operate on the
tree built from the posts' categories.`,
}

var treeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the category tree with its restored collapsed state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTree(func(t *tree.Tree, root *taxonomy.CategoryNode) error {
			printTree(os.Stdout, t, root)
			return nil
		})
	},
}

var treeToggleCmd = &cobra.Command{
	Use:   "toggle <category>...",
	Short: "Toggle categories between collapsed and expanded",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTree(func(t *tree.Tree, _ *taxonomy.CategoryNode) error {
			for _, id := range args {
				collapsed, err := t.Toggle(id)
				if err != nil {
					return err
				}
				state := "expanded"
				if collapsed {
					state = "collapsed"
				}
				fmt.Printf("%s: %s\n", id, state)
			}
			return nil
		})
	},
}

var treeExpandAllCmd = &cobra.Command{
	Use:   "expand-all",
	Short: "Expand every category and clear the persisted state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTree(func(t *tree.Tree, _ *taxonomy.CategoryNode) error {
			return t.ExpandAll()
		})
	},
}

var treeCollapseAllCmd = &cobra.Command{
	Use:   "collapse-all",
	Short: "Show the tree fully collapsed; the persisted state is not changed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTree(func(t *tree.Tree, root *taxonomy.CategoryNode) error {
			t.CollapseAll()
			printTree(os.Stdout, t, root)
			return nil
		})
	},
}

func init() {
	treeCmd.AddCommand(treeShowCmd, treeToggleCmd, treeExpandAllCmd, treeCollapseAllCmd)
	rootCmd.AddCommand(treeCmd)
}

// withTree builds the category tree from the posts, restores its state from
// the state database and passes it to fn.
func withTree(fn func(*tree.Tree, *taxonomy.CategoryNode) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	posts, err := buildPosts(context.Background(), cfg)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.StateDB)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer database.Close()

	root := taxonomy.BuildCategoryTree(posts)
	t := newCategoryTree(cfg, root, database, logger)
	if _, err := t.Restore(); err != nil {
		return err
	}
	return fn(t, root)
}

func newCategoryTree(cfg *config.Config, root *taxonomy.CategoryNode, store tree.KeyValueStore, logger *slog.Logger) *tree.Tree {
	var nodes []tree.Node
	for _, name := range root.Names() {
		nodes = append(nodes, tree.Node{ID: name})
	}
	return tree.New(nodes, store, tree.Options{StateKey: cfg.Tree.StateKey, Logger: logger})
}

func printTree(w io.Writer, t *tree.Tree, root *taxonomy.CategoryNode) {
	var walk func(n *taxonomy.CategoryNode, depth int, hidden bool)
	walk = func(n *taxonomy.CategoryNode, depth int, hidden bool) {
		for _, ch := range n.Children {
			collapsed, _ := t.Collapsed(ch.Name)
			if !hidden {
				mark := "▾"
				if collapsed {
					mark = "▸"
				}
				fmt.Fprintf(w, "%s%s %s (%d)\n", strings.Repeat("  ", depth), mark, ch.Name, ch.Count())
			}
			walk(ch, depth+1, hidden || collapsed)
		}
	}
	walk(root, 0, false)
}
