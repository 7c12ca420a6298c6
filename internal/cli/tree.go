package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/pipeline"
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		root   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "tree [assembly]",
		Short: "Print the kinematic tree of an assembly",
		Long: `Print the kinematic tree of an assembly and the loop joints that the
export turns into weld constraints.

The tree is the body hierarchy of the exported model: every part appears
once, below the part it is attached to, with the joint that attaches it.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAssembly,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := assembly.Import(args[0])
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			red, err := runner.Reduce(cmd.Context(), a, root)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(treeJSON{Root: red.Root, Tree: red.TreeEdges(), Loops: red.LoopEdges()})
			}
			fmt.Println(renderTree(red))
			if len(red.Loops) > 0 {
				fmt.Println()
				fmt.Println(renderLoops(red))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "root part (overrides the grounded part)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree as JSON")

	return cmd
}

type treeJSON struct {
	Root  string                `json:"root"`
	Tree  []pipeline.Connection `json:"tree"`
	Loops []pipeline.Connection `json:"loops"`
}

var (
	styleJoint = lipgloss.NewStyle().Foreground(colorGray)
	styleLoop  = lipgloss.NewStyle().Foreground(colorYellow)
)

// renderTree draws the body hierarchy with the joint above each part.
func renderTree(red *pipeline.Reduction) string {
	var build func(parent string) []any
	build = func(parent string) []any {
		var children []any
		for _, child := range red.Tree.Neighbors(parent) {
			e, _ := red.Tree.Edge(parent, child.Key)
			label := child.Key + " " + styleJoint.Render(fmt.Sprintf("%s %s (%s)", iconArrow, e.Joint.DisplayLabel(), e.Kind))
			grandchildren := build(child.Key)
			if len(grandchildren) == 0 {
				children = append(children, label)
				continue
			}
			children = append(children, tree.Root(label).Child(grandchildren...))
		}
		return children
	}

	rootLabel := red.Root
	if red.Root == red.Grounded {
		rootLabel += " " + styleJoint.Render("(grounded)")
	}
	return tree.Root(rootLabel).
		Child(build(red.Root)...).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim).
		RootStyle(StyleTitle).
		String()
}

// renderLoops lists the loop joints in a table.
func renderLoops(red *pipeline.Reduction) string {
	rows := make([][]string, 0, len(red.Loops))
	for _, t := range red.Loops {
		rows = append(rows, []string{t.Edge.Joint.DisplayLabel(), string(t.Edge.Kind), t.U.Key + " " + iconArrow + " " + t.V.Key})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Loop joint", "Kind", "Parts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return styleLoop.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	title := StyleWarning.Render(fmt.Sprintf("%d %s exported as weld constraints", len(rows), plural(len(rows), "joint", "joints")))
	return strings.Join([]string{title, t.Render()}, "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
