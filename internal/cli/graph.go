package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/pipeline"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		opts   pipeline.GraphOptions
		cf     cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "graph [assembly]",
		Short: "Draw the connectivity graph of an assembly",
		Long: `Draw the connectivity graph of an assembly as Graphviz DOT or SVG.

Parts are boxes and joints are lines. The root of the kinematic tree is
outlined in bold and joints that close loops are dashed. When no kinematic
tree can be built, the plain graph is drawn so the problem can be inspected.`,
		Example: `  kinetree graph linkage.json | dot -Tpng > linkage.png
  kinetree graph arm.yaml -f svg -o arm.svg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAssembly,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateGraphFormat(opts.Format); err != nil {
				return err
			}
			ctx := cmd.Context()

			a, err := assembly.Import(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cf)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Cache.Close()

			data, _, err := runner.RenderGraph(ctx, a, opts)
			if err != nil {
				return err
			}

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			if _, err := out.Write(data); err != nil {
				out.Close()
				return fmt.Errorf("write graph: %w", err)
			}
			if err := out.Close(); err != nil {
				return err
			}
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", pipeline.FormatDOT, "output format: dot, svg")
	cmd.Flags().StringVar(&opts.Root, "root", "", "root part (overrides the grounded part)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label joints with their kind and parts with their label")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cf.register(cmd)

	return cmd
}

type nopCloser struct {
	io.Writer
}

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
