package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/pipeline"
)

// exportFlags holds the export command's flags. Flags that were set on the
// command line override values from the config file.
type exportFlags struct {
	output     string
	config     string
	root       string
	pickRoot   bool
	skipMeshes bool
	refresh    bool
	cells      int
	model      string
	meshDir    string
	timestep   float64
	scale      float64
	cache      cacheFlags
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   "export [assembly]",
		Short: "Export an assembly as an MJCF model with meshes",
		Long: `Export an assembly as an MJCF model with meshes.

The assembly is read from JSON (.json) or YAML (.yaml, .yml). Its joints are
reduced to a kinematic tree rooted at the grounded part, or at --root when
given. Joints that close loops become weld constraints.

The model is written to <output>/<model>.xml and the meshes to
<output>/<mesh-dir>/. Nothing is written unless the whole export succeeds.

Results are cached locally for faster subsequent runs.`,
		Example: `  kinetree export arm.yaml -o out/
  kinetree export linkage.json --root Base --skip-meshes
  kinetree export arm.yaml --config kinetree.toml --pick-root`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAssembly,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], opts, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output directory (default: next to the assembly)")
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML config file with export options")
	cmd.Flags().StringVar(&f.root, "root", "", "root part (overrides the grounded part)")
	cmd.Flags().BoolVar(&f.pickRoot, "pick-root", false, "choose the root part interactively")
	cmd.Flags().BoolVar(&f.skipMeshes, "skip-meshes", false, "write the model without generating meshes")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().IntVar(&f.cells, "cells", pipeline.DefaultCells, "mesh resolution along the longest axis")
	cmd.Flags().StringVar(&f.model, "model", "", "model name (default: assembly name)")
	cmd.Flags().StringVar(&f.meshDir, "mesh-dir", "", "mesh directory relative to the model (default: meshes)")
	cmd.Flags().Float64Var(&f.timestep, "timestep", 0, "simulation timestep in seconds (default: 0.002)")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "length scale from assembly units to metres (default: 0.001)")
	cmd.MarkFlagsMutuallyExclusive("root", "pick-root")
	f.cache.register(cmd)

	return cmd
}

// options merges the config file with the flags that were set.
func (f *exportFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		loaded, err := pipeline.LoadConfig(f.config)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		opts.Root = f.root
	}
	if flags.Changed("skip-meshes") {
		opts.SkipMeshes = f.skipMeshes
	}
	if flags.Changed("cells") {
		opts.Cells = f.cells
	}
	if flags.Changed("model") {
		opts.Document.Model = f.model
	}
	if flags.Changed("mesh-dir") {
		opts.Document.MeshDir = f.meshDir
	}
	if flags.Changed("timestep") {
		opts.Document.Timestep = f.timestep
	}
	if flags.Changed("scale") {
		opts.Document.Scale = f.scale
	}
	opts.Refresh = f.refresh
	return opts, nil
}

// runExport loads the assembly, exports it and writes the result.
func (c *CLI) runExport(ctx context.Context, input string, opts pipeline.Options, f exportFlags) error {
	a, err := assembly.Import(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	if f.pickRoot {
		root, err := pickRoot(ctx, a)
		if err != nil {
			return err
		}
		if root == "" {
			printInfo("No root selected")
			return nil
		}
		opts.Root = root
	}
	opts.Logger = c.Logger

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %s...", a.Name))
	spinner.Start()

	result, err := runner.Export(ctx, a, opts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	dir := f.output
	if dir == "" {
		dir = filepath.Dir(input)
	}
	files, err := result.Write(dir)
	if err != nil {
		return err
	}
	prog.done("Exported " + result.Model)

	printSuccess("Exported %s %s root %s", StyleHighlight.Render(result.Model), StyleDim.Render("·"), StyleValue.Render(result.Root))
	printStats(result.Stats.Parts, result.Stats.Joints, len(result.Loops), result.CacheHit)
	if n := len(result.Meshes); n > 0 {
		printDetail("%d meshes in %s", n, filepath.Join(dir, result.MeshDir))
	}
	printFile(files[len(files)-1])
	if len(result.Loops) > 0 {
		printNextStep("See which joints became welds", "kinetree tree "+input)
	}
	return nil
}
