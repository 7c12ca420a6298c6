package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kinetree/internal/server"
	"github.com/matzehuels/kinetree/pkg/cache"
	"github.com/matzehuels/kinetree/pkg/pipeline"
)

// apiKeyPrefix keeps API cache entries apart from CLI runs on a shared backend.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		flags cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  POST /v1/export   assembly (JSON or YAML) to MJCF; ?format=json adds meshes
  POST /v1/graph    connectivity graph as DOT or SVG (?format=svg)
  GET  /healthz     build information

The server stops gracefully on interrupt.`,
		Example: `  kinetree serve
  kinetree serve --addr 127.0.0.1:9000 --cache redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, flags)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, f cacheFlags) error {
	cc, err := c.openCache(ctx, f)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cc.Close()

	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
	printInfo("Serving on %s", addr)
	return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
}
