package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/cache"
	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/graph"
	"github.com/matzehuels/kinetree/pkg/observability"
	"github.com/matzehuels/kinetree/pkg/render/nodelink"
)

// Graph output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidGraphFormats is the set of supported graph formats.
var ValidGraphFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// ValidateGraphFormat checks that a graph format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// GraphOptions configures a connectivity graph rendering.
type GraphOptions struct {
	Format   string `json:"format,omitempty"`
	Root     string `json:"root,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`
}

// RenderGraph draws the connectivity graph of a with the root and loop
// joints of its reduction marked. When the assembly cannot be reduced, the
// bare connectivity graph is drawn so the problem can be inspected. The
// second return value reports a cache hit.
func (r *Runner) RenderGraph(ctx context.Context, a *assembly.Assembly, opts GraphOptions) ([]byte, bool, error) {
	if opts.Format == "" {
		opts.Format = FormatDOT
	}
	if err := ValidateGraphFormat(opts.Format); err != nil {
		return nil, false, err
	}

	hash, err := HashAssembly(a)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.GraphKey(hash, cache.GraphKeyOpts{Format: opts.Format, Root: opts.Root, Detailed: opts.Detailed})

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		if err == nil && hit {
			observability.Cache().OnCacheHit(ctx, key)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, key)
	}

	dotOpts := nodelink.Options{Detailed: opts.Detailed}
	var g *graph.Graph
	red, err := r.Reduce(ctx, a, opts.Root)
	switch {
	case err == nil:
		g = red.Graph
		dotOpts.Root = red.Root
		dotOpts.Loops = red.Loops
	case errors.Is(err, errors.ErrCodeConfiguration):
		r.Logger.Warn("drawing graph without a kinematic tree", "error", errors.UserMessage(err))
		if g, _, err = graph.FromAssembly(a); err != nil {
			return nil, false, err
		}
	default:
		return nil, false, err
	}

	data := []byte(nodelink.ToDOT(g, dotOpts))
	if opts.Format == FormatSVG {
		if data, err = nodelink.RenderSVG(ctx, string(data)); err != nil {
			return nil, false, fmt.Errorf("render: %w", err)
		}
	}

	if err := r.Cache.Set(ctx, key, data, GraphTTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return data, false, nil
}
