package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/cache"
	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/mesh"
	"github.com/matzehuels/kinetree/pkg/mjcf"
	"github.com/matzehuels/kinetree/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store export results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Export runs the reduce → build → mesh pipeline with caching.
func (r *Runner) Export(ctx context.Context, a *assembly.Assembly, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Document.Model == "" {
		opts.Document.Model = modelName(a)
	}

	hash, err := HashAssembly(a)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.ExportKey(hash, cache.ExportKeyOpts{
		Root:    opts.Root,
		Meshes:  !opts.SkipMeshes,
		Cells:   opts.Cells,
		Options: opts.Document,
	})

	if !opts.Refresh {
		if result, ok := r.cachedResult(ctx, key); ok {
			r.Logger.Info("using cached export", "model", result.Model, "root", result.Root)
			return result, nil
		}
	}

	result, err := r.export(ctx, a, opts)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := r.Cache.Set(ctx, key, data, ExportTTL); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, key, len(data))
		}
	}
	return result, nil
}

func (r *Runner) export(ctx context.Context, a *assembly.Assembly, opts Options) (*Result, error) {
	hooks := observability.Export()
	model := opts.Document.Model

	// Stage 1: Reduce
	reduceStart := time.Now()
	red, err := r.Reduce(ctx, a, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("reduce: %w", err)
	}
	reduceTime := time.Since(reduceStart)
	r.Logger.Info("reduced assembly",
		"parts", red.Tree.NodeCount(),
		"joints", red.Tree.EdgeCount(),
		"loops", len(red.Loops),
		"root", red.Root,
		"duration", reduceTime)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Build
	gen := mesh.NewSDFGenerator(opts.Cells)
	buildStart := time.Now()
	hooks.OnBuildStart(ctx, model, red.Root)
	xml, doc, err := build(red, opts.Document, gen)
	buildTime := time.Since(buildStart)
	hooks.OnBuildComplete(ctx, model, buildTime, err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	stats := doc.Stats()
	r.Logger.Info("built document",
		"bodies", stats.Bodies,
		"joints", stats.Joints,
		"welds", stats.Welds,
		"duration", buildTime)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Model:   model,
		Root:    red.Root,
		XML:     xml,
		MeshDir: opts.Document.MeshDir,
		Tree:    red.TreeEdges(),
		Loops:   red.LoopEdges(),
		Stats: Stats{
			Parts:      red.Tree.NodeCount(),
			Joints:     red.Tree.EdgeCount() + len(red.Loops),
			Document:   stats,
			ReduceTime: reduceTime,
			BuildTime:  buildTime,
		},
	}

	// Stage 3: Mesh
	if opts.SkipMeshes {
		return result, nil
	}
	meshStart := time.Now()
	hooks.OnMeshStart(ctx, red.Tree.NodeCount())
	meshes, err := generateMeshes(ctx, gen, red, opts.Workers)
	result.Stats.MeshTime = time.Since(meshStart)
	for _, data := range meshes {
		result.Stats.MeshBytes += len(data)
	}
	hooks.OnMeshComplete(ctx, len(meshes), result.Stats.MeshBytes, result.Stats.MeshTime, err)
	if err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}
	result.Meshes = meshes
	r.Logger.Info("generated meshes",
		"meshes", len(meshes),
		"bytes", result.Stats.MeshBytes,
		"duration", result.Stats.MeshTime)

	return result, nil
}

func build(red *Reduction, opts mjcf.Options, meshes mjcf.MeshSource) ([]byte, *mjcf.Document, error) {
	doc, err := mjcf.NewBuilder(opts, meshes).Build(red.Tree, red.Root, red.Loops)
	if err != nil {
		return nil, nil, err
	}
	xml, err := doc.Marshal()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return xml, doc, nil
}

// cachedResult returns the cached result for key. Read and decode failures
// count as misses.
func (r *Runner) cachedResult(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "error", err)
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	result.CacheHit = true
	return &result, true
}

// HashAssembly returns the content hash of a, computed over its canonical
// JSON encoding.
func HashAssembly(a *assembly.Assembly) (string, error) {
	var buf bytes.Buffer
	if err := assembly.WriteJSON(a, &buf); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash assembly")
	}
	return cache.Hash(buf.Bytes()), nil
}

func modelName(a *assembly.Assembly) string {
	if a.Name == "" || errors.ValidateName("model", a.Name) != nil {
		return DefaultModel
	}
	return a.Name
}
