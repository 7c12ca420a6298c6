// Package pipeline provides the export pipeline for kinetree.
//
// This package implements the complete reduce → build → mesh pipeline that
// is shared by the CLI and the HTTP API, so both entry points resolve roots,
// cache results and name files the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Reduce: Build the connectivity graph, drop loop joints with a minimum
//     spanning tree, then root and orient the tree
//  2. Build: Emit the body hierarchy, welds, actuators and sensors as a
//     model document
//  3. Mesh: Tessellate part shapes into STL files
//
// Nothing is written to disk by the pipeline. [Result.Write] stores the
// document and meshes once every stage has succeeded.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Export(ctx, asm, pipeline.Options{Root: "Base"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	files, err := result.Write("out")
//
// Run the reduction alone to inspect the tree:
//
//	red, err := runner.Reduce(ctx, asm, "")
//	for _, c := range red.TreeEdges() {
//	    fmt.Println(c.From, "->", c.To)
//	}
package pipeline

import (
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/mesh"
	"github.com/matzehuels/kinetree/pkg/mjcf"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCells is the mesh resolution along the longest shape axis.
	DefaultCells = mesh.DefaultCells

	// MaxCells bounds the mesh resolution. Tessellation cost grows with the
	// cube of the cell count.
	MaxCells = 512

	// DefaultModel names documents of assemblies without a name.
	DefaultModel = "model"

	// ExportTTL is how long export results stay cached.
	ExportTTL = 7 * 24 * time.Hour

	// GraphTTL is how long rendered graphs stay cached.
	GraphTTL = 7 * 24 * time.Hour
)

// DefaultWorkers is the number of meshes generated in parallel.
var DefaultWorkers = min(runtime.NumCPU(), 8)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for an export. It is decoded from the
// CLI config file and from API requests.
type Options struct {
	// Document configures the model document.
	Document mjcf.Options `toml:"document" json:"document"`

	// Root overrides the grounded part as the root of the body tree.
	Root string `toml:"root" json:"root,omitempty"`

	// SkipMeshes builds the document without tessellating shapes.
	SkipMeshes bool `toml:"skip_meshes" json:"skip_meshes,omitempty"`

	// Cells is the mesh resolution. Zero selects DefaultCells.
	Cells int `toml:"cells" json:"cells,omitempty"`

	// Workers bounds parallel mesh generation. Zero selects DefaultWorkers.
	Workers int `toml:"workers" json:"-"`

	// Runtime options (not serialized)
	Refresh bool        `toml:"-" json:"refresh,omitempty"`
	Logger  *log.Logger `toml:"-" json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Document.Validate(); err != nil {
		return err
	}
	o.Document = o.Document.WithDefaults()
	if err := errors.ValidatePath(o.Document.MeshDir); err != nil {
		return err
	}
	if o.Document.Model != "" {
		if err := errors.ValidateName("model", o.Document.Model); err != nil {
			return err
		}
	}
	if o.Root != "" {
		if err := errors.ValidateName("root part", o.Root); err != nil {
			return err
		}
	}

	if o.Cells < 0 || o.Cells > MaxCells {
		return errors.New(errors.ErrCodeInvalidInput, "cells must be between 1 and %d, got %d", MaxCells, o.Cells)
	}
	if o.Cells == 0 {
		o.Cells = DefaultCells
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative")
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LoadConfig decodes a TOML config file into Options. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
//
//	root = "Base"
//	cells = 96
//
//	[document]
//	timestep = 0.001
//	mesh_dir = "assets"
func LoadConfig(path string) (Options, error) {
	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if os.IsNotExist(err) {
		return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Options{}, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}
