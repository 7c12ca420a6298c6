package pipeline

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/mjcf"
)

// Result contains the outputs of an export.
type Result struct {
	// Model is the document's model name and the base name of its file.
	Model string `json:"model"`

	// Root is the part at the base of the body hierarchy.
	Root string `json:"root"`

	// XML is the encoded model document.
	XML []byte `json:"xml"`

	// MeshDir is the directory, relative to the document, holding Meshes.
	MeshDir string `json:"mesh_dir"`

	// Meshes maps mesh file names to STL contents. It is empty when meshes
	// were skipped.
	Meshes map[string][]byte `json:"meshes,omitempty"`

	// Tree and Loops describe the reduction.
	Tree  []Connection `json:"tree"`
	Loops []Connection `json:"loops,omitempty"`

	Stats Stats `json:"stats"`

	// CacheHit is set when the result came from the cache.
	CacheHit bool `json:"-"`
}

// Stats contains export statistics.
type Stats struct {
	Parts      int           `json:"parts"`
	Joints     int           `json:"joints"`
	Document   mjcf.Stats    `json:"document"`
	MeshBytes  int           `json:"mesh_bytes"`
	ReduceTime time.Duration `json:"reduce_time"`
	BuildTime  time.Duration `json:"build_time"`
	MeshTime   time.Duration `json:"mesh_time"`
}

// ModelFile is the document's file name.
func (r *Result) ModelFile() string { return r.Model + ".xml" }

// Write stores the meshes under dir/MeshDir and then the document as
// dir/<model>.xml. It returns the written paths, document last.
func (r *Result) Write(dir string) ([]string, error) {
	if err := errors.ValidateName("model", r.Model); err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(r.MeshDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	if len(r.Meshes) > 0 {
		meshDir := filepath.Join(dir, r.MeshDir)
		if err := os.MkdirAll(meshDir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", meshDir, err)
		}
		for _, name := range slices.Sorted(maps.Keys(r.Meshes)) {
			if err := errors.ValidateName("mesh file", name); err != nil {
				return written, err
			}
			path := filepath.Join(meshDir, name)
			if err := os.WriteFile(path, r.Meshes[name], 0o644); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			written = append(written, path)
		}
	}

	path := filepath.Join(dir, r.ModelFile())
	if err := os.WriteFile(path, r.XML, 0o644); err != nil {
		return written, fmt.Errorf("write %s: %w", path, err)
	}
	return append(written, path), nil
}
