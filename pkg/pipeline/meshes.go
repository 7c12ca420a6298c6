package pipeline

import (
	"context"
	"sync"

	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/mesh"
)

type meshResult struct {
	file string
	data []byte
	err  error
}

// generateMeshes runs gen over every part of the tree with at most workers
// generators at a time. Meshes are keyed by file name; parts that reference
// an existing mesh produce no entry. The first failure in part order is
// returned.
func generateMeshes(ctx context.Context, gen mesh.Generator, red *Reduction, workers int) (map[string][]byte, error) {
	nodes := red.Tree.Nodes()
	results := make([]meshResult, len(nodes))
	var wg sync.WaitGroup

	sem := make(chan struct{}, max(workers, 1))

	for i, n := range nodes {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			if err := ctx.Err(); err != nil {
				results[idx].err = err
				return
			}
			p := n.Part
			data, err := gen.Generate(p)
			results[idx] = meshResult{file: gen.MeshFile(p), data: data, err: err}
		}(i)
	}

	wg.Wait()

	meshes := make(map[string][]byte, len(nodes))
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if res.data == nil {
			continue
		}
		if _, dup := meshes[res.file]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "two parts write mesh file %q", res.file)
		}
		meshes[res.file] = res.data
	}
	return meshes, nil
}
