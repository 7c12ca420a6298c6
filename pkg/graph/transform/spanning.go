package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/kinetree/pkg/graph"
)

// SpanningTree reduces g to an acyclic undirected graph.
//
// Edges are taken from g.Edges(), stably sorted by ascending weight, and
// merged with a fresh disjoint set. An edge joining two separate components
// goes into the returned tree; an edge whose endpoints are already connected
// is appended to loops. For every connected component of g the tree holds
// exactly one edge fewer than the component has nodes.
func SpanningTree(g *graph.Graph) (tree *graph.Graph, loops []graph.Triple) {
	edges := g.Edges()
	slices.SortStableFunc(edges, func(a, b graph.Triple) int {
		return cmp.Compare(a.Edge.Weight, b.Edge.Weight)
	})

	ds := graph.NewDisjointSet(g)
	tree = graph.New(false)
	for _, t := range edges {
		if ds.Union(t.U.Key, t.V.Key) {
			tree.AddEdge(t.U.Part, t.V.Part, t.Edge.Joint)
			continue
		}
		loops = append(loops, t)
	}
	return tree, loops
}
