package graph

// DisjointSet implements union-find with path compression and union by rank
// over node keys.
type DisjointSet struct {
	parent map[string]string
	rank   map[string]int
}

// NewDisjointSet creates a DisjointSet where every node of g is its own set.
func NewDisjointSet(g *Graph) *DisjointSet {
	ds := &DisjointSet{
		parent: make(map[string]string, g.NodeCount()),
		rank:   make(map[string]int, g.NodeCount()),
	}
	for _, k := range g.order {
		ds.parent[k] = k
		ds.rank[k] = 0
	}
	return ds
}

// Find returns the root of the set containing x, compressing the path on
// the way. Unknown keys are added as singletons.
func (ds *DisjointSet) Find(x string) string {
	p, ok := ds.parent[x]
	if !ok {
		ds.parent[x] = x
		return x
	}
	if p != x {
		root := ds.Find(p)
		ds.parent[x] = root
		return root
	}
	return x
}

// Union merges the sets containing a and b. It returns false, without
// changing anything, when they already share a set; for a graph edge that
// means the edge would close a cycle.
func (ds *DisjointSet) Union(a, b string) bool {
	ra := ds.Find(a)
	rb := ds.Find(b)
	if ra == rb {
		return false
	}

	switch {
	case ds.rank[ra] < ds.rank[rb]:
		ds.parent[ra] = rb
	case ds.rank[ra] > ds.rank[rb]:
		ds.parent[rb] = ra
	default:
		ds.parent[rb] = ra
		ds.rank[ra]++
	}
	return true
}

// Connected reports whether a and b belong to the same set.
func (ds *DisjointSet) Connected(a, b string) bool {
	return ds.Find(a) == ds.Find(b)
}
