package graph

import (
	"github.com/matzehuels/kinetree/pkg/assembly"
)

// Node is one rigid part. Two nodes are the same node iff their keys match.
type Node struct {
	Key  string         // Part name
	Part *assembly.Part // Source part (never nil after AddNode)
}

// Edge is one joint between two nodes. Kind and Weight are fixed at
// construction.
type Edge struct {
	Joint  *assembly.Joint
	Kind   assembly.JointKind
	Weight float64
}

// Key returns the joint name, which identifies the edge.
func (e *Edge) Key() string { return e.Joint.Name }

// Triple is one edge with its endpoints as returned by [Graph.Edges].
type Triple struct {
	U, V *Node
	Edge *Edge
}

// Graph is an adjacency-list graph over parts and joints.
//
// The zero value is not usable - use New to create a valid Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	directed  bool
	nodes     map[string]*Node
	order     []string                      // node keys in insertion order
	adj       map[string]map[string][]*Edge // u -> v -> edges
	neighbors map[string][]string           // u -> v in insertion order
	edges     []Triple                      // AddEdge calls in insertion order
}

// New creates an empty graph. Undirected graphs mirror every edge under both
// endpoints.
func New(directed bool) *Graph {
	return &Graph{
		directed:  directed,
		nodes:     make(map[string]*Node),
		adj:       make(map[string]map[string][]*Edge),
		neighbors: make(map[string][]string),
	}
}

// Directed reports whether the graph is directed.
func (g *Graph) Directed() bool { return g.directed }

// AddNode inserts the part as a node if no node with the same name exists and
// returns the canonical node for that name.
func (g *Graph) AddNode(p *assembly.Part) *Node {
	if n, ok := g.nodes[p.Name]; ok {
		return n
	}
	n := &Node{Key: p.Name, Part: p}
	g.nodes[n.Key] = n
	g.order = append(g.order, n.Key)
	g.adj[n.Key] = make(map[string][]*Edge)
	return n
}

// AddEdge ensures both parts are nodes and records one edge for joint j from
// a to b (and from b to a when undirected). Adding the same joint between the
// same parts again returns the existing edge.
func (g *Graph) AddEdge(a, b *assembly.Part, j *assembly.Joint) *Edge {
	u := g.AddNode(a)
	v := g.AddNode(b)

	for _, e := range g.adj[u.Key][v.Key] {
		if e.Key() == j.Name {
			return e
		}
	}

	e := &Edge{Joint: j, Kind: j.Kind, Weight: Weight(j.Kind)}
	g.link(u.Key, v.Key, e)
	if !g.directed {
		g.link(v.Key, u.Key, e)
	}
	g.edges = append(g.edges, Triple{U: u, V: v, Edge: e})
	return e
}

func (g *Graph) link(u, v string, e *Edge) {
	if _, ok := g.adj[u][v]; !ok {
		g.neighbors[u] = append(g.neighbors[u], v)
	}
	g.adj[u][v] = append(g.adj[u][v], e)
}

// Node returns the node with the given key and true, or nil and false.
func (g *Graph) Node(key string) (*Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, k := range g.order {
		nodes[i] = g.nodes[k]
	}
	return nodes
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.Edges()) }

// Neighbors returns the nodes one edge away from key, in the order the
// connections were first made. For directed graphs these are the children.
// Parallel edges contribute one neighbor.
func (g *Graph) Neighbors(key string) []*Node {
	keys := g.neighbors[key]
	if len(keys) == 0 {
		return nil
	}
	nodes := make([]*Node, len(keys))
	for i, k := range keys {
		nodes[i] = g.nodes[k]
	}
	return nodes
}

// Degree returns the number of distinct neighbors of key.
func (g *Graph) Degree(key string) int { return len(g.neighbors[key]) }

// InDegree returns the number of edges pointing at key. For undirected
// graphs every edge points both ways, so it equals the number of incident
// edges.
func (g *Graph) InDegree(key string) int {
	n := 0
	for _, u := range g.order {
		n += len(g.adj[u][key])
	}
	return n
}

// Edge returns the first edge from u to v and true, or nil and false when the
// nodes are not adjacent or do not exist.
func (g *Graph) Edge(u, v string) (*Edge, bool) {
	edges := g.adj[u][v]
	if len(edges) == 0 {
		return nil, false
	}
	return edges[0], true
}

// EdgesBetween returns every edge from u to v, parallel edges included.
func (g *Graph) EdgesBetween(u, v string) []*Edge { return g.adj[u][v] }

// Edges returns each edge exactly once, in insertion order. For undirected
// graphs the endpoints are ordered so that U.Key < V.Key.
func (g *Graph) Edges() []Triple {
	type edgeKey struct{ u, v, joint string }

	seen := make(map[edgeKey]bool, len(g.edges))
	out := make([]Triple, 0, len(g.edges))
	for _, t := range g.edges {
		if !g.directed && t.V.Key < t.U.Key {
			t.U, t.V = t.V, t.U
		}
		k := edgeKey{t.U.Key, t.V.Key, t.Edge.Key()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}
