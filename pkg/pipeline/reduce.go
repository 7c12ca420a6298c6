package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/graph"
	"github.com/matzehuels/kinetree/pkg/graph/transform"
	"github.com/matzehuels/kinetree/pkg/observability"
)

// Reduction is the kinematic tree of an assembly.
type Reduction struct {
	// Graph is the undirected connectivity graph of all joints.
	Graph *graph.Graph

	// Tree is the directed spanning tree, oriented away from Root.
	Tree *graph.Graph

	// Root is the part at the base of the body hierarchy.
	Root string

	// Grounded is the part grounded in the assembly, or "".
	Grounded string

	// Loops are the joints the spanning tree dropped.
	Loops []graph.Triple
}

// Connection is one joint of a reduction, named for display and API
// responses. Tree connections point from parent to child; loop connections
// list their parts in name order.
type Connection struct {
	From  string             `json:"from"`
	To    string             `json:"to"`
	Joint string             `json:"joint"`
	Kind  assembly.JointKind `json:"kind"`
}

// TreeEdges returns the tree joints in depth-first order from the root,
// which is the order bodies appear in the document.
func (r *Reduction) TreeEdges() []Connection {
	var out []Connection
	var walk func(parent string)
	walk = func(parent string) {
		for _, child := range r.Tree.Neighbors(parent) {
			e, _ := r.Tree.Edge(parent, child.Key)
			out = append(out, Connection{From: parent, To: child.Key, Joint: e.Key(), Kind: e.Kind})
			walk(child.Key)
		}
	}
	walk(r.Root)
	return out
}

// LoopEdges returns the dropped joints in spanning tree order.
func (r *Reduction) LoopEdges() []Connection {
	out := make([]Connection, len(r.Loops))
	for i, t := range r.Loops {
		out[i] = Connection{From: t.U.Key, To: t.V.Key, Joint: t.Edge.Key(), Kind: t.Edge.Kind}
	}
	return out
}

// Reduce turns the assembly into a rooted kinematic tree. A non-empty root
// overrides the grounded part.
func (r *Runner) Reduce(ctx context.Context, a *assembly.Assembly, root string) (red *Reduction, err error) {
	hooks := observability.Export()
	hooks.OnReduceStart(ctx, a.Name, len(a.Parts), len(a.Joints))
	start := time.Now()
	defer func() {
		treeEdges, loops := 0, 0
		if red != nil {
			treeEdges, loops = red.Tree.EdgeCount(), len(red.Loops)
		}
		hooks.OnReduceComplete(ctx, a.Name, treeEdges, loops, time.Since(start), err)
	}()

	g, grounded, err := graph.FromAssembly(a)
	if err != nil {
		return nil, err
	}
	for _, p := range a.Parts {
		if _, ok := g.Node(p.Name); !ok {
			r.Logger.Warn("part has no joints and is left out", "part", p.Name)
		}
	}

	preferred := grounded
	if root != "" {
		if grounded != "" && grounded != root {
			r.Logger.Warn("root override replaces grounded part", "root", root, "grounded", grounded)
		}
		preferred = root
	}

	tree, loops := transform.SpanningTree(g)
	rootNode, err := transform.SelectRoot(tree, g, preferred)
	if err != nil {
		return nil, err
	}
	directed, err := transform.Orient(tree, rootNode.Key)
	if err != nil {
		return nil, err
	}
	if err := transform.Validate(directed, rootNode.Key); err != nil {
		return nil, err
	}

	for _, t := range loops {
		r.Logger.Debug("loop joint becomes a constraint", "joint", t.Edge.Key(), "kind", t.Edge.Kind, "parts", t.U.Key+"/"+t.V.Key)
	}
	r.Logger.Debug("reduced assembly",
		"parts", directed.NodeCount(),
		"tree_joints", directed.EdgeCount(),
		"loops", len(loops),
		"root", rootNode.Key)

	return &Reduction{
		Graph:    g,
		Tree:     directed,
		Root:     rootNode.Key,
		Grounded: grounded,
		Loops:    loops,
	}, nil
}
