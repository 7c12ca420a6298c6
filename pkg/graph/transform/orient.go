package transform

import (
	"slices"
	"strings"

	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/graph"
)

// maxListedParts bounds how many unreachable parts an error message names.
const maxListedParts = 5

// SelectRoot picks the root of tree.
//
// A non-empty preferred name (the grounded part or an explicit override) is
// used if the tree contains it and is a configuration error otherwise.
// Without a preference, the first tree node that has exactly one neighbor in
// tree and, when connectivity is non-nil, exactly one neighbor in
// connectivity is chosen. No such node is a configuration error.
//
// This is stricter than "first leaf of the tree" and must stay so: the
// spanning tree of an ungrounded closed ring always has leaves, but no part
// of the ring is a leaf of the linkage, and such input has to fail.
func SelectRoot(tree, connectivity *graph.Graph, preferred string) (*graph.Node, error) {
	if preferred != "" {
		n, ok := tree.Node(preferred)
		if !ok {
			return nil, errors.Configuration("root part %q is not part of the kinematic tree", preferred)
		}
		return n, nil
	}

	for _, n := range tree.Nodes() {
		if tree.Degree(n.Key) != 1 {
			continue
		}
		if connectivity != nil && connectivity.Degree(n.Key) != 1 {
			continue
		}
		return n, nil
	}
	return nil, errors.Configuration(
		"no leaf part to root the kinematic tree at (%d parts); ground a part or choose a root", tree.NodeCount())
}

// Orient converts the undirected tree into a directed tree rooted at root.
// Each child is reached by exactly one parent→child edge that carries the
// original joint. Nodes the walk cannot reach make the tree disconnected,
// which is a configuration error.
func Orient(tree *graph.Graph, root string) (*graph.Graph, error) {
	r, ok := tree.Node(root)
	if !ok {
		return nil, errors.Configuration("root part %q is not part of the kinematic tree", root)
	}

	out := graph.New(true)
	out.AddNode(r.Part)

	visited := map[string]bool{root: true}
	stack := []*graph.Node{r}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var children []*graph.Node
		for _, v := range tree.Neighbors(u.Key) {
			if visited[v.Key] {
				continue
			}
			e, ok := tree.Edge(u.Key, v.Key)
			if !ok {
				return nil, errors.Consistency("no edge between adjacent parts %q and %q", u.Key, v.Key)
			}
			visited[v.Key] = true
			out.AddEdge(u.Part, v.Part, e.Joint)
			children = append(children, v)
		}

		// Reverse so the first neighbor is expanded first.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	if out.NodeCount() != tree.NodeCount() {
		return nil, disconnected(tree, visited, root)
	}
	return out, nil
}

func disconnected(tree *graph.Graph, visited map[string]bool, root string) error {
	var missing []string
	for _, n := range tree.Nodes() {
		if !visited[n.Key] {
			missing = append(missing, n.Key)
		}
	}
	slices.Sort(missing)

	listed := missing
	suffix := ""
	if len(listed) > maxListedParts {
		listed = listed[:maxListedParts]
		suffix = ", ..."
	}
	return errors.Configuration("assembly is disconnected: %d parts unreachable from root %q (%s%s)",
		len(missing), root, strings.Join(listed, ", "), suffix)
}

// Validate checks that directed is a tree rooted at root: the root has no
// incoming edge, every other node has exactly one, and there is one edge
// fewer than there are nodes.
func Validate(directed *graph.Graph, root string) error {
	if !directed.Directed() {
		return errors.Consistency("kinematic tree must be directed")
	}
	if _, ok := directed.Node(root); !ok {
		return errors.Consistency("root part %q missing from kinematic tree", root)
	}
	for _, n := range directed.Nodes() {
		want := 1
		if n.Key == root {
			want = 0
		}
		if got := directed.InDegree(n.Key); got != want {
			return errors.Consistency("part %q has %d parents, want %d", n.Key, got, want)
		}
	}
	if got, want := directed.EdgeCount(), directed.NodeCount()-1; got != want {
		return errors.Consistency("kinematic tree has %d joints for %d parts", got, directed.NodeCount())
	}
	return nil
}
