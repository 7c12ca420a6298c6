// Package transform reduces an assembly connectivity graph to a rooted
// kinematic tree.
//
// # Overview
//
// Assemblies rarely arrive as trees: a four-bar linkage closes a loop, and
// two parts are often joined by more than one joint. Simulators expect a
// tree of bodies, so this package splits the connectivity graph into tree
// edges and loop edges, then roots and orients the tree.
//
// # Spanning Tree
//
// [SpanningTree] is Kruskal's algorithm over the joint weight table: edges
// are stably sorted by ascending weight and accepted unless they would close
// a cycle. Rejected edges are returned in the order they were met and later
// become equality constraints.
//
// The weight table ranks fixed joints behind every other common kind, so of
// two parallel joints between the same parts the revolute one stays in the
// tree and the fixed one becomes a weld.
//
// # Rooting
//
// [SelectRoot] prefers the grounded part (or an explicit override). Without
// one, the first part that is a leaf of both the tree and the connectivity
// graph is used. A part that sits on a loop is never picked implicitly, so a
// pure loop without a grounded part is a configuration error.
//
// # Orientation
//
// [Orient] walks the tree depth-first from the root with an explicit stack
// and returns a directed graph in which every edge points from parent to
// child. [Validate] checks the resulting in-degree invariants.
package transform
