// Package graph models the connectivity of a kinematic assembly.
//
// # Overview
//
// Parts become [Node] values keyed by their stable name and joints become
// [Edge] values keyed by the joint name. A [Graph] is either undirected (the
// raw assembly connectivity, which may contain cycles) or directed (a rooted
// tree produced by the transform package).
//
// Undirected graphs store every edge under both endpoints; both adjacency
// entries hold the same *Edge. Two joints between the same pair of parts are
// kept as parallel edges so that neither connection is lost:
//
//	g := graph.New(false)
//	g.AddEdge(base, arm, &hinge)
//	g.AddEdge(base, arm, &weld)
//	len(g.Edges()) // 2
//
// # Building From an Assembly
//
// [FromAssembly] scans the joints once. A grounded joint adds its part as a
// node without edges and reports it as the preferred root; every other joint
// adds one edge.
//
// # Edge Weights
//
// Every edge carries a weight derived from its joint kind by a fixed table
// (see [Weight]). The spanning-tree builder prefers low weights, so revolute
// joints are kept in the tree ahead of fixed ones.
//
// # Disjoint Sets
//
// [DisjointSet] is the union-find structure the spanning-tree builder uses to
// reject edges that would close a cycle.
package graph
