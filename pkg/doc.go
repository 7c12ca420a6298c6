// Package pkg provides the core libraries of kinetree.
//
// # Overview
//
// kinetree turns a CAD assembly (parts plus the joints between them) into a
// simulator-ready model. The connectivity graph of the assembly is reduced to
// a spanning tree, the tree is rooted at the grounded part and oriented, and
// the result is written as an MJCF document in which every remaining joint
// moves a child body relative to its parent. Joints that would close a loop
// become weld constraints.
//
// # Data Flow
//
//	assembly file (JSON/YAML)
//	    │
//	    ▼
//	[assembly]            parse and validate parts and joints
//	    │
//	    ▼
//	[graph]               connectivity graph, joint weights, union-find
//	    │
//	    ▼
//	[graph/transform]     spanning tree, root selection, orientation
//	    │
//	    ▼
//	[mjcf]                body hierarchy, joints, welds, assets
//	    │
//	    ├──► [mesh]       STL meshes for primitive shapes
//	    ▼
//	model.xml + meshes/
//
// [pipeline] runs these steps behind a cache ([cache]) and reports progress
// through [observability] hooks. [render/nodelink] draws the connectivity
// graph as DOT or SVG.
//
// # Quick Start
//
//	a, err := assembly.Import("arm.yaml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Export(ctx, a, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	_, err = result.Write("out")
//
// The low-level steps can also be called directly:
//
//	g, grounded, _ := graph.FromAssembly(a)
//	tree, loops := transform.SpanningTree(g)
//	root, _ := transform.SelectRoot(tree, g, grounded)
//	directed, _ := transform.Orient(tree, root.Key)
//	doc, _ := mjcf.NewBuilder(mjcf.Options{}.WithDefaults(), mjcf.STLFiles{}).Build(directed, root.Key, loops)
//
// # Errors
//
// All packages report failures as [errors.Error] values carrying a code
// (INVALID_INPUT, CONFIGURATION, UNSUPPORTED, CONSISTENCY, ...). Use
// [errors.Is] to branch on the code.
//
// [assembly]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/assembly
// [graph]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/graph
// [graph/transform]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/graph/transform
// [mjcf]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/mjcf
// [mesh]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/mesh
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/observability
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/render/nodelink
// [errors.Error]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/errors#Error
// [errors.Is]: https://pkg.go.dev/github.com/matzehuels/kinetree/pkg/errors#Is
package pkg
