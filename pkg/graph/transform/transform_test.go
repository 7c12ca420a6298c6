package transform

import (
	"testing"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/graph"
)

type jointSpec struct {
	name, a, b string
	kind       assembly.JointKind
}

func buildGraph(t *testing.T, joints ...jointSpec) *graph.Graph {
	t.Helper()
	parts := map[string]*assembly.Part{}
	part := func(name string) *assembly.Part {
		if p, ok := parts[name]; ok {
			return p
		}
		p := &assembly.Part{Name: name}
		parts[name] = p
		return p
	}

	g := graph.New(false)
	for _, j := range joints {
		g.AddEdge(part(j.a), part(j.b), &assembly.Joint{Name: j.name, Kind: j.kind, Part1: j.a, Part2: j.b})
	}
	return g
}

func loopNames(loops []graph.Triple) []string {
	var names []string
	for _, l := range loops {
		names = append(names, l.Edge.Key())
	}
	return names
}

func TestSpanningTree_Acyclic(t *testing.T) {
	g := buildGraph(t,
		jointSpec{"J1", "P1", "P2", assembly.KindRevolute},
		jointSpec{"J2", "P2", "P3", assembly.KindPrismatic},
		jointSpec{"J3", "P2", "P4", assembly.KindFixed},
	)

	tree, loops := SpanningTree(g)
	if len(loops) != 0 {
		t.Errorf("loops = %v, want none", loopNames(loops))
	}
	if tree.EdgeCount() != g.EdgeCount() {
		t.Errorf("tree has %d edges, want %d", tree.EdgeCount(), g.EdgeCount())
	}
	if tree.NodeCount() != g.NodeCount() {
		t.Errorf("tree has %d nodes, want %d", tree.NodeCount(), g.NodeCount())
	}
}

func TestSpanningTree_SingleCycleDropsHeaviest(t *testing.T) {
	g := buildGraph(t,
		jointSpec{"J1", "A", "B", assembly.KindRevolute},
		jointSpec{"J2", "B", "C", assembly.KindFixed},
		jointSpec{"J3", "C", "D", assembly.KindPrismatic},
		jointSpec{"J4", "D", "A", assembly.KindBall},
	)

	tree, loops := SpanningTree(g)
	if len(loops) != 1 || loops[0].Edge.Key() != "J2" {
		t.Fatalf("loops = %v, want [J2]", loopNames(loops))
	}
	if tree.EdgeCount() != 3 {
		t.Errorf("tree has %d edges, want 3", tree.EdgeCount())
	}
	for _, e := range tree.Edges() {
		if e.Edge.Key() == "J2" {
			t.Error("heaviest joint J2 stayed in the tree")
		}
	}
}

func TestSpanningTree_ParallelJoints(t *testing.T) {
	// A fixed and a revolute joint between the same parts.
	g := buildGraph(t,
		jointSpec{"Weld", "A", "B", assembly.KindFixed},
		jointSpec{"Hinge", "A", "B", assembly.KindRevolute},
	)

	tree, loops := SpanningTree(g)
	e, ok := tree.Edge("A", "B")
	if !ok || e.Key() != "Hinge" {
		t.Fatalf("tree edge = %v, want Hinge", e)
	}
	if len(loops) != 1 || loops[0].Edge.Key() != "Weld" {
		t.Errorf("loops = %v, want [Weld]", loopNames(loops))
	}
}

func TestSpanningTree_EqualWeightsKeepInsertionOrder(t *testing.T) {
	g := buildGraph(t,
		jointSpec{"J1", "A", "B", assembly.KindRevolute},
		jointSpec{"J2", "B", "C", assembly.KindRevolute},
		jointSpec{"J3", "C", "A", assembly.KindRevolute},
	)

	_, loops := SpanningTree(g)
	if len(loops) != 1 || loops[0].Edge.Key() != "J3" {
		t.Errorf("loops = %v, want [J3]", loopNames(loops))
	}
}

func TestSpanningTree_Components(t *testing.T) {
	g := buildGraph(t,
		jointSpec{"J1", "A", "B", assembly.KindRevolute},
		jointSpec{"J2", "B", "C", assembly.KindRevolute},
		jointSpec{"J3", "C", "A", assembly.KindRevolute},
		jointSpec{"K1", "X", "Y", assembly.KindBall},
	)

	tree, loops := SpanningTree(g)
	if got, want := tree.EdgeCount(), g.NodeCount()-2; got != want {
		t.Errorf("tree has %d edges, want %d (nodes minus components)", got, want)
	}
	if len(loops) != 1 {
		t.Errorf("loops = %v, want one", loopNames(loops))
	}
}

func TestSelectRoot(t *testing.T) {
	chain := buildGraph(t,
		jointSpec{"J1", "P1", "P2", assembly.KindRevolute},
		jointSpec{"J2", "P2", "P3", assembly.KindRevolute},
	)
	tree, _ := SpanningTree(chain)

	tests := []struct {
		name      string
		preferred string
		want      string
		code      errors.Code
	}{
		{name: "first leaf", want: "P1"},
		{name: "preferred interior", preferred: "P2", want: "P2"},
		{name: "preferred leaf", preferred: "P3", want: "P3"},
		{name: "preferred missing", preferred: "P9", code: errors.ErrCodeConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := SelectRoot(tree, chain, tt.preferred)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("SelectRoot() error = %v, want code %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectRoot() error = %v", err)
			}
			if root.Key != tt.want {
				t.Errorf("root = %q, want %q", root.Key, tt.want)
			}
		})
	}
}

func TestSelectRoot_PureLoopWithoutGround(t *testing.T) {
	g := buildGraph(t,
		jointSpec{"J1", "A", "B", assembly.KindRevolute},
		jointSpec{"J2", "B", "C", assembly.KindRevolute},
		jointSpec{"J3", "C", "D", assembly.KindRevolute},
		jointSpec{"J4", "D", "A", assembly.KindRevolute},
	)
	tree, _ := SpanningTree(g)

	_, err := SelectRoot(tree, g, "")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Fatalf("SelectRoot() error = %v, want CONFIGURATION", err)
	}

	// The tree alone has leaves; only the connectivity check rejects the ring.
	root, err := SelectRoot(tree, nil, "")
	if err != nil {
		t.Fatalf("SelectRoot(tree only) error = %v", err)
	}
	if root.Key != "A" {
		t.Errorf("root = %q, want A", root.Key)
	}
}

func TestSelectRoot_ParallelJointsCountOnce(t *testing.T) {
	g := buildGraph(t,
		jointSpec{"Weld", "A", "B", assembly.KindFixed},
		jointSpec{"Hinge", "A", "B", assembly.KindRevolute},
	)
	tree, _ := SpanningTree(g)

	root, err := SelectRoot(tree, g, "")
	if err != nil {
		t.Fatalf("SelectRoot() error = %v", err)
	}
	if root.Key != "A" {
		t.Errorf("root = %q, want A", root.Key)
	}
}

func TestOrient(t *testing.T) {
	g := buildGraph(t,
		jointSpec{"J1", "P1", "P2", assembly.KindRevolute},
		jointSpec{"J2", "P2", "P3", assembly.KindPrismatic},
		jointSpec{"J3", "P2", "P4", assembly.KindFixed},
		jointSpec{"J4", "P4", "P5", assembly.KindBall},
	)
	tree, _ := SpanningTree(g)

	for _, root := range []string{"P1", "P2", "P5"} {
		t.Run(root, func(t *testing.T) {
			d, err := Orient(tree, root)
			if err != nil {
				t.Fatalf("Orient() error = %v", err)
			}
			if err := Validate(d, root); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if d.NodeCount() != 5 || d.EdgeCount() != 4 {
				t.Errorf("oriented tree has %d nodes and %d edges, want 5 and 4", d.NodeCount(), d.EdgeCount())
			}
		})
	}
}

func TestOrient_KeepsJointAndChildOrder(t *testing.T) {
	g := buildGraph(t,
		jointSpec{"J1", "Hub", "Left", assembly.KindRevolute},
		jointSpec{"J2", "Hub", "Right", assembly.KindRevolute},
		jointSpec{"J3", "Hub", "Top", assembly.KindRevolute},
	)
	tree, _ := SpanningTree(g)

	d, err := Orient(tree, "Hub")
	if err != nil {
		t.Fatalf("Orient() error = %v", err)
	}

	var children []string
	for _, c := range d.Neighbors("Hub") {
		children = append(children, c.Key)
	}
	want := []string{"Left", "Right", "Top"}
	if len(children) != len(want) {
		t.Fatalf("children = %v, want %v", children, want)
	}
	for i := range want {
		if children[i] != want[i] {
			t.Errorf("children = %v, want %v", children, want)
			break
		}
	}

	e, ok := d.Edge("Hub", "Right")
	if !ok || e.Key() != "J2" {
		t.Errorf("Edge(Hub, Right) = %v, want J2", e)
	}
	if _, ok := d.Edge("Right", "Hub"); ok {
		t.Error("oriented tree has a child->parent edge")
	}
}

func TestOrient_Disconnected(t *testing.T) {
	g := buildGraph(t,
		jointSpec{"J1", "A", "B", assembly.KindRevolute},
		jointSpec{"K1", "X", "Y", assembly.KindRevolute},
	)
	tree, _ := SpanningTree(g)

	_, err := Orient(tree, "A")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Fatalf("Orient() error = %v, want CONFIGURATION", err)
	}
}

func TestOrient_UnknownRoot(t *testing.T) {
	tree, _ := SpanningTree(buildGraph(t, jointSpec{"J1", "A", "B", assembly.KindRevolute}))
	if _, err := Orient(tree, "Z"); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Fatalf("Orient() error = %v, want CONFIGURATION", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	a, b, c := &assembly.Part{Name: "A"}, &assembly.Part{Name: "B"}, &assembly.Part{Name: "C"}

	undirected := graph.New(false)
	undirected.AddEdge(a, b, &assembly.Joint{Name: "J"})

	twoParents := graph.New(true)
	twoParents.AddEdge(a, c, &assembly.Joint{Name: "J1"})
	twoParents.AddEdge(b, c, &assembly.Joint{Name: "J2"})

	rootWithParent := graph.New(true)
	rootWithParent.AddEdge(b, a, &assembly.Joint{Name: "J"})

	tests := []struct {
		name string
		g    *graph.Graph
	}{
		{"undirected", undirected},
		{"two parents", twoParents},
		{"root has parent", rootWithParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.g, "A"); !errors.Is(err, errors.ErrCodeConsistency) {
				t.Errorf("Validate() error = %v, want CONSISTENCY", err)
			}
		})
	}
}
