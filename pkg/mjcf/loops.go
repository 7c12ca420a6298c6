package mjcf

import (
	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/graph"
)

// Solver parameters of loop welds.
const (
	WeldSolRef = "0.02 1"
	WeldSolImp = "0.9 0.95 0.001"
)

// LoopConstraints converts loop edges into weld constraints, in order. Only
// rigid edges (those that map to no MJCF joint) can be welded; any other
// edge is an UNSUPPORTED error naming the joint.
func LoopConstraints(loops []graph.Triple) ([]Weld, error) {
	welds := make([]Weld, 0, len(loops))
	for _, l := range loops {
		if _, movable := JointType(l.Edge.Kind); movable {
			return nil, errors.Unsupported("joint %q closes a kinematic loop between %q and %q: loops through %s joints are not supported",
				l.Edge.Key(), l.U.Key, l.V.Key, l.Edge.Kind)
		}
		welds = append(welds, Weld{
			Name:   l.Edge.Key(),
			Body1:  l.U.Key,
			Body2:  l.V.Key,
			SolRef: WeldSolRef,
			SolImp: WeldSolImp,
		})
	}
	return welds, nil
}
