package graph

import "github.com/matzehuels/kinetree/pkg/assembly"

// UnrecognizedWeight is the weight of joints whose kind is not in the table.
const UnrecognizedWeight = 20.0

// weights orders edges for the spanning-tree builder. Lower weights are
// kept first. Fixed joints rank below every other common kind, so a rigid
// connection is the first to become a loop constraint.
var weights = map[assembly.JointKind]float64{
	assembly.KindFixed:       10.0,
	assembly.KindRevolute:    1.0,
	assembly.KindPrismatic:   2.0,
	assembly.KindCylindrical: 3.0,
	assembly.KindBall:        5.0,
	assembly.KindPlanar:      8.0,
}

// Weight returns the spanning-tree priority weight of a joint kind.
func Weight(k assembly.JointKind) float64 {
	if w, ok := weights[k]; ok {
		return w
	}
	return UnrecognizedWeight
}
