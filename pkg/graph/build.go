package graph

import (
	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/errors"
)

// FromAssembly builds the undirected connectivity graph of a. It returns the
// graph and the name of the grounded part, or "" when no joint grounds a
// part.
//
// A grounded joint adds its part as a node with no edge. Every other joint
// becomes one edge between its two parts, in joint order. An assembly with
// no connecting joints, or with more than one grounded part, is a
// configuration error.
func FromAssembly(a *assembly.Assembly) (*Graph, string, error) {
	if err := assembly.Validate(a); err != nil {
		return nil, "", err
	}

	parts := a.PartIndex()
	g := New(false)
	grounded := ""

	for i := range a.Joints {
		j := &a.Joints[i]
		if j.Kind == assembly.KindGrounded {
			if grounded != "" && grounded != j.Part1 {
				return nil, "", errors.Configuration(
					"joint %q grounds part %q but part %q is already grounded", j.Name, j.Part1, grounded)
			}
			grounded = j.Part1
			g.AddNode(parts[j.Part1])
			continue
		}
		g.AddEdge(parts[j.Part1], parts[j.Part2], j)
	}

	if len(g.edges) == 0 {
		return nil, "", errors.Configuration("assembly %q has no joints connecting two parts", a.Name)
	}
	return g, grounded, nil
}
