package mjcf

import (
	"fmt"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/graph"
)

// emitter walks an oriented tree and collects the bodies, actuators and
// sensors of one document.
type emitter struct {
	tree      *graph.Graph
	opts      Options
	assets    *assetCatalog
	names     namer
	emitted   map[string]bool
	actuators []Position
	sensors   []JointPos
}

func newEmitter(tree *graph.Graph, opts Options, assets *assetCatalog) *emitter {
	return &emitter{
		tree:    tree,
		opts:    opts,
		assets:  assets,
		names:   namer{used: map[string]int{}},
		emitted: map[string]bool{},
	}
}

// root emits the body of the root part, placed at the world origin.
func (e *emitter) root(key string) (Body, error) {
	n, ok := e.tree.Node(key)
	if !ok {
		return Body{}, errors.Consistency("root part %q missing from kinematic tree", key)
	}
	b, err := e.body(n)
	if err != nil {
		return Body{}, err
	}
	b.Pos = formatVec(0, 0, 0)
	b.Quat = formatVec(assembly.Identity[:]...)
	return b, nil
}

// body emits n and its subtree. The joint connecting a child to n is
// attached to the child's body once that body is complete, so joints,
// actuators and sensors are numbered in post-order.
func (e *emitter) body(n *graph.Node) (Body, error) {
	if e.emitted[n.Key] {
		return Body{}, errors.Consistency("part %q reached twice while building the body hierarchy", n.Key)
	}
	e.emitted[n.Key] = true

	b := Body{
		Name:  n.Key,
		Geoms: []Geom{e.assets.visual(n.Part)},
	}
	for _, child := range e.tree.Neighbors(n.Key) {
		edge, ok := e.tree.Edge(n.Key, child.Key)
		if !ok {
			return Body{}, errors.Consistency("no joint from %q to child %q", n.Key, child.Key)
		}
		cb, err := e.body(child)
		if err != nil {
			return Body{}, err
		}
		j, hasJoint, err := e.joint(edge)
		if err != nil {
			return Body{}, err
		}
		if hasJoint {
			cb.Joints = append([]Joint{j}, cb.Joints...)
		}
		b.Bodies = append(b.Bodies, cb)
	}
	return b, nil
}

// joint emits the joint for edge together with its actuator and sensor.
// Fixed and unrecognized kinds report false and emit nothing.
func (e *emitter) joint(edge *graph.Edge) (Joint, bool, error) {
	typ, ok := JointType(edge.Kind)
	if !ok {
		return Joint{}, false, nil
	}

	src := edge.Joint
	axis, err := jointAxis(src)
	if err != nil {
		return Joint{}, false, err
	}

	pos := src.Anchor.Position.Scale(e.opts.Scale)
	j := Joint{
		Name: e.names.unique(src.DisplayLabel()),
		Type: typ,
		Pos:  formatVec(pos[:]...),
		Axis: formatVec(axis[:]...),
	}
	if lo, hi, ok := jointRange(src, e.opts.Scale); ok {
		j.Range = formatList(lo, hi)
	}

	e.actuators = append(e.actuators, Position{
		Name:      j.Name + "_servo",
		Joint:     j.Name,
		Kp:        ActuatorGain,
		CtrlRange: j.Range,
	})
	e.sensors = append(e.sensors, JointPos{
		Name:  j.Name + "_pos",
		Joint: j.Name,
	})
	return j, true, nil
}

// namer hands out names that are unique within one document.
type namer struct {
	used map[string]int
}

func (n namer) unique(base string) string {
	name := base
	for n.used[name] > 0 {
		n.used[base]++
		name = fmt.Sprintf("%s_%d", base, n.used[base])
	}
	n.used[name]++
	return name
}
