package mjcf

import (
	"math"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/errors"
)

// MJCF joint types.
const (
	TypeHinge = "hinge"
	TypeSlide = "slide"
	TypeBall  = "ball"
	TypeFree  = "free"
)

// radiansPerDegree is rounded to float64 before use so conversions match
// the usual deg * (pi / 180) in double precision.
const radiansPerDegree = float64(math.Pi) / 180

var jointTypes = map[assembly.JointKind]string{
	assembly.KindRevolute:    TypeHinge,
	assembly.KindPrismatic:   TypeSlide,
	assembly.KindCylindrical: TypeHinge,
	assembly.KindBall:        TypeBall,
	assembly.KindPlanar:      TypeFree,
}

// JointType returns the MJCF joint type for kind. The second result is false
// for fixed and unrecognized kinds, which emit no joint.
func JointType(kind assembly.JointKind) (string, bool) {
	t, ok := jointTypes[kind]
	return t, ok
}

// axisExtractor resolves the motion axis of a joint in assembly coordinates.
type axisExtractor func(j *assembly.Joint) assembly.Vec3

var axisExtractors = map[assembly.JointKind]axisExtractor{
	assembly.KindRevolute: anchorZ,
}

// anchorZ is the Z axis of the joint's anchor frame.
func anchorZ(j *assembly.Joint) assembly.Vec3 {
	return j.Anchor.Rotation.Rotate(assembly.Vec3{0, 0, 1})
}

func jointAxis(j *assembly.Joint) (assembly.Vec3, error) {
	extract, ok := axisExtractors[j.Kind]
	if !ok {
		return assembly.Vec3{}, errors.Unsupported("joint %q: axis extraction for %s joints is not implemented", j.Name, j.Kind)
	}
	return extract(j), nil
}

// jointRange returns the joint range in model units. The angular pair is
// used when both of its bounds are enabled, otherwise the linear pair when
// both of its bounds are enabled. A single enabled bound yields no range.
func jointRange(j *assembly.Joint, scale float64) (lo, hi float64, ok bool) {
	l := j.Limits
	switch {
	case l.EnableAngleMin && l.EnableAngleMax:
		return l.AngleMin * radiansPerDegree, l.AngleMax * radiansPerDegree, true
	case l.EnableLengthMin && l.EnableLengthMax:
		return l.LengthMin * scale, l.LengthMax * scale, true
	}
	return 0, 0, false
}
