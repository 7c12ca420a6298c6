package assembly

// JointKind identifies the kind of a joint as reported by the CAD assembly.
// Any string outside the declared constants is an unrecognized kind and is
// carried through unchanged.
type JointKind string

const (
	KindFixed       JointKind = "fixed"
	KindRevolute    JointKind = "revolute"
	KindPrismatic   JointKind = "prismatic"
	KindCylindrical JointKind = "cylindrical"
	KindBall        JointKind = "ball"
	KindPlanar      JointKind = "planar"

	// KindGrounded pins Part1 to the world. It never becomes a graph edge.
	KindGrounded JointKind = "grounded"
)

// Known reports whether k is one of the declared joint kinds.
func (k JointKind) Known() bool {
	switch k {
	case KindFixed, KindRevolute, KindPrismatic, KindCylindrical, KindBall, KindPlanar, KindGrounded:
		return true
	}
	return false
}

// ShapeType selects how a part's geometry is produced.
type ShapeType string

const (
	ShapeBox      ShapeType = "box"      // Size is X, Y, Z with the minimum corner at the origin
	ShapeCylinder ShapeType = "cylinder" // Radius and Height along +Z from the origin
	ShapeSphere   ShapeType = "sphere"   // Radius centred on the origin
	ShapeMesh     ShapeType = "mesh"     // File references an existing mesh
)

// Placement is a rigid transform: a position followed by a rotation.
type Placement struct {
	Position Vec3 `json:"position" yaml:"position"`
	Rotation Quat `json:"rotation,omitempty" yaml:"rotation,omitempty"`
}

// Shape describes part geometry. It is opaque to the graph and hierarchy
// code and only interpreted by mesh generators.
type Shape struct {
	Type   ShapeType `json:"type" yaml:"type"`
	Size   Vec3      `json:"size,omitempty" yaml:"size,omitempty"`
	Radius float64   `json:"radius,omitempty" yaml:"radius,omitempty"`
	Height float64   `json:"height,omitempty" yaml:"height,omitempty"`
	File   string    `json:"file,omitempty" yaml:"file,omitempty"`
}

// Appearance is the visual material of a part. Parts sharing an appearance
// Name share one material in the exported document.
type Appearance struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Color     [4]float64 `json:"color,omitempty" yaml:"color,omitempty"` // RGBA in [0, 1]
	Specular  float64    `json:"specular,omitempty" yaml:"specular,omitempty"`
	Shininess float64    `json:"shininess,omitempty" yaml:"shininess,omitempty"`
}

// Part is one rigid body of the assembly.
type Part struct {
	Name       string     `json:"name" yaml:"name"`
	Label      string     `json:"label,omitempty" yaml:"label,omitempty"`
	Placement  Placement  `json:"placement" yaml:"placement"`
	Shape      Shape      `json:"shape" yaml:"shape"`
	Appearance Appearance `json:"appearance" yaml:"appearance"`
}

// Limits holds the optional motion limits of a joint. Each bound has its own
// enable flag; a disabled bound's value is ignored.
type Limits struct {
	EnableAngleMin  bool    `json:"enable_angle_min,omitempty" yaml:"enable_angle_min,omitempty"`
	EnableAngleMax  bool    `json:"enable_angle_max,omitempty" yaml:"enable_angle_max,omitempty"`
	AngleMin        float64 `json:"angle_min,omitempty" yaml:"angle_min,omitempty"` // degrees
	AngleMax        float64 `json:"angle_max,omitempty" yaml:"angle_max,omitempty"` // degrees
	EnableLengthMin bool    `json:"enable_length_min,omitempty" yaml:"enable_length_min,omitempty"`
	EnableLengthMax bool    `json:"enable_length_max,omitempty" yaml:"enable_length_max,omitempty"`
	LengthMin       float64 `json:"length_min,omitempty" yaml:"length_min,omitempty"` // millimetres
	LengthMax       float64 `json:"length_max,omitempty" yaml:"length_max,omitempty"` // millimetres
}

// Joint connects Part1 and Part2, or grounds Part1 when Kind is
// KindGrounded. Anchor is the joint frame in assembly coordinates; a joint
// rotates or slides about the anchor's Z axis.
type Joint struct {
	Name   string    `json:"name" yaml:"name"`
	Label  string    `json:"label,omitempty" yaml:"label,omitempty"`
	Kind   JointKind `json:"kind" yaml:"kind"`
	Part1  string    `json:"part1" yaml:"part1"`
	Part2  string    `json:"part2,omitempty" yaml:"part2,omitempty"`
	Anchor Placement `json:"anchor" yaml:"anchor"`
	Limits Limits    `json:"limits" yaml:"limits"`
}

// DisplayLabel returns Label, falling back to Name.
func (j *Joint) DisplayLabel() string {
	if j.Label != "" {
		return j.Label
	}
	return j.Name
}

// Assembly is the full set of parts and joints of one CAD model.
type Assembly struct {
	Name   string  `json:"name" yaml:"name"`
	Parts  []Part  `json:"parts" yaml:"parts"`
	Joints []Joint `json:"joints" yaml:"joints"`
}

// PartIndex returns the parts keyed by name. Pointers refer into a.Parts.
func (a *Assembly) PartIndex() map[string]*Part {
	idx := make(map[string]*Part, len(a.Parts))
	for i := range a.Parts {
		idx[a.Parts[i].Name] = &a.Parts[i]
	}
	return idx
}
