package mjcf

import (
	"bytes"
	"encoding/xml"
)

// Document is a complete MJCF model. Field order is the element order of the
// serialized document.
type Document struct {
	XMLName  xml.Name  `xml:"mujoco"`
	Model    string    `xml:"model,attr,omitempty"`
	Option   Option    `xml:"option"`
	Compiler Compiler  `xml:"compiler"`
	Default  Default   `xml:"default"`
	Asset    Asset     `xml:"asset"`
	World    WorldBody `xml:"worldbody"`
	Contact  Contact   `xml:"contact"`
	Equality Equality  `xml:"equality"`
	Tendon   Tendon    `xml:"tendon"`
	Actuator Actuator  `xml:"actuator"`
	Sensor   Sensor    `xml:"sensor"`
}

// Option holds the simulation options.
type Option struct {
	Integrator string  `xml:"integrator,attr,omitempty"`
	Timestep   float64 `xml:"timestep,attr,omitempty"`
	Solver     string  `xml:"solver,attr,omitempty"`
	Gravity    string  `xml:"gravity,attr,omitempty"`
}

// Compiler declares units and where meshes are found.
type Compiler struct {
	Angle      string `xml:"angle,attr"`
	MeshDir    string `xml:"meshdir,attr,omitempty"`
	AutoLimits bool   `xml:"autolimits,attr"`
}

// Default is the top-level defaults class.
type Default struct {
	Joint DefaultJoint `xml:"joint"`
	Geom  DefaultGeom  `xml:"geom"`
}

type DefaultJoint struct {
	Damping  float64 `xml:"damping,attr"`
	Armature float64 `xml:"armature,attr"`
}

type DefaultGeom struct {
	Condim   int    `xml:"condim,attr,omitempty"`
	Friction string `xml:"friction,attr,omitempty"`
}

// Asset is the asset catalog.
type Asset struct {
	Textures  []Texture  `xml:"texture"`
	Materials []Material `xml:"material"`
	Meshes    []Mesh     `xml:"mesh"`
}

type Texture struct {
	Name    string `xml:"name,attr"`
	Type    string `xml:"type,attr"`
	Builtin string `xml:"builtin,attr,omitempty"`
	RGB1    string `xml:"rgb1,attr,omitempty"`
	RGB2    string `xml:"rgb2,attr,omitempty"`
	Width   int    `xml:"width,attr,omitempty"`
	Height  int    `xml:"height,attr,omitempty"`
}

type Material struct {
	Name        string  `xml:"name,attr"`
	RGBA        string  `xml:"rgba,attr,omitempty"`
	Specular    float64 `xml:"specular,attr,omitempty"`
	Shininess   float64 `xml:"shininess,attr,omitempty"`
	Reflectance float64 `xml:"reflectance,attr,omitempty"`
	Texture     string  `xml:"texture,attr,omitempty"`
	TexRepeat   string  `xml:"texrepeat,attr,omitempty"`
	TexUniform  bool    `xml:"texuniform,attr,omitempty"`
}

type Mesh struct {
	Name  string `xml:"name,attr"`
	File  string `xml:"file,attr"`
	Scale string `xml:"scale,attr,omitempty"`
}

// WorldBody is the world frame: lights, the floor and the root body.
type WorldBody struct {
	Lights []Light `xml:"light"`
	Geoms  []Geom  `xml:"geom"`
	Bodies []Body  `xml:"body"`
}

type Light struct {
	Pos         string `xml:"pos,attr"`
	Dir         string `xml:"dir,attr"`
	Directional bool   `xml:"directional,attr"`
}

type Geom struct {
	Name     string `xml:"name,attr,omitempty"`
	Type     string `xml:"type,attr"`
	Size     string `xml:"size,attr,omitempty"`
	Pos      string `xml:"pos,attr,omitempty"`
	Mesh     string `xml:"mesh,attr,omitempty"`
	Material string `xml:"material,attr,omitempty"`
}

// Body is one rigid body with its joint to the parent and its children.
type Body struct {
	Name   string  `xml:"name,attr"`
	Pos    string  `xml:"pos,attr,omitempty"`
	Quat   string  `xml:"quat,attr,omitempty"`
	Joints []Joint `xml:"joint"`
	Geoms  []Geom  `xml:"geom"`
	Bodies []Body  `xml:"body"`
}

type Joint struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Pos   string `xml:"pos,attr,omitempty"`
	Axis  string `xml:"axis,attr,omitempty"`
	Range string `xml:"range,attr,omitempty"`
}

type Contact struct {
	Excludes []Exclude `xml:"exclude"`
}

type Exclude struct {
	Body1 string `xml:"body1,attr"`
	Body2 string `xml:"body2,attr"`
}

type Equality struct {
	Welds []Weld `xml:"weld"`
}

// Weld glues two bodies together.
type Weld struct {
	Name   string `xml:"name,attr,omitempty"`
	Body1  string `xml:"body1,attr"`
	Body2  string `xml:"body2,attr"`
	SolRef string `xml:"solref,attr"`
	SolImp string `xml:"solimp,attr"`
}

// Tendon is always empty; the block is kept so the document layout is
// stable.
type Tendon struct{}

type Actuator struct {
	Positions []Position `xml:"position"`
}

// Position is a position servo on one joint.
type Position struct {
	Name      string  `xml:"name,attr"`
	Joint     string  `xml:"joint,attr"`
	Kp        float64 `xml:"kp,attr"`
	CtrlRange string  `xml:"ctrlrange,attr,omitempty"`
}

type Sensor struct {
	JointPos []JointPos `xml:"jointpos"`
}

// JointPos reads the position of one joint.
type JointPos struct {
	Name  string `xml:"name,attr"`
	Joint string `xml:"joint,attr"`
}

// Marshal serializes the document as indented XML with a declaration.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Stats summarizes the size of a document.
type Stats struct {
	Bodies    int `json:"bodies"`
	Joints    int `json:"joints"`
	Welds     int `json:"welds"`
	Actuators int `json:"actuators"`
	Sensors   int `json:"sensors"`
	Meshes    int `json:"meshes"`
	Materials int `json:"materials"`
}

// Stats counts the elements of d.
func (d *Document) Stats() Stats {
	s := Stats{
		Welds:     len(d.Equality.Welds),
		Actuators: len(d.Actuator.Positions),
		Sensors:   len(d.Sensor.JointPos),
		Meshes:    len(d.Asset.Meshes),
		Materials: len(d.Asset.Materials),
	}
	var walk func([]Body)
	walk = func(bodies []Body) {
		for _, b := range bodies {
			s.Bodies++
			s.Joints += len(b.Joints)
			walk(b.Bodies)
		}
	}
	walk(d.World.Bodies)
	return s
}

// FindBody returns the body with the given name anywhere in the hierarchy.
func (d *Document) FindBody(name string) (*Body, bool) {
	return findBody(d.World.Bodies, name)
}

func findBody(bodies []Body, name string) (*Body, bool) {
	for i := range bodies {
		if bodies[i].Name == name {
			return &bodies[i], true
		}
		if b, ok := findBody(bodies[i].Bodies, name); ok {
			return b, true
		}
	}
	return nil, false
}
