package mesh

import (
	"bytes"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/errors"
)

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 64

// Generator names and produces part meshes.
type Generator interface {
	// MeshFile is the file name the document references for p.
	MeshFile(p *assembly.Part) string

	// Generate returns the file contents for p, or nil when p references
	// an existing file.
	Generate(p *assembly.Part) ([]byte, error)
}

// Triangle is one mesh facet in assembly coordinates.
type Triangle struct {
	Normal   assembly.Vec3
	Vertices [3]assembly.Vec3
}

// SDFGenerator tessellates primitive shapes with sdfx.
type SDFGenerator struct {
	cells int
}

// NewSDFGenerator returns a generator with the given resolution. Values
// below one select DefaultCells.
func NewSDFGenerator(cells int) *SDFGenerator {
	if cells < 1 {
		cells = DefaultCells
	}
	return &SDFGenerator{cells: cells}
}

// MeshFile returns the referenced file for mesh shapes and <part>.stl
// otherwise.
func (g *SDFGenerator) MeshFile(p *assembly.Part) string {
	if p.Shape.Type == assembly.ShapeMesh && p.Shape.File != "" {
		return p.Shape.File
	}
	return p.Name + ".stl"
}

// Generate tessellates p and encodes it as binary STL.
func (g *SDFGenerator) Generate(p *assembly.Part) ([]byte, error) {
	if p.Shape.Type == assembly.ShapeMesh {
		if p.Shape.File == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "part %q: mesh shape without a file", p.Name)
		}
		return nil, nil
	}

	tris, err := g.Triangles(p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := EncodeSTL(&buf, p.Name, tris); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "part %q: encode STL", p.Name)
	}
	return buf.Bytes(), nil
}

// Triangles tessellates the placed shape of p.
func (g *SDFGenerator) Triangles(p *assembly.Part) ([]Triangle, error) {
	s, err := solid(p)
	if err != nil {
		return nil, err
	}
	s = sdf.Transform3D(s, placement(p.Placement))

	renderer := render.NewMarchingCubesUniform(g.cells)
	facets := render.ToTriangles(s, renderer)

	tris := make([]Triangle, 0, len(facets))
	for _, f := range facets {
		n := f.Normal()
		t := Triangle{Normal: assembly.Vec3{n.X, n.Y, n.Z}}
		for j := 0; j < 3; j++ {
			v := f[j]
			t.Vertices[j] = assembly.Vec3{v.X, v.Y, v.Z}
		}
		tris = append(tris, t)
	}
	return tris, nil
}

// solid builds the unplaced shape. Boxes have their minimum corner and
// cylinders their base at the origin; spheres are centred.
func solid(p *assembly.Part) (sdf.SDF3, error) {
	sh := p.Shape
	switch sh.Type {
	case assembly.ShapeBox:
		x, y, z := sh.Size[0], sh.Size[1], sh.Size[2]
		if x <= 0 || y <= 0 || z <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "part %q: box size must be positive, got %v", p.Name, sh.Size)
		}
		s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "part %q: box", p.Name)
		}
		return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})), nil

	case assembly.ShapeCylinder:
		if sh.Radius <= 0 || sh.Height <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "part %q: cylinder radius and height must be positive", p.Name)
		}
		s, err := sdf.Cylinder3D(sh.Height, sh.Radius, 0)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "part %q: cylinder", p.Name)
		}
		return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: sh.Height / 2})), nil

	case assembly.ShapeSphere:
		if sh.Radius <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "part %q: sphere radius must be positive", p.Name)
		}
		s, err := sdf.Sphere3D(sh.Radius)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "part %q: sphere", p.Name)
		}
		return s, nil

	case "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "part %q has no shape", p.Name)
	}
	return nil, errors.Unsupported("part %q: shape type %q cannot be tessellated", p.Name, sh.Type)
}

// placement is the rotation followed by the translation of pl.
func placement(pl assembly.Placement) sdf.M44 {
	x, y, z := pl.Rotation.Euler()
	rot := sdf.RotateZ(z).Mul(sdf.RotateY(y)).Mul(sdf.RotateX(x))
	pos := pl.Position
	return sdf.Translate3d(v3.Vec{X: pos[0], Y: pos[1], Z: pos[2]}).Mul(rot)
}
