package mjcf

import (
	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/errors"
)

const (
	// DefaultMaterial is used by parts without an appearance name.
	DefaultMaterial = "default"

	// FloorMaterial is reserved for the floor plane; parts cannot use it.
	FloorMaterial = "kinetree_floor"

	floorTexture = "kinetree_floor"
)

var defaultRGBA = [4]float64{0.7, 0.7, 0.7, 1}

// MeshSource names the mesh file of a part. It is implemented by mesh
// generators, which also produce the file contents.
type MeshSource interface {
	MeshFile(p *assembly.Part) string
}

// STLFiles names generated meshes <part>.stl and keeps explicit mesh files.
type STLFiles struct{}

// MeshFile implements [MeshSource].
func (STLFiles) MeshFile(p *assembly.Part) string {
	if p.Shape.Type == assembly.ShapeMesh && p.Shape.File != "" {
		return p.Shape.File
	}
	return p.Name + ".stl"
}

// assetCatalog holds the textures, materials and meshes of one document.
// Materials are keyed by name; the first part to use a name defines it.
type assetCatalog struct {
	scale     string
	source    MeshSource
	textures  []Texture
	materials []Material
	meshes    []Mesh
	seen      map[string]bool
}

func newAssetCatalog(opts Options, source MeshSource) *assetCatalog {
	c := &assetCatalog{
		scale:  formatList(opts.Scale, opts.Scale, opts.Scale),
		source: source,
		seen:   map[string]bool{},
	}
	c.textures = append(c.textures, Texture{
		Name:    floorTexture,
		Type:    "2d",
		Builtin: "checker",
		RGB1:    "0.2 0.3 0.4",
		RGB2:    "0.1 0.2 0.3",
		Width:   300,
		Height:  300,
	})
	c.addMaterial(Material{
		Name:        FloorMaterial,
		Texture:     floorTexture,
		TexRepeat:   "5 5",
		TexUniform:  true,
		Reflectance: 0.2,
	})
	return c
}

func (c *assetCatalog) addMaterial(m Material) {
	if c.seen[m.Name] {
		return
	}
	c.seen[m.Name] = true
	c.materials = append(c.materials, m)
}

// register adds the mesh and material of p.
func (c *assetCatalog) register(p *assembly.Part) error {
	if p.Appearance.Name == FloorMaterial {
		return errors.Configuration("part %q: appearance name %q is reserved for the floor", p.Name, FloorMaterial)
	}
	c.meshes = append(c.meshes, Mesh{
		Name:  p.Name,
		File:  c.source.MeshFile(p),
		Scale: c.scale,
	})

	a := p.Appearance
	rgba := a.Color
	if rgba == [4]float64{} {
		rgba = defaultRGBA
	}
	c.addMaterial(Material{
		Name:      materialName(p),
		RGBA:      formatList(rgba[:]...),
		Specular:  a.Specular,
		Shininess: a.Shininess,
	})
	return nil
}

// visual is the mesh geom that shows p.
func (c *assetCatalog) visual(p *assembly.Part) Geom {
	return Geom{
		Type:     "mesh",
		Mesh:     p.Name,
		Material: materialName(p),
	}
}

func (c *assetCatalog) asset() Asset {
	return Asset{
		Textures:  c.textures,
		Materials: c.materials,
		Meshes:    c.meshes,
	}
}

func materialName(p *assembly.Part) string {
	if p.Appearance.Name != "" {
		return p.Appearance.Name
	}
	return DefaultMaterial
}
