package mjcf

import (
	"math"

	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/graph"
)

const (
	// ActuatorGain is the kp of every position actuator.
	ActuatorGain = 10.0

	// FloorMargin is the gap in metres between the lowest part origin and
	// the floor plane.
	FloorMargin = 0.01
)

// Default simulation options.
const (
	DefaultIntegrator = "implicitfast"
	DefaultTimestep   = 0.002
	DefaultSolver     = "Newton"
	DefaultDamping    = 0.1
	DefaultArmature   = 0.01
	DefaultScale      = 0.001 // millimetres to metres
	DefaultMeshDir    = "meshes"
)

// Options configures a document. Zero values select the defaults above.
type Options struct {
	Model      string  `toml:"model" json:"model,omitempty"`
	Integrator string  `toml:"integrator" json:"integrator,omitempty"`
	Timestep   float64 `toml:"timestep" json:"timestep,omitempty"`
	Solver     string  `toml:"solver" json:"solver,omitempty"`
	Damping    float64 `toml:"damping" json:"damping,omitempty"`
	Armature   float64 `toml:"armature" json:"armature,omitempty"`

	// Scale converts assembly lengths to model units.
	Scale float64 `toml:"scale" json:"scale,omitempty"`

	// MeshDir is the compiler meshdir, relative to the model file.
	MeshDir string `toml:"mesh_dir" json:"mesh_dir,omitempty"`
}

// WithDefaults returns o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Integrator == "" {
		o.Integrator = DefaultIntegrator
	}
	if o.Timestep == 0 {
		o.Timestep = DefaultTimestep
	}
	if o.Solver == "" {
		o.Solver = DefaultSolver
	}
	if o.Damping == 0 {
		o.Damping = DefaultDamping
	}
	if o.Armature == 0 {
		o.Armature = DefaultArmature
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.MeshDir == "" {
		o.MeshDir = DefaultMeshDir
	}
	return o
}

// Validate rejects options no simulator would accept.
func (o Options) Validate() error {
	if o.Timestep < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timestep must be positive")
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive")
	}
	if o.Damping < 0 || o.Armature < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "damping and armature must not be negative")
	}
	return nil
}

// Builder assembles documents. A Builder holds no per-document state and
// may be reused.
type Builder struct {
	opts   Options
	meshes MeshSource
}

// NewBuilder returns a Builder. A nil meshes source names meshes with
// [STLFiles].
func NewBuilder(opts Options, meshes MeshSource) *Builder {
	if meshes == nil {
		meshes = STLFiles{}
	}
	return &Builder{opts: opts.WithDefaults(), meshes: meshes}
}

// Options returns the effective options.
func (b *Builder) Options() Options { return b.opts }

// Build assembles the document for an oriented tree rooted at root. Loop
// edges become weld constraints.
func (b *Builder) Build(tree *graph.Graph, root string, loops []graph.Triple) (*Document, error) {
	if tree == nil || !tree.Directed() {
		return nil, errors.Consistency("body hierarchy needs a directed kinematic tree")
	}

	assets := newAssetCatalog(b.opts, b.meshes)
	minZ := math.Inf(1)
	for _, n := range tree.Nodes() {
		if err := assets.register(n.Part); err != nil {
			return nil, err
		}
		minZ = min(minZ, n.Part.Placement.Position[2])
	}
	if math.IsInf(minZ, 1) {
		return nil, errors.Configuration("kinematic tree is empty")
	}

	em := newEmitter(tree, b.opts, assets)
	body, err := em.root(root)
	if err != nil {
		return nil, err
	}
	if len(em.emitted) != tree.NodeCount() {
		return nil, errors.Consistency("%d of %d parts are not reachable from root %q",
			tree.NodeCount()-len(em.emitted), tree.NodeCount(), root)
	}

	welds, err := LoopConstraints(loops)
	if err != nil {
		return nil, err
	}
	var excludes []Exclude
	for _, w := range welds {
		excludes = append(excludes, Exclude{Body1: w.Body1, Body2: w.Body2})
	}

	return &Document{
		Model: b.opts.Model,
		Option: Option{
			Integrator: b.opts.Integrator,
			Timestep:   b.opts.Timestep,
			Solver:     b.opts.Solver,
		},
		Compiler: Compiler{
			Angle:      "radian",
			MeshDir:    b.opts.MeshDir,
			AutoLimits: true,
		},
		Default: Default{
			Joint: DefaultJoint{Damping: b.opts.Damping, Armature: b.opts.Armature},
			Geom:  DefaultGeom{Condim: 3, Friction: "1 0.005 0.0001"},
		},
		Asset: assets.asset(),
		World: WorldBody{
			Lights: []Light{{Pos: "0 0 3", Dir: "0 0 -1", Directional: true}},
			Geoms:  []Geom{floor(minZ * b.opts.Scale)},
			Bodies: []Body{body},
		},
		Contact:  Contact{Excludes: excludes},
		Equality: Equality{Welds: welds},
		Actuator: Actuator{Positions: em.actuators},
		Sensor:   Sensor{JointPos: em.sensors},
	}, nil
}

// floor is a plane FloorMargin below lowest, rounded to the nanometre.
func floor(lowest float64) Geom {
	z := math.Round((lowest-FloorMargin)*1e9) / 1e9
	return Geom{
		Name:     "floor",
		Type:     "plane",
		Size:     "0 0 0.05",
		Pos:      formatVec(0, 0, z),
		Material: FloorMaterial,
	}
}
