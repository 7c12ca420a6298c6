package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/cache"
	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/mjcf"
)

func box(name string, z float64) assembly.Part {
	return assembly.Part{
		Name:      name,
		Placement: assembly.Placement{Position: assembly.Vec3{0, 0, z}},
		Shape:     assembly.Shape{Type: assembly.ShapeBox, Size: assembly.Vec3{10, 10, 10}},
	}
}

// chain is a grounded serial arm of three revolute joints.
func chain() *assembly.Assembly {
	return &assembly.Assembly{
		Name:  "chain",
		Parts: []assembly.Part{box("P1", 0), box("P2", 10), box("P3", 20), box("P4", 30)},
		Joints: []assembly.Joint{
			{Name: "G", Kind: assembly.KindGrounded, Part1: "P1"},
			{Name: "J1", Kind: assembly.KindRevolute, Part1: "P1", Part2: "P2"},
			{Name: "J2", Kind: assembly.KindRevolute, Part1: "P2", Part2: "P3"},
			{Name: "J3", Kind: assembly.KindRevolute, Part1: "P3", Part2: "P4"},
		},
	}
}

// fourBar is a grounded linkage closed by a fixed joint.
func fourBar() *assembly.Assembly {
	return &assembly.Assembly{
		Name:  "fourbar",
		Parts: []assembly.Part{box("Base", 0), box("Crank", 0), box("Coupler", 0), box("Rocker", 0)},
		Joints: []assembly.Joint{
			{Name: "G", Kind: assembly.KindGrounded, Part1: "Base"},
			{Name: "J1", Kind: assembly.KindRevolute, Part1: "Base", Part2: "Crank"},
			{Name: "J2", Kind: assembly.KindRevolute, Part1: "Crank", Part2: "Coupler"},
			{Name: "J3", Kind: assembly.KindRevolute, Part1: "Coupler", Part2: "Rocker"},
			{Name: "J4", Kind: assembly.KindFixed, Part1: "Rocker", Part2: "Base"},
		},
	}
}

// ring is a closed loop of revolute joints with nothing grounded.
func ring() *assembly.Assembly {
	return &assembly.Assembly{
		Name:  "ring",
		Parts: []assembly.Part{box("A", 0), box("B", 0), box("C", 0), box("D", 0)},
		Joints: []assembly.Joint{
			{Name: "AB", Kind: assembly.KindRevolute, Part1: "A", Part2: "B"},
			{Name: "BC", Kind: assembly.KindRevolute, Part1: "B", Part2: "C"},
			{Name: "CD", Kind: assembly.KindRevolute, Part1: "C", Part2: "D"},
			{Name: "DA", Kind: assembly.KindRevolute, Part1: "D", Part2: "A"},
		},
	}
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Cells != DefaultCells {
		t.Errorf("Cells = %d, want %d", opts.Cells, DefaultCells)
	}
	if opts.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", opts.Workers, DefaultWorkers)
	}
	if opts.Document.MeshDir != "meshes" || opts.Document.Timestep != 0.002 {
		t.Errorf("document defaults not applied: %+v", opts.Document)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error = %v", err)
	}
}

func TestValidateAndSetDefaults_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative cells", Options{Cells: -1}, errors.ErrCodeInvalidInput},
		{"too many cells", Options{Cells: MaxCells + 1}, errors.ErrCodeInvalidInput},
		{"negative workers", Options{Workers: -2}, errors.ErrCodeInvalidInput},
		{"negative timestep", Options{Document: mjcf.Options{Timestep: -1}}, errors.ErrCodeInvalidInput},
		{"absolute mesh dir", Options{Document: mjcf.Options{MeshDir: "/tmp/meshes"}}, errors.ErrCodeInvalidPath},
		{"model with separator", Options{Document: mjcf.Options{Model: "a/b"}}, errors.ErrCodeInvalidName},
		{"root with traversal", Options{Root: "../P1"}, errors.ErrCodeInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinetree.toml")
	writeFile(t, path, `root = "Base"
cells = 32
skip_meshes = true

[document]
timestep = 0.001
mesh_dir = "assets"
`)

	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if opts.Root != "Base" || opts.Cells != 32 || !opts.SkipMeshes {
		t.Errorf("LoadConfig() = %+v", opts)
	}
	if opts.Document.Timestep != 0.001 || opts.Document.MeshDir != "assets" {
		t.Errorf("document options = %+v", opts.Document)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.toml")
	writeFile(t, unknown, "celz = 3\n\n[document]\nstep = 1\n")
	_, err := LoadConfig(unknown)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown keys error = %v, want INVALID_FORMAT", err)
	}
	if err != nil && (!strings.Contains(err.Error(), "celz") || !strings.Contains(err.Error(), "document.step")) {
		t.Errorf("error should name the unknown keys: %v", err)
	}

	malformed := filepath.Join(dir, "malformed.toml")
	writeFile(t, malformed, "root = \n")
	if _, err := LoadConfig(malformed); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("malformed error = %v, want INVALID_FORMAT", err)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name  string
		asm   *assembly.Assembly
		root  string
		tree  []Connection
		loops []Connection
	}{
		{
			name: "grounded chain",
			asm:  chain(),
			tree: []Connection{
				{From: "P1", To: "P2", Joint: "J1", Kind: assembly.KindRevolute},
				{From: "P2", To: "P3", Joint: "J2", Kind: assembly.KindRevolute},
				{From: "P3", To: "P4", Joint: "J3", Kind: assembly.KindRevolute},
			},
		},
		{
			name: "root override",
			asm:  chain(),
			root: "P4",
			tree: []Connection{
				{From: "P4", To: "P3", Joint: "J3", Kind: assembly.KindRevolute},
				{From: "P3", To: "P2", Joint: "J2", Kind: assembly.KindRevolute},
				{From: "P2", To: "P1", Joint: "J1", Kind: assembly.KindRevolute},
			},
		},
		{
			name: "closed linkage",
			asm:  fourBar(),
			tree: []Connection{
				{From: "Base", To: "Crank", Joint: "J1", Kind: assembly.KindRevolute},
				{From: "Crank", To: "Coupler", Joint: "J2", Kind: assembly.KindRevolute},
				{From: "Coupler", To: "Rocker", Joint: "J3", Kind: assembly.KindRevolute},
			},
			loops: []Connection{
				{From: "Base", To: "Rocker", Joint: "J4", Kind: assembly.KindFixed},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			red, err := quietRunner(nil).Reduce(context.Background(), tt.asm, tt.root)
			if err != nil {
				t.Fatalf("Reduce() error = %v", err)
			}
			if red.Root != tt.tree[0].From {
				t.Errorf("Root = %q, want %q", red.Root, tt.tree[0].From)
			}
			assertConnections(t, "TreeEdges()", red.TreeEdges(), tt.tree)
			assertConnections(t, "LoopEdges()", red.LoopEdges(), tt.loops)
		})
	}
}

func assertConnections(t *testing.T, what string, got, want []Connection) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %+v, want %+v", what, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %+v, want %+v", what, i, got[i], want[i])
		}
	}
}

func TestReduce_Warnings(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(nil, nil, log.New(&buf))

	a := chain()
	a.Parts = append(a.Parts, box("Loose", 0))
	if _, err := r.Reduce(context.Background(), a, "P3"); err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"root override replaces grounded part", "part has no joints", "Loose"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestReduce_Errors(t *testing.T) {
	tests := []struct {
		name string
		asm  *assembly.Assembly
		root string
	}{
		{"loop without a leaf", ring(), ""},
		{"unknown root", chain(), "P9"},
		{"no joints", &assembly.Assembly{Name: "bare", Parts: []assembly.Part{box("A", 0)}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quietRunner(nil).Reduce(context.Background(), tt.asm, tt.root)
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("Reduce() error = %v, want CONFIGURATION", err)
			}
		})
	}
}

func TestExport_SkipMeshes(t *testing.T) {
	res, err := quietRunner(nil).Export(context.Background(), chain(), Options{SkipMeshes: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if res.Model != "chain" || res.Root != "P1" || res.MeshDir != "meshes" {
		t.Errorf("Export() = model %q root %q mesh dir %q", res.Model, res.Root, res.MeshDir)
	}
	if !bytes.Contains(res.XML, []byte(`<mujoco model="chain">`)) {
		t.Errorf("XML missing model element:\n%s", res.XML)
	}
	if len(res.Meshes) != 0 {
		t.Errorf("Meshes = %d, want none", len(res.Meshes))
	}
	if res.Stats.Parts != 4 || res.Stats.Joints != 3 || res.Stats.Document.Bodies != 4 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheHit {
		t.Error("CacheHit set without a cache")
	}
}

func TestExport_Meshes(t *testing.T) {
	res, err := quietRunner(nil).Export(context.Background(), chain(), Options{Cells: 8})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	total := 0
	for _, name := range []string{"P1.stl", "P2.stl", "P3.stl", "P4.stl"} {
		data, ok := res.Meshes[name]
		if !ok {
			t.Errorf("Meshes missing %s", name)
			continue
		}
		if len(data) <= 84 {
			t.Errorf("%s has no facets", name)
		}
		total += len(data)
	}
	if res.Stats.MeshBytes != total {
		t.Errorf("Stats.MeshBytes = %d, want %d", res.Stats.MeshBytes, total)
	}
}

func TestExport_Deterministic(t *testing.T) {
	r := quietRunner(nil)
	a, err := r.Export(context.Background(), fourBar(), Options{SkipMeshes: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	b, err := r.Export(context.Background(), fourBar(), Options{SkipMeshes: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !bytes.Equal(a.XML, b.XML) {
		t.Error("two exports of the same assembly differ")
	}
	if a.Stats.Document.Welds != 1 {
		t.Errorf("Welds = %d, want 1", a.Stats.Document.Welds)
	}
}

func TestExport_Cache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := quietRunner(c)
	ctx := context.Background()

	first, err := r.Export(ctx, chain(), Options{SkipMeshes: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if first.CacheHit {
		t.Error("first export should miss")
	}

	second, err := r.Export(ctx, chain(), Options{SkipMeshes: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !second.CacheHit {
		t.Error("second export should hit")
	}
	if !bytes.Equal(first.XML, second.XML) || second.Root != "P1" || len(second.Tree) != 3 {
		t.Errorf("cached result differs: %+v", second)
	}

	refreshed, err := r.Export(ctx, chain(), Options{SkipMeshes: true, Refresh: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if refreshed.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	other, err := r.Export(ctx, chain(), Options{SkipMeshes: true, Root: "P4"})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if other.CacheHit || other.Root != "P4" {
		t.Errorf("different root should miss, got hit=%v root=%q", other.CacheHit, other.Root)
	}
}

func TestExport_Errors(t *testing.T) {
	noShape := chain()
	noShape.Parts[2].Shape = assembly.Shape{}

	tests := []struct {
		name string
		asm  *assembly.Assembly
		opts Options
		code errors.Code
	}{
		{"loop without a leaf", ring(), Options{SkipMeshes: true}, errors.ErrCodeConfiguration},
		{"part without shape", noShape, Options{Cells: 8}, errors.ErrCodeInvalidInput},
		{"bad options", chain(), Options{Cells: -1}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quietRunner(nil).Export(context.Background(), tt.asm, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Export() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExport_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietRunner(nil).Export(ctx, chain(), Options{})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Export() error = %v, want context.Canceled", err)
	}
}

func TestExport_DefaultModel(t *testing.T) {
	a := chain()
	a.Name = ""
	res, err := quietRunner(nil).Export(context.Background(), a, Options{SkipMeshes: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Model != DefaultModel || res.ModelFile() != "model.xml" {
		t.Errorf("Model = %q, file %q", res.Model, res.ModelFile())
	}
}

func TestResult_Write(t *testing.T) {
	res, err := quietRunner(nil).Export(context.Background(), chain(), Options{Cells: 8})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	dir := filepath.Join(t.TempDir(), "out")
	files, err := res.Write(dir)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(files) != 5 {
		t.Fatalf("Write() = %v, want 4 meshes and the document", files)
	}
	if files[4] != filepath.Join(dir, "chain.xml") {
		t.Errorf("document written last as %s", files[4])
	}

	xml, err := os.ReadFile(filepath.Join(dir, "chain.xml"))
	if err != nil || !bytes.Equal(xml, res.XML) {
		t.Errorf("document on disk differs: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "meshes", "P3.stl")); err != nil {
		t.Errorf("mesh not written: %v", err)
	}
}

func TestResult_Write_Rejects(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		res  Result
		code errors.Code
	}{
		{"model escapes", Result{Model: "../x", MeshDir: "meshes"}, errors.ErrCodeInvalidName},
		{"mesh dir escapes", Result{Model: "m", MeshDir: "../meshes"}, errors.ErrCodeInvalidPath},
		{"mesh name escapes", Result{Model: "m", MeshDir: "meshes", Meshes: map[string][]byte{"a/b.stl": nil}}, errors.ErrCodeInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.res.Write(dir); !errors.Is(err, tt.code) {
				t.Errorf("Write() error = %v, want code %s", err, tt.code)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(dir, "m.xml")); !os.IsNotExist(err) {
		t.Error("document written despite a rejected mesh")
	}
}

type fakeGenerator struct {
	fail map[string]bool
	file string
}

func (g fakeGenerator) MeshFile(p *assembly.Part) string {
	if g.file != "" {
		return g.file
	}
	return p.Name + ".stl"
}

func (g fakeGenerator) Generate(p *assembly.Part) ([]byte, error) {
	if g.fail[p.Name] {
		return nil, errors.New(errors.ErrCodeInvalidInput, "part %q failed", p.Name)
	}
	return []byte(p.Name), nil
}

func TestGenerateMeshes(t *testing.T) {
	red, err := quietRunner(nil).Reduce(context.Background(), chain(), "")
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}
	ctx := context.Background()

	meshes, err := generateMeshes(ctx, fakeGenerator{}, red, 2)
	if err != nil {
		t.Fatalf("generateMeshes() error = %v", err)
	}
	if len(meshes) != 4 || string(meshes["P3.stl"]) != "P3" {
		t.Errorf("generateMeshes() = %v", meshes)
	}

	_, err = generateMeshes(ctx, fakeGenerator{fail: map[string]bool{"P4": true, "P2": true}}, red, 4)
	if err == nil || !strings.Contains(err.Error(), `"P2"`) {
		t.Errorf("generateMeshes() error = %v, want the first failing part", err)
	}

	_, err = generateMeshes(ctx, fakeGenerator{file: "same.stl"}, red, 1)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("generateMeshes() error = %v, want INVALID_INPUT for clashing files", err)
	}
}

func TestRenderGraph(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	dot, hit, err := r.RenderGraph(ctx, fourBar(), GraphOptions{})
	if err != nil {
		t.Fatalf("RenderGraph() error = %v", err)
	}
	if hit {
		t.Error("hit without a cache")
	}
	for _, want := range []string{
		`"Base" [label="Base", style="rounded,filled,bold", penwidth=3];`,
		`"Base" -- "Rocker" [label="J4", style=dashed`,
	} {
		if !strings.Contains(string(dot), want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}

	// A linkage without a usable root is still drawn.
	dot, _, err = r.RenderGraph(ctx, ring(), GraphOptions{Format: FormatDOT})
	if err != nil {
		t.Fatalf("RenderGraph(ring) error = %v", err)
	}
	if !strings.Contains(string(dot), `"A" -- "B"`) || strings.Contains(string(dot), "bold") {
		t.Errorf("unexpected DOT for ring:\n%s", dot)
	}
}

func TestRenderGraph_Errors(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	if _, _, err := r.RenderGraph(ctx, fourBar(), GraphOptions{Format: "png"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("format error = %v, want INVALID_INPUT", err)
	}
	bare := &assembly.Assembly{Name: "bare", Parts: []assembly.Part{box("A", 0)}}
	if _, _, err := r.RenderGraph(ctx, bare, GraphOptions{}); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("bare assembly error = %v, want CONFIGURATION", err)
	}
}

func TestRenderGraph_Cache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := quietRunner(c)
	ctx := context.Background()

	first, _, err := r.RenderGraph(ctx, chain(), GraphOptions{})
	if err != nil {
		t.Fatalf("RenderGraph() error = %v", err)
	}
	second, hit, err := r.RenderGraph(ctx, chain(), GraphOptions{})
	if err != nil {
		t.Fatalf("RenderGraph() error = %v", err)
	}
	if !hit || !bytes.Equal(first, second) {
		t.Errorf("second render hit=%v, equal=%v", hit, bytes.Equal(first, second))
	}
	if _, hit, _ := r.RenderGraph(ctx, chain(), GraphOptions{Detailed: true}); hit {
		t.Error("detailed render should miss")
	}
}
