package cache

// keyVersion is bumped whenever the cached result layout changes.
const keyVersion = "v1"

// ExportKeyOpts are the inputs besides the assembly that change an export.
type ExportKeyOpts struct {
	Root    string `json:"root,omitempty"`
	Meshes  bool   `json:"meshes"`
	Cells   int    `json:"cells,omitempty"`
	Options any    `json:"options"` // document options, hashed as JSON
}

// GraphKeyOpts are the inputs besides the assembly that change a graph
// rendering.
type GraphKeyOpts struct {
	Format   string `json:"format"`
	Root     string `json:"root,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ExportKey is the key of an export result.
	ExportKey(assemblyHash string, opts ExportKeyOpts) string

	// GraphKey is the key of a rendered connectivity graph.
	GraphKey(assemblyHash string, opts GraphKeyOpts) string
}

// DefaultKeyer hashes all key inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ExportKey implements [Keyer].
func (DefaultKeyer) ExportKey(assemblyHash string, opts ExportKeyOpts) string {
	return hashKey("export", keyVersion, assemblyHash, opts)
}

// GraphKey implements [Keyer].
func (DefaultKeyer) GraphKey(assemblyHash string, opts GraphKeyOpts) string {
	return hashKey("graph", keyVersion, assemblyHash, opts)
}
