package cache

// Keyer builds cache keys.
type Keyer interface {
	// SceneKey identifies the scene built from hashed input files.
	SceneKey(kind, inputHash string, opts SceneKeyOpts) string
	// ArtifactKey identifies one rendered format of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
	// RenderKey identifies a render stored by the HTTP server.
	RenderKey(id string) string
}

// SceneKeyOpts are the options that change a scene.
type SceneKeyOpts struct {
	HideLabels    bool    `json:"hide_labels,omitempty"`
	HideNets      bool    `json:"hide_nets,omitempty"`
	Window        string  `json:"window,omitempty"`
	OverlapMethod string  `json:"overlap_method,omitempty"`
	MaxCells      int64   `json:"max_cells,omitempty"`
	Alpha         float64 `json:"alpha,omitempty"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Legend bool    `json:"legend,omitempty"`
	// Inputs is the input hash for formats drawn from the parsed files
	// rather than from the scene alone.
	Inputs string `json:"inputs,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SceneKey implements Keyer.
func (DefaultKeyer) SceneKey(kind, inputHash string, opts SceneKeyOpts) string {
	return hashKey("scene:"+kind, inputHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, sceneHash, opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(id string) string {
	return "render:" + id
}
