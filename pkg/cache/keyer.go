package cache

import "strings"

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered output of one chart.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
	// GeometryKey identifies a frame extended with geometry columns.
	GeometryKey(frameHash string, opts GeometryKeyOpts) string
}

// ArtifactKeyOpts are the render parameters an artifact depends on.
type ArtifactKeyOpts struct {
	Chart string `json:"chart"`
	// Format is the output format name.
	Format string `json:"format"`
	// OptionsHash is the hash of the chart's encoded options.
	OptionsHash string `json:"options"`
	DPI         int    `json:"dpi,omitempty"`
}

// GeometryKeyOpts are the parameters a geometry table depends on.
type GeometryKeyOpts struct {
	Shape  string `json:"shape"`
	Radius string `json:"radius"`
}

// DefaultKeyer prefixes keys with their kind and hashes the parameters.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<chart>:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	prefix := strings.Join([]string{"artifact", opts.Chart, opts.Format}, ":")
	return hashKey(prefix, frameHash, opts)
}

// GeometryKey returns "geometry:<shape>:<sha256>".
func (DefaultKeyer) GeometryKey(frameHash string, opts GeometryKeyOpts) string {
	return hashKey("geometry:"+opts.Shape, frameHash, opts)
}

var _ Keyer = DefaultKeyer{}
