package colors

import (
	"strings"
	"sync"

	"gonum.org/v1/plot/palette/brewer"

	"github.com/matzehuels/pdext/pkg/errors"
)

// StripePalette is the default warming-stripes list, dark blue through
// dark red.
var StripePalette = []string{
	"#08306b", "#08519c", "#2171b5", "#4292c6",
	"#6baed6", "#9ecae1", "#c6dbef", "#deebf7",
	"#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
	"#ef3b2c", "#cb181d", "#a50f15", "#67000d",
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Gradient{}
)

// Lookup returns a fresh continuous scale for a ColorBrewer scheme name
// such as "Purples" or "RdBu". A "_r" suffix reverses the scale. The
// returned map has range [0, 1]; callers set their own range and alpha.
func Lookup(name string) (*Gradient, error) {
	base, reversed := strings.CutSuffix(name, "_r")

	registryMu.RLock()
	g, ok := registry[base]
	registryMu.RUnlock()
	if !ok {
		var err error
		if g, err = load(base); err != nil {
			return nil, err
		}
		registryMu.Lock()
		registry[base] = g
		registryMu.Unlock()
	}

	out := &Gradient{scale: scale{min: 0, max: 1, alpha: 1}, stops: g.stops}
	if reversed {
		out = out.Reversed()
	}
	return out, nil
}

// load picks the largest class count available for the scheme.
func load(name string) (*Gradient, error) {
	for n := 12; n >= 3; n-- {
		p, err := brewer.GetPalette(brewer.TypeAny, name, n)
		if err == nil {
			return NewGradient(p.Colors()), nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidColour, "unknown colour scale %q", name)
}
