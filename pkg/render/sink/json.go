package sink

import (
	"encoding/json"

	"github.com/matzehuels/pdext/pkg/errors"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	chart  string
	indent bool
}

// WithJSONChart records the chart name in the output envelope.
func WithJSONChart(name string) JSONOption { return func(r *jsonRenderer) { r.chart = name } }

// WithJSONCompact disables pretty printing.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.indent = false } }

type jsonOutput struct {
	Chart string `json:"chart,omitempty"`
	Data  any    `json:"data"`
}

// RenderJSON exports computed chart values (a wedge layout, calendar grids,
// stripe rectangles) as a JSON document. It does not draw anything.
func RenderJSON(v any, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{indent: true}
	for _, opt := range opts {
		opt(&r)
	}
	if v == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to export")
	}

	out := jsonOutput{Chart: r.chart, Data: v}
	var (
		data []byte
		err  error
	)
	if r.indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode chart")
	}
	return data, nil
}
