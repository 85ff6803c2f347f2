package frame

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"io"
	"time"

	"github.com/matzehuels/pdext/pkg/errors"
)

// ReadOptions configures [ReadCSV].
type ReadOptions struct {
	// TimeColumn, when set, is promoted to the time index.
	TimeColumn string
	// TimeLayout is the time.Parse layout for TimeColumn. Empty tries
	// RFC3339 and the usual date layouts.
	TimeLayout string
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// ReadCSV reads a headed CSV document into a frame.
func ReadCSV(r io.Reader, opts ReadOptions) (*Frame, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv has no header")
	}
	f, err := FromRecords(records[0], records[1:])
	if err != nil {
		return nil, err
	}
	if opts.TimeColumn != "" {
		if err := f.SetTimeIndex(opts.TimeColumn, opts.TimeLayout); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteCSV writes the frame as CSV. Frames with a time index get a
// leading "index" column unless a column of that name exists.
func (f *Frame) WriteCSV(w io.Writer) error {
	cols := f.Columns()
	views := make([][]string, len(cols))
	for i, c := range cols {
		v, err := f.Strings(c)
		if err != nil {
			return err
		}
		views[i] = v
	}

	withIndex := f.index != nil && !f.Has("index")
	header := cols
	if withIndex {
		header = append([]string{"index"}, cols...)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for row := 0; row < f.Len(); row++ {
		rec := make([]string, 0, len(header))
		if withIndex {
			rec = append(rec, f.index[row].Format(time.RFC3339))
		}
		for i := range cols {
			rec = append(rec, views[i][row])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Hash returns a sha256 digest of the frame contents and time index, used
// to key cached renders.
func (f *Frame) Hash() (string, error) {
	h := sha256.New()
	if err := f.WriteCSV(h); err != nil {
		return "", err
	}
	io.WriteString(h, "\x00index")
	for _, t := range f.index {
		io.WriteString(h, "\n"+t.Format(time.RFC3339Nano))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
