package frame

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pdext/pkg/errors"
)

func TestReadCSV(t *testing.T) {
	const doc = `date,temp,site
2020-01-01,1.5,a
2020-01-02,,b
2020-01-03,3,c
`
	f, err := ReadCSV(strings.NewReader(doc), ReadOptions{TimeColumn: "date"})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if f.Len() != 3 {
		t.Errorf("Len() = %d, want 3", f.Len())
	}
	if !f.HasTimeIndex() {
		t.Fatal("expected a time index")
	}
	if got := f.Index()[2].Day(); got != 3 {
		t.Errorf("index[2].Day() = %d, want 3", got)
	}

	temp, err := f.Float64s("temp")
	if err != nil {
		t.Fatalf("Float64s: %v", err)
	}
	if temp[0] != 1.5 || !math.IsNaN(temp[1]) || temp[2] != 3 {
		t.Errorf("temp = %v, want [1.5 NaN 3]", temp)
	}

	if _, err := f.Float64s("site"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Float64s(site) error = %v, want INVALID_INPUT", err)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		opts ReadOptions
	}{
		{"empty", "", ReadOptions{}},
		{"duplicate header", "a,a\n1,2\n", ReadOptions{}},
		{"blank header", "a,\n1,2\n", ReadOptions{}},
		{"ragged", "a,b\n1\n", ReadOptions{}},
		{"missing time column", "a\n1\n", ReadOptions{TimeColumn: "date"}},
		{"bad time", "date\nyesterday\n", ReadOptions{TimeColumn: "date"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.doc), tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFloat64sConvertsInts(t *testing.T) {
	f := New(new(table.Builder).Add("n", []int{1, 2, 3}).Done())
	got, err := f.Float64s("n")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{1, 2, 3}, got); diff != "" {
		t.Errorf("Float64s mismatch (-want +got):\n%s", diff)
	}
}

func TestFloat64sMissing(t *testing.T) {
	f := New(new(table.Builder).Add("n", []int{1}).Done())
	_, err := f.Float64s("radius")
	if !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Errorf("error = %v, want MISSING_COLUMN", err)
	}
}

func TestFloat64sReturnsCopy(t *testing.T) {
	src := []float64{1, 2}
	f := New(new(table.Builder).Add("x", src).Done())
	got, _ := f.Float64s("x")
	got[0] = 99
	if src[0] != 1 {
		t.Error("Float64s aliased the table column")
	}
}

func TestSet(t *testing.T) {
	f := New(new(table.Builder).Add("x", []float64{1, 2}).Done())
	if err := f.Set("y", []float64{3, 4}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if diff := cmp.Diff([]string{"x", "y"}, f.Columns()); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	if err := f.Set("z", []float64{1}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Set(short) error = %v, want INVALID_INPUT", err)
	}
	if err := f.Set("z", 3); err == nil {
		t.Error("Set(non-slice) should fail")
	}
}

func TestIndexLabels(t *testing.T) {
	f := New(new(table.Builder).Add("x", []int{5, 6}).Done())
	if diff := cmp.Diff([]string{"0", "1"}, f.IndexLabels()); diff != "" {
		t.Errorf("row labels mismatch (-want +got):\n%s", diff)
	}

	f, err := ReadCSV(strings.NewReader("d,x\n2021-03-01,1\n2021-03-02,2\n"), ReadOptions{TimeColumn: "d"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"2021-03-01", "2021-03-02"}, f.IndexLabels()); diff != "" {
		t.Errorf("time labels mismatch (-want +got):\n%s", diff)
	}
}

func TestNumericColumns(t *testing.T) {
	f, err := FromRecords([]string{"name", "a", "b"}, [][]string{{"x", "1", "2.5"}, {"y", "2", ""}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, f.NumericColumns()); diff != "" {
		t.Errorf("NumericColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	f := New(new(table.Builder).
		Add("radius", []float64{1, 2.5}).
		Add("name", []string{"a", "b"}).
		Done())
	var buf bytes.Buffer
	if err := f.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	want := "radius,name\n1,a\n2.5,b\n"
	if buf.String() != want {
		t.Errorf("WriteCSV = %q, want %q", buf.String(), want)
	}
}

func TestHash(t *testing.T) {
	mk := func(vals ...string) *Frame {
		rows := make([][]string, len(vals))
		for i, v := range vals {
			rows[i] = []string{v}
		}
		f, err := FromRecords([]string{"v"}, rows)
		if err != nil {
			t.Fatal(err)
		}
		return f
	}
	h1, err := mk("1", "2").Hash()
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := mk("1", "2").Hash()
	h3, _ := mk("1", "3").Hash()
	if h1 != h2 {
		t.Error("equal frames hash differently")
	}
	if h1 == h3 {
		t.Error("different frames hash the same")
	}

	f := mk("1", "2")
	if err := f.SetIndex([]time.Time{time.Unix(0, 0), time.Unix(86400, 0)}); err != nil {
		t.Fatal(err)
	}
	if h4, _ := f.Hash(); h4 == h1 {
		t.Error("time index does not affect the hash")
	}
}
