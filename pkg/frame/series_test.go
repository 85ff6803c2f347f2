package frame

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestResample(t *testing.T) {
	s := Series{
		Name: "rain",
		Times: []time.Time{
			day(2021, 1, 1, 6), day(2021, 1, 1, 18),
			day(2021, 1, 3, 12),
			day(2021, 1, 4, 1), day(2021, 1, 4, 2),
		},
		Values: []float64{1, 2, 5, math.NaN(), 4},
	}

	tests := []struct {
		how  Agg
		want []float64
	}{
		{AggSum, []float64{3, math.NaN(), 5, 4}},
		{AggMean, []float64{1.5, math.NaN(), 5, 4}},
		{AggMax, []float64{2, math.NaN(), 5, 4}},
		{AggCount, []float64{2, math.NaN(), 1, 1}},
		{AggFirst, []float64{1, math.NaN(), 5, 4}},
		{AggNone, []float64{2, math.NaN(), 5, 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.how), func(t *testing.T) {
			got, err := Resample(s, tt.how)
			require.NoError(t, err)
			require.Len(t, got.Values, 4)
			assert.Equal(t, day(2021, 1, 2, 0), got.Times[1])
			for i, w := range tt.want {
				if math.IsNaN(w) {
					assert.True(t, math.IsNaN(got.Values[i]), "day %d should be absent", i)
					continue
				}
				assert.InDelta(t, w, got.Values[i], 1e-12, "day %d", i)
			}
		})
	}
}

func TestResampleUnordered(t *testing.T) {
	s := Series{
		Times:  []time.Time{day(2021, 5, 3, 0), day(2021, 5, 1, 0)},
		Values: []float64{3, 1},
	}
	got, err := Resample(s, AggSum)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Values[0])
	assert.True(t, math.IsNaN(got.Values[1]))
	assert.Equal(t, 3.0, got.Values[2])
	assert.Len(t, got.Times, 3)
}

func TestResampleUnknownAgg(t *testing.T) {
	_, err := Resample(Series{}, "mode")
	assert.Error(t, err)
	_, err = ParseAgg("mode")
	assert.Error(t, err)
	a, err := ParseAgg("median")
	assert.NoError(t, err)
	assert.Equal(t, AggMedian, a)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
}

func TestSeriesRangeAndYears(t *testing.T) {
	s := Series{
		Times:  []time.Time{day(2020, 12, 31, 0), day(2021, 1, 1, 0), day(2021, 1, 2, 0)},
		Values: []float64{math.NaN(), -2, 7},
	}
	lo, hi, ok := s.Range()
	assert.True(t, ok)
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 7.0, hi)
	assert.Equal(t, []int{2020, 2021}, s.Years())

	_, _, ok = Series{Values: []float64{math.NaN()}}.Range()
	assert.False(t, ok)
}
