package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile_NearestRank(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	// floor(10*0.95) = 9 -> last element
	assert.Equal(t, 100.0, Percentile(sorted, 0.95))
	// floor(10*0.05) = 0 -> first element
	assert.Equal(t, 10.0, Percentile(sorted, 0.05))
	// floor(10*0.5) = 5
	assert.Equal(t, 60.0, Percentile(sorted, 0.5))
}

func TestPercentile_ClampsToBounds(t *testing.T) {
	sorted := []float64{1, 2, 3}

	assert.Equal(t, 3.0, Percentile(sorted, 1.0))
	assert.Equal(t, 1.0, Percentile(sorted, 0.0))
}

func TestPercentile_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 0.95))
}

func TestMedian_UpperMiddleForEvenLength(t *testing.T) {
	// floor(4/2) = 2 -> third element, not (2+3)/2
	assert.Equal(t, 3.0, Median([]float64{1, 2, 3, 4}))
}

func TestMedian_OddLength(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{1, 2, 3}))
}

func TestMedian_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, Mean(nil))
}

func TestTrimmedMean_FiltersOutOfBand(t *testing.T) {
	values := []float64{10, 20, 30, 1000}

	// Only 10..30 inside the band
	assert.Equal(t, 20.0, TrimmedMean(values, 10, 30))
}

func TestTrimmedMean_EmptyBand(t *testing.T) {
	assert.Equal(t, 0.0, TrimmedMean([]float64{1, 2, 3}, 100, 200))
	assert.Equal(t, 0.0, TrimmedMean(nil, 0, 100))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, Summary{}, s)
}

func TestSummarize_SingleValue(t *testing.T) {
	s := Summarize([]float64{500})

	assert.Equal(t, 500.0, s.Avg)
	assert.Equal(t, 500.0, s.Median)
	assert.Equal(t, 500.0, s.Min)
	assert.Equal(t, 500.0, s.Max)
	assert.Equal(t, 1, s.SampleSize)
}

func TestSummarize_OutlierInsensitivity(t *testing.T) {
	// 20 well-behaved rents plus one absurd outlier. The outlier sits
	// above p95 and must not move the trimmed average, though it does
	// show up in Max.
	base := make([]float64, 0, 21)
	for i := 0; i < 20; i++ {
		base = append(base, 60000+float64(i)*1000)
	}
	withOutlier := append(append([]float64{}, base...), 5000000)

	clean := Summarize(base)
	dirty := Summarize(withOutlier)

	assert.InDelta(t, clean.Avg, dirty.Avg, 2000)
	assert.Equal(t, 5000000.0, dirty.Max)
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)

	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestGroupBy(t *testing.T) {
	type rec struct {
		city string
		rent float64
	}
	items := []rec{{"Paris", 600}, {"Lyon", 400}, {"Paris", 700}}

	groups := GroupBy(items, func(r rec) string { return r.city })

	assert.Len(t, groups, 2)
	assert.Len(t, groups["Paris"], 2)
	assert.Len(t, groups["Lyon"], 1)
}

func TestGroupByOrdered_PreservesFirstOccurrenceOrder(t *testing.T) {
	items := []string{"b", "a", "b", "c", "a"}

	grouped := GroupByOrdered(items, func(s string) string { return s })

	assert.Equal(t, []string{"b", "a", "c"}, grouped.Keys)
	assert.Len(t, grouped.Groups["b"], 2)
	assert.Len(t, grouped.Groups["a"], 2)
	assert.Len(t, grouped.Groups["c"], 1)
}
