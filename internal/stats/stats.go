// Package stats provides the numeric primitives used by the aggregation
// engine: nearest-rank percentiles, outlier-trimmed means, and grouping.
// All functions are pure and return zero values on empty input, never NaN.
package stats

import "sort"

// Percentile returns the nearest-rank percentile of a sorted slice:
// sorted[floor(n*p)], clamped to the slice bounds.
//
// This is deliberately the simplified nearest-rank method, not an
// interpolated percentile. Callers depend on the exact index rule
// (e.g. for 10 elements, p95 selects index 9, the last element).
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)) * p)
	if index < 0 {
		return sorted[0]
	}
	if index >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[index]
}

// Median returns sorted[floor(n/2)]. For even-length input this is the
// upper-middle element, not the average of the two middle elements.
// Callers depend on this exact rule.
func Median(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)/2]
}

// Mean returns the plain arithmetic mean, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// TrimmedMean returns the mean of all elements x with lower <= x <= upper,
// or 0 when no element falls inside the band.
func TrimmedMean(values []float64, lower, upper float64) float64 {
	total := 0.0
	count := 0
	for _, v := range values {
		if v >= lower && v <= upper {
			total += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// Summary holds the full set of robust statistics for one numeric sample.
// Avg is the [P5, P95] trimmed mean; Min/Max/Median describe the untrimmed
// sample so callers can see both the robust average and the raw extremes.
type Summary struct {
	Avg        float64 `json:"avg"`
	Median     float64 `json:"median"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	P5         float64 `json:"p5"`
	P95        float64 `json:"p95"`
	SampleSize int     `json:"sample_size"`
}

// Summarize computes a Summary over an unsorted sample. The input slice is
// not modified. An empty sample yields the all-zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p5 := Percentile(sorted, 0.05)
	p95 := Percentile(sorted, 0.95)

	return Summary{
		Avg:        TrimmedMean(sorted, p5, p95),
		Median:     Median(sorted),
		Min:        sorted[0],
		Max:        sorted[len(sorted)-1],
		P5:         p5,
		P95:        p95,
		SampleSize: len(sorted),
	}
}

// GroupBy partitions items into a map keyed by keyFn.
func GroupBy[T any, K comparable](items []T, keyFn func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, item := range items {
		key := keyFn(item)
		groups[key] = append(groups[key], item)
	}
	return groups
}

// OrderedGroups holds grouped items together with the keys in
// first-occurrence order, so ranked output never depends on map
// iteration order.
type OrderedGroups[T any, K comparable] struct {
	Keys   []K
	Groups map[K][]T
}

// GroupByOrdered partitions items like GroupBy but also records the order
// in which each key was first seen.
func GroupByOrdered[T any, K comparable](items []T, keyFn func(T) K) OrderedGroups[T, K] {
	result := OrderedGroups[T, K]{Groups: make(map[K][]T)}
	for _, item := range items {
		key := keyFn(item)
		if _, seen := result.Groups[key]; !seen {
			result.Keys = append(result.Keys, key)
		}
		result.Groups[key] = append(result.Groups[key], item)
	}
	return result
}
