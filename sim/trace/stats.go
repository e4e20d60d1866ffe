package trace

import (
	"math"
	"sort"
)

// Number is the set of sample types the statistics helpers accept.
type Number interface {
	int | int64 | float64
}

// Percentile returns the p-th percentile of data with linear interpolation between
// the closest ranks. data need not be sorted. Returns 0 for empty input.
func Percentile[T Number](data []T, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	for i, v := range data {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if upperIdx >= n {
		return sorted[n-1]
	}
	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	return sorted[lowerIdx] + (sorted[upperIdx]-sorted[lowerIdx])*(rank-float64(lowerIdx))
}

// Mean returns the arithmetic mean of numbers, or 0 for empty input.
func Mean[T Number](numbers []T) float64 {
	if len(numbers) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range numbers {
		sum += float64(v)
	}
	return sum / float64(len(numbers))
}
