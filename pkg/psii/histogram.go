package psii

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const HistogramBins = 20

// A Histogram has len(Edges) == len(Counts)+1. Every bin is half-open
// [lo, hi) except the last, which also takes its upper edge.
type Histogram struct {
	Counts []int
	Edges  []float64
}

func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

func (h Histogram) String() string {
	return fmt.Sprintf("hist[%d bins, %d values, %.4f..%.4f]",
		len(h.Counts), h.Total(), h.Edges[0], h.Edges[len(h.Edges)-1])
}

// Centers returns the midpoint of each bin, for charting.
func (h Histogram) Centers() []float64 {
	c := make([]float64, len(h.Counts))
	for i := range c {
		c[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return c
}

// NewHistogram bins values into n equal-width bins spanning the data's own
// range. A range of zero width is widened by 0.5 either side. values must be
// finite (a sanitized ratio map always is).
func NewHistogram(values []float64, n int) Histogram {
	lo, hi := 0.0, 1.0
	if len(values) > 0 {
		lo, hi = floats.Min(values), floats.Max(values)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	h := Histogram{
		Counts: make([]int, n),
		Edges:  make([]float64, n+1),
	}
	floats.Span(h.Edges, lo, hi)
	h.Edges[n] = hi

	norm := float64(n) / (hi - lo)
	for _, v := range values {
		i := int((v - lo) * norm)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		// The scaled index can land one bin off the edge comparison; the
		// edges are authoritative.
		if i > 0 && v < h.Edges[i] {
			i--
		} else if i < n-1 && v >= h.Edges[i+1] {
			i++
		}
		h.Counts[i]++
	}
	return h
}
