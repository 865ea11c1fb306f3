package psii

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/emath"
)

// A RatioMap is the sanitized per-pixel Fv/Fm. Every value is finite; no
// value is above 1, but negative values (F-max below F-min) are kept.
type RatioMap struct {
	emath.FloatGrid
}

// Result is everything Analyze derives from a capture.
type Result struct {
	Ratio     RatioMap
	Histogram Histogram

	FMaxIndex int     // which slot was taken as F-max
	FMaxValue uint16  // its frame-level maximum
	Mean      float64 // of the ratio map
	StdDev    float64
}

func (r *Result) String() string {
	return fmt.Sprintf("fvfm[%dx%d, fmax=frame %04d (max %d), mean %.4f, sd %.4f, %s]",
		r.Ratio.Dx(), r.Ratio.Dy(), r.FMaxIndex, r.FMaxValue, r.Mean, r.StdDev, r.Histogram)
}

// Analyze selects F-max, computes Fv/Fm = (F-max − F-min) / F-max, sanitizes
// it and bins it. The same sequence always gives bit-identical results.
func Analyze(seq *FrameSequence) (*Result, error) {
	if seq == nil {
		return nil, fmt.Errorf("%w: no frames", ErrIncompleteFrameSet)
	}
	if err := checkShapes(seq); err != nil {
		return nil, err
	}

	k, kmax := SelectFMax(seq)
	fmax := seq.Frame(k)
	fmin := seq.FMin()

	ratio := RatioMap{FloatGrid: emath.NewFloatGrid(fmax.Width, fmax.Height)}
	out := ratio.Values()
	for i := range out {
		max := int(fmax.Pix[i])
		fvar := max - int(fmin.Pix[i])
		if max <= 0 {
			// No fluorescence at all: defined as zero rather than 0/0 or x/0.
			out[i] = 0
			continue
		}
		out[i] = float64(fvar) / float64(max)
	}
	Sanitize(out)

	values := ratio.Values()
	return &Result{
		Ratio:     ratio,
		Histogram: NewHistogram(values, HistogramBins),
		FMaxIndex: k,
		FMaxValue: kmax,
		Mean:      stat.Mean(values, nil),
		StdDev:    stat.StdDev(values, nil),
	}, nil
}

// SelectFMax finds the frame with the highest frame-level maximum among the
// dark frame and the candidates 2..100. Ties go to the lowest index. F-min
// (slot 1) is never a candidate.
func SelectFMax(seq *FrameSequence) (int, uint16) {
	best, bestMax := DarkIndex, seq.Dark().Max()
	for i := FirstCandidate; i <= LastCandidate; i++ {
		if m := seq.Frame(i).Max(); m > bestMax {
			best, bestMax = i, m
		}
	}
	return best, bestMax
}

// Sanitize zeroes every NaN, ±Inf and value above 1.0, in place.
func Sanitize(values []float64) {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v > 1.0 {
			values[i] = 0
		}
	}
}

func checkShapes(seq *FrameSequence) error {
	ref := seq.Dark()
	for i := 0; i < RequiredFrames; i++ {
		f := seq.Frame(i)
		if f == nil {
			return fmt.Errorf("%w: frame %04d missing", ErrIncompleteFrameSet, i)
		}
		if !f.SameShape(ref) {
			return fmt.Errorf("%w: frame %04d is %dx%d, frame %04d is %dx%d",
				ErrFrameShapeMismatch, i, f.Width, f.Height, DarkIndex, ref.Width, ref.Height)
		}
	}
	return nil
}
