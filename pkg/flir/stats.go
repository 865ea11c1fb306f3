package flir

import (
	"fmt"
	"math"

	"github.com/codahale/hdrhistogram"
)

// Percentiles are tracked in centi-Kelvin, so everything stays positive.
const (
	centiKMin     = 1
	centiKMax     = 10000000 // 100,000 K
	centiKSigFigs = 4
)

// A Summary describes the spread of a TemperatureMap, in °C.
type Summary struct {
	Min, Max, Mean float64
	P5, P50, P95   float64
	Pixels         int // pixels with a temperature
	NoData         int
}

func (s Summary) String() string {
	return fmt.Sprintf("temps[%d px, %d nodata, min %.2f, p5 %.2f, p50 %.2f, p95 %.2f, max %.2f, mean %.2f]",
		s.Pixels, s.NoData, s.Min, s.P5, s.P50, s.P95, s.Max, s.Mean)
}

// Summarize walks the map once; NaN pixels are counted as no-data.
func Summarize(tm TemperatureMap, env Environment) Summary {
	s := Summary{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN(), P5: math.NaN(), P50: math.NaN(), P95: math.NaN()}
	h := hdrhistogram.New(centiKMin, centiKMax, centiKSigFigs)

	sum := 0.0
	for _, t := range tm.Values() {
		if math.IsNaN(t) {
			s.NoData++
			continue
		}
		if s.Pixels == 0 || t < s.Min {
			s.Min = t
		}
		if s.Pixels == 0 || t > s.Max {
			s.Max = t
		}
		sum += t
		s.Pixels++

		// Out of range values still count towards min/max/mean, just not the percentiles.
		_ = h.RecordValue(int64(math.Round((t + env.K0) * 100)))
	}

	if s.Pixels > 0 {
		s.Mean = sum / float64(s.Pixels)
	}
	if h.TotalCount() > 0 {
		toC := func(q float64) float64 { return float64(h.ValueAtQuantile(q))/100 - env.K0 }
		s.P5, s.P50, s.P95 = toC(5), toC(50), toC(95)
	}
	return s
}
