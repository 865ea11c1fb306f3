package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/psii"
)

// WriteHistogramChart draws one bar per bin, centred on the bin and 70% of
// its width, and saves it; the file extension picks the format.
func WriteHistogramChart(h psii.Histogram, xlabel, filename string) error {
	if len(h.Counts) == 0 || len(h.Edges) != len(h.Counts)+1 {
		return fmt.Errorf("chart '%s': malformed histogram", filename)
	}

	p := plot.New()
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "Pixels"

	width := 0.7 * (h.Edges[1] - h.Edges[0])
	bins := make([]plotter.HistogramBin, len(h.Counts))
	for i, c := range h.Centers() {
		bins[i] = plotter.HistogramBin{Min: c - width/2, Max: c + width/2, Weight: float64(h.Counts[i])}
	}
	p.Add(&plotter.Histogram{
		Bins:      bins,
		Width:     width,
		FillColor: Viridis.At(0.5),
		LineStyle: plotter.DefaultLineStyle,
	})

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("chart '%s': %v", filename, err)
	}
	return nil
}
