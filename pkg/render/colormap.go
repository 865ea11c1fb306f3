package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/emath"
)

// A Colormap maps [0,1] onto a run of evenly spaced color stops, blending
// between neighbours in Lab space.
type Colormap struct {
	stops []colorful.Color
}

func NewColormap(hexes ...string) (Colormap, error) {
	if len(hexes) < 2 {
		return Colormap{}, fmt.Errorf("colormap needs at least two stops, got %d", len(hexes))
	}
	cm := Colormap{}
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Colormap{}, fmt.Errorf("colormap stop '%s': %v", h, err)
		}
		cm.stops = append(cm.stops, c)
	}
	return cm, nil
}

func mustColormap(hexes ...string) Colormap {
	cm, err := NewColormap(hexes...)
	if err != nil {
		panic(err)
	}
	return cm
}

// Viridis, sampled at nine points.
var Viridis = mustColormap(
	"#440154", "#472c7a", "#3b518b", "#2c718e", "#21908d",
	"#27ad81", "#5cc863", "#aadc32", "#fde725",
)

// At returns the color for t; t is clamped into [0,1], NaN counts as 0.
func (cm Colormap) At(t float64) color.RGBA {
	pos := emath.Clamp01(t) * float64(len(cm.stops)-1)
	i := int(math.Floor(pos))
	if i >= len(cm.stops)-1 {
		i = len(cm.stops) - 2
	}
	c := cm.stops[i].BlendLab(cm.stops[i+1], pos-float64(i)).Clamped()
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 0xff}
}

// Pseudocolor scales the grid between its own min and max, and colors it.
// NaN cells come out fully transparent.
func Pseudocolor(fg *emath.FloatGrid, cm Colormap) *image.RGBA {
	min, max := fg.MinMax()
	span := max - min
	if span == 0 || math.IsNaN(span) {
		span = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, fg.Dx(), fg.Dy()))
	for y := 0; y < fg.Dy(); y++ {
		for x := 0; x < fg.Dx(); x++ {
			v := fg.Get(x, y)
			if math.IsNaN(v) {
				continue
			}
			img.SetRGBA(x, y, cm.At((v-min)/span))
		}
	}
	return img
}
