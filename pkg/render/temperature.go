package render

import (
	"image"
	"image/color"
	"math"

	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/emath"
)

// KelvinImage presents a °C grid as an hdr.Image of absolute temperature, so
// every stored value is positive. No-data cells are 0 K.
type KelvinImage struct {
	Grid *emath.FloatGrid
	K0   float64
}

// Implement image.Image
func (ki KelvinImage) ColorModel() color.Model { return hdrcolor.RGBModel }
func (ki KelvinImage) Bounds() image.Rectangle { return image.Rect(0, 0, ki.Grid.Dx(), ki.Grid.Dy()) }
func (ki KelvinImage) At(x, y int) color.Color { return ki.HDRAt(x, y) }

// Implement hdr.Image
func (ki KelvinImage) Size() int { return ki.Grid.Dx() * ki.Grid.Dy() }
func (ki KelvinImage) HDRAt(x, y int) hdrcolor.Color {
	k := ki.kelvin(x, y)
	return hdrcolor.RGB{R: k, G: k, B: k}
}

func (ki KelvinImage) kelvin(x, y int) float64 {
	t := ki.Grid.Get(x, y)
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(t+ki.K0, 0)
}

// CentiKelvin packs a °C grid into 16 bits as hundredths of a kelvin, which
// covers 0 K .. 655.35 K. No-data cells are 0.
func CentiKelvin(fg *emath.FloatGrid, k0 float64) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, fg.Dx(), fg.Dy()))
	for y := 0; y < fg.Dy(); y++ {
		for x := 0; x < fg.Dx(); x++ {
			t := fg.Get(x, y)
			if math.IsNaN(t) {
				continue
			}
			ck := math.Round((t + k0) * 100)
			img.SetGray16(x, y, color.Gray16{uint16(math.Min(math.Max(ck, 0), math.MaxUint16))})
		}
	}
	return img
}
