// Package render encodes derived maps and raw frames into image files.
package render

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"golang.org/x/image/tiff"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/emath"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/output"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/rawframe"
)

// Renderer implements output.Writer.
type Renderer struct {
	Verbosity  int
	DebugGrids bool    // also dump a titled grayscale of every float grid
	K0         float64 // °C -> K, for the kelvin-valued renderings
	Colormap   Colormap
	Tonemapper string // for TemperaturePayload.Tonemapped; see Tonemappers
}

var _ output.Writer = (*Renderer)(nil)

func NewRenderer(k0 float64) *Renderer {
	return &Renderer{K0: k0, Colormap: Viridis}
}

func (r *Renderer) WriteFrame(p output.FramePayload) error {
	img := frameImage(p.Frame)
	if p.PNG.Path != "" {
		if err := WritePNG(img, p.PNG.Path); err != nil {
			return err
		}
	}
	if p.TIFF.Path != "" {
		if err := WriteTIFF(img, p.TIFF.Path); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) WriteRatio(p output.RatioPayload) error {
	if err := WritePNG(Pseudocolor(&p.Ratio.FloatGrid, r.Colormap), p.Image.Path); err != nil {
		return err
	}
	if p.Chart.Path != "" {
		if err := WriteHistogramChart(p.Histogram, "Fv/Fm", p.Chart.Path); err != nil {
			return err
		}
	}
	if r.DebugGrids {
		return r.dumpGrid(&p.Ratio.FloatGrid, "Fv/Fm", p.Image.Path)
	}
	return nil
}

func (r *Renderer) WriteTemperature(p output.TemperaturePayload) error {
	grid := &p.Temperature.FloatGrid
	if p.TIFF.Path != "" {
		if err := WriteTIFF(CentiKelvin(grid, r.K0), p.TIFF.Path); err != nil {
			return err
		}
	}
	if p.HDR.Path != "" {
		if err := WriteHDR(KelvinImage{grid, r.K0}, p.HDR.Path); err != nil {
			return err
		}
	}
	if p.Tonemapped.Path != "" {
		op, err := Tonemapper(r.Tonemapper, KelvinImage{grid, r.K0})
		if err != nil {
			return err
		}
		if r.Verbosity > 0 {
			log.Printf("Tonemapping: %s\n", r.Tonemapper)
		}
		if err := WritePNG(op.Perform(), p.Tonemapped.Path); err != nil {
			return err
		}
	}
	if p.Image.Path != "" {
		if err := WritePNG(Pseudocolor(grid, r.Colormap), p.Image.Path); err != nil {
			return err
		}
		if r.DebugGrids {
			return r.dumpGrid(grid, p.Summary.String(), p.Image.Path)
		}
	}
	return nil
}

func (r *Renderer) dumpGrid(fg *emath.FloatGrid, title, nextTo string) error {
	filename := strings.TrimSuffix(nextTo, filepath.Ext(nextTo)) + "-grid.png"
	if r.Verbosity > 0 {
		log.Printf("grid dump %s to %s\n", fg.Stats(), filename)
	}
	return fg.ToImg(title, filename)
}

// 8 bit frames are written as they are; 16 bit frames keep their full depth.
func frameImage(f *rawframe.Frame) image.Image {
	if f.BitDepth == 8 {
		return f.Gray8()
	}
	return f.Gray16()
}

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}

func WriteTIFF(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
	}
}

// WriteHDR outputs a Radiance HDR image, for photoshop or other HDR tools.
func WriteHDR(img hdr.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return rgbe.Encode(writer, img)
	}
}
