// Package output packages derived maps for the external writer, and keeps
// track of what got written so a run can report it.
package output

import (
	"fmt"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/flir"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/psii"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/rawframe"
)

// A Destination says where a writer should put something, and what semantic
// key the result is filed under.
type Destination struct {
	Path string
	Key  string
}

func (d Destination) String() string { return fmt.Sprintf("%s[%s]", d.Path, d.Key) }

func (d Destination) check() error {
	if d.Path == "" {
		return fmt.Errorf("destination with key '%s' has no path", d.Key)
	}
	return nil
}

// RatioPayload is the PSII aggregate: the Fv/Fm map goes to Image as a
// pseudocolor, the histogram goes to Chart. Chart may be left empty.
type RatioPayload struct {
	Image Destination
	Chart Destination

	Ratio     psii.RatioMap
	Histogram psii.Histogram
}

func (p RatioPayload) destinations() []Destination {
	if p.Chart.Path == "" {
		return []Destination{p.Image}
	}
	return []Destination{p.Chart, p.Image}
}

// TemperaturePayload is one FLIR capture. Each non-empty destination gets
// one rendering of the same map.
type TemperaturePayload struct {
	TIFF  Destination // 16 bit, hundredths of a kelvin
	HDR   Destination // radiance image, for HDR tools
	Image Destination // pseudocolor

	Tonemapped Destination // LDR rendering of the radiance image

	Temperature flir.TemperatureMap
	Summary     flir.Summary
}

func (p TemperaturePayload) destinations() []Destination {
	ds := []Destination{}
	for _, d := range []Destination{p.TIFF, p.HDR, p.Image, p.Tonemapped} {
		if d.Path != "" {
			ds = append(ds, d)
		}
	}
	return ds
}

// FramePayload is a single decoded capture frame, written as-is.
type FramePayload struct {
	PNG  Destination
	TIFF Destination

	Frame *rawframe.Frame
}

func (p FramePayload) destinations() []Destination {
	ds := []Destination{}
	for _, d := range []Destination{p.PNG, p.TIFF} {
		if d.Path != "" {
			ds = append(ds, d)
		}
	}
	return ds
}

// A Writer does the actual encoding; see pkg/render.
type Writer interface {
	WriteRatio(RatioPayload) error
	WriteTemperature(TemperaturePayload) error
	WriteFrame(FramePayload) error
}
