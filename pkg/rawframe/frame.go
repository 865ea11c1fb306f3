// Package rawframe decodes headerless sensor buffers into frames of digital
// counts.
package rawframe

import (
	"fmt"
	"image"
	"image/color"
)

// A Frame is a grid of raw digital counts, as they came off the sensor's ADC.
// 8 bit samples are widened to uint16 so both instruments share one type.
// It implements image.Image, with the Gray16 color model.
type Frame struct {
	Pix      []uint16 // row-major, len == Width*Height
	Width    int
	Height   int
	BitDepth int // 8 or 16
}

func NewFrame(w, h, bitDepth int) *Frame {
	return &Frame{Pix: make([]uint16, w*h), Width: w, Height: h, BitDepth: bitDepth}
}

// Implement image.Image
func (f *Frame) ColorModel() color.Model { return color.Gray16Model }
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

func (f *Frame) At(x, y int) color.Color {
	v := f.CountAt(x, y)
	if f.BitDepth == 8 {
		v = v<<8 | v
	}
	return color.Gray16{v}
}

func (f *Frame) CountAt(x, y int) uint16 { return f.Pix[y*f.Width+x] }

func (f *Frame) String() string {
	return fmt.Sprintf("frame[%dx%d, %d bit]", f.Width, f.Height, f.BitDepth)
}

// Max returns the frame-level maximum count.
func (f *Frame) Max() uint16 {
	max := uint16(0)
	for _, v := range f.Pix {
		if v > max {
			max = v
		}
	}
	return max
}

func (f *Frame) SameShape(o *Frame) bool {
	return f.Width == o.Width && f.Height == o.Height
}

// Rotate270 rotates the frame by 270 degrees counter-clockwise (i.e. 90
// degrees clockwise). A w×h frame becomes h×w.
func (f *Frame) Rotate270() *Frame {
	out := NewFrame(f.Height, f.Width, f.BitDepth)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			out.Pix[y*out.Width+x] = f.CountAt(y, f.Height-1-x)
		}
	}
	return out
}

// Gray8 returns an 8 bit view of the frame, for writing as an ordinary image.
// 16 bit counts are stretched linearly between the frame's min and max.
func (f *Frame) Gray8() *image.Gray {
	img := image.NewGray(f.Bounds())
	if f.BitDepth == 8 {
		for i, v := range f.Pix {
			img.Pix[i] = uint8(v)
		}
		return img
	}

	floor, ceil := uint16(0xffff), uint16(0)
	for _, v := range f.Pix {
		if v < floor {
			floor = v
		}
		if v > ceil {
			ceil = v
		}
	}
	delta := int(ceil) - int(floor)
	if delta == 0 {
		return img
	}
	for i, v := range f.Pix {
		img.Pix[i] = uint8(int(v-floor) * 255 / delta)
	}
	return img
}

// Gray16 copies the counts into an image.Gray16, unscaled.
func (f *Frame) Gray16() *image.Gray16 {
	img := image.NewGray16(f.Bounds())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetGray16(x, y, color.Gray16{f.CountAt(x, y)})
		}
	}
	return img
}
