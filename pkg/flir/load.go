package flir

import (
	"fmt"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/rawframe"
)

// The raw buffer is 640 wide by 480 tall; after rotation the frame is 480
// wide by 640 tall.
const (
	RawWidth  = 640
	RawHeight = 480
)

// LoadRaw reads the single FLIR frame of a capture. Any decode error aborts,
// since there is nothing else to convert.
func LoadRaw(src rawframe.Source) (*rawframe.Frame, error) {
	b, err := src.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("flir load '%s': %w", src.Name(), err)
	}
	f, err := rawframe.Decode16LE(b, RawWidth, RawHeight)
	if err != nil {
		return nil, fmt.Errorf("flir load '%s': %w", src.Name(), err)
	}
	return f.Rotate270(), nil
}
