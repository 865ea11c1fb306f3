// Package psii turns a PSII fluorescence capture into an Fv/Fm map.
package psii

import (
	"errors"
	"fmt"
	"log"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/rawframe"
)

// Frame roles within a capture.
const (
	SequenceLength = 102 // slots in a capture, 0..101
	DarkIndex      = 0
	FMinIndex      = 1
	FirstCandidate = 2
	LastCandidate  = 100
	TimingIndex    = 101 // frame timing metadata, never decoded as pixels
	RequiredFrames = TimingIndex
)

var (
	ErrIncompleteFrameSet = errors.New("incomplete frame set")
	ErrFrameShapeMismatch = errors.New("frame shape mismatch")
)

// A FrameSequence holds the decoded frames of one capture, indexed by slot.
// Every slot 0..100 is populated; slot 101 is always nil.
type FrameSequence struct {
	frames [SequenceLength]*rawframe.Frame
}

func (fs *FrameSequence) Frame(i int) *rawframe.Frame { return fs.frames[i] }
func (fs *FrameSequence) Dark() *rawframe.Frame       { return fs.frames[DarkIndex] }
func (fs *FrameSequence) FMin() *rawframe.Frame       { return fs.frames[FMinIndex] }

// NewFrameSequence wraps already-decoded frames. Extra entries past slot 100
// are ignored; any nil in 0..100 is an ErrIncompleteFrameSet.
func NewFrameSequence(frames []*rawframe.Frame) (*FrameSequence, error) {
	fs := &FrameSequence{}
	missing := []int{}
	for i := 0; i < RequiredFrames; i++ {
		if i >= len(frames) || frames[i] == nil {
			missing = append(missing, i)
			continue
		}
		fs.frames[i] = frames[i]
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing frames %v", ErrIncompleteFrameSet, missing)
	}
	return fs, nil
}

// Load decodes slots 0..100 from their sources as 8 bit [h, w] frames. A
// slot whose source is nil, unreadable or the wrong size is skipped and
// logged; if any slot ends up empty the whole capture is rejected with
// ErrIncompleteFrameSet.
func Load(sources []rawframe.Source, w, h int) (*FrameSequence, error) {
	if len(sources) != SequenceLength {
		return nil, fmt.Errorf("%w: want %d sources, got %d", ErrIncompleteFrameSet, SequenceLength, len(sources))
	}

	frames := make([]*rawframe.Frame, RequiredFrames)
	var firstErr error
	for i := 0; i < RequiredFrames; i++ {
		f, err := loadOne(sources[i], w, h)
		if err != nil {
			log.Printf("psii: skipping frame %04d: %v", i, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		frames[i] = f
	}

	fs, err := NewFrameSequence(frames)
	if err != nil {
		if firstErr != nil {
			return nil, fmt.Errorf("%w (first failure: %v)", err, firstErr)
		}
		return nil, err
	}
	return fs, nil
}

func loadOne(src rawframe.Source, w, h int) (*rawframe.Frame, error) {
	if src == nil {
		return nil, fmt.Errorf("no source")
	}
	b, err := src.ReadFrame()
	if err != nil {
		return nil, err
	}
	f, err := rawframe.Decode8(b, w, h)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", src.Name(), err)
	}
	return f, nil
}
