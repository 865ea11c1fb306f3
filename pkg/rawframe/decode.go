package rawframe

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrFrameDecode is matched (via errors.Is) by every DecodeError.
var ErrFrameDecode = errors.New("frame decode error")

// A DecodeError reports a buffer whose size does not match the expected
// resolution.
type DecodeError struct {
	Width, Height  int
	BytesPerSample int
	Got            int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("frame decode: want %dx%dx%d = %d bytes, got %d",
		e.Width, e.Height, e.BytesPerSample, e.Width*e.Height*e.BytesPerSample, e.Got)
}

func (e *DecodeError) Unwrap() error { return ErrFrameDecode }

func checkSize(b []byte, w, h, bps int) error {
	if w <= 0 || h <= 0 || len(b) != w*h*bps {
		return &DecodeError{Width: w, Height: h, BytesPerSample: bps, Got: len(b)}
	}
	return nil
}

// Decode8 reads w*h unsigned 8 bit samples laid out row-major as [h, w].
func Decode8(b []byte, w, h int) (*Frame, error) {
	if err := checkSize(b, w, h, 1); err != nil {
		return nil, err
	}
	f := NewFrame(w, h, 8)
	for i, v := range b {
		f.Pix[i] = uint16(v)
	}
	return f, nil
}

// Decode16LE reads w*h unsigned 16 bit little-endian samples laid out
// row-major as [h, w].
func Decode16LE(b []byte, w, h int) (*Frame, error) {
	if err := checkSize(b, w, h, 2); err != nil {
		return nil, err
	}
	f := NewFrame(w, h, 16)
	for i := range f.Pix {
		f.Pix[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return f, nil
}
