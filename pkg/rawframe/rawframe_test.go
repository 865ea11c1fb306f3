package rawframe

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode8(t *testing.T) {
	f, err := Decode8([]byte{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Width)
	assert.Equal(t, 2, f.Height)
	assert.Equal(t, 8, f.BitDepth)
	assert.Equal(t, uint16(6), f.CountAt(2, 1))
	assert.Equal(t, uint16(4), f.CountAt(0, 1))
	assert.Equal(t, uint16(6), f.Max())
}

func TestDecode16LE(t *testing.T) {
	f, err := Decode16LE([]byte{0xF4, 0x01, 0x00, 0x80}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint16{500, 0x8000}, f.Pix)
	assert.Equal(t, 16, f.BitDepth)
}

func TestDecodeSizeMismatch(t *testing.T) {
	_, err := Decode8(make([]byte, 5), 3, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFrameDecode))

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 5, de.Got)

	_, err = Decode16LE(make([]byte, 6), 3, 2)
	assert.True(t, errors.Is(err, ErrFrameDecode))

	_, err = Decode8(nil, 0, 0)
	assert.True(t, errors.Is(err, ErrFrameDecode))
}

func TestRotate270(t *testing.T) {
	// 3 wide, 2 tall:
	//   1 2 3
	//   4 5 6
	f, err := Decode8([]byte{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)

	// A quarter turn clockwise:
	//   4 1
	//   5 2
	//   6 3
	r := f.Rotate270()
	assert.Equal(t, 2, r.Width)
	assert.Equal(t, 3, r.Height)
	if diff := cmp.Diff([]uint16{4, 1, 5, 2, 6, 3}, r.Pix); diff != "" {
		t.Fatalf("rotated pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestFrameImage(t *testing.T) {
	f, err := Decode8([]byte{0xFF, 0x00}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, color.Gray16{0xFFFF}, f.At(0, 0))
	assert.Equal(t, 2, f.Bounds().Dx())

	g := f.Gray8()
	assert.Equal(t, []uint8{0xFF, 0x00}, g.Pix)
}

func TestGray8Stretches16Bit(t *testing.T) {
	f, err := Decode16LE([]byte{0x00, 0x10, 0x00, 0x20}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255}, f.Gray8().Pix)

	flat, err := Decode16LE([]byte{0x00, 0x10, 0x00, 0x10}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0}, flat.Gray8().Pix)
}

func TestGray16KeepsCounts(t *testing.T) {
	f, err := Decode16LE([]byte{0x34, 0x12, 0x00, 0x20}, 2, 1)
	require.NoError(t, err)
	g := f.Gray16()
	assert.Equal(t, color.Gray16{0x1234}, g.Gray16At(0, 0))
	assert.Equal(t, color.Gray16{0x2000}, g.Gray16At(1, 0))
}

func TestSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x_0001.bin")
	require.NoError(t, os.WriteFile(path, []byte{9, 9}, 0644))

	fs := FileSource(path)
	b, err := fs.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, b)
	assert.Equal(t, "x_0001.bin", fs.Name())

	_, err = FileSource(filepath.Join(t.TempDir(), "missing.bin")).ReadFrame()
	assert.Error(t, err)

	bs := BytesSource{Label: "mem", Data: []byte{1}}
	b, err = bs.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, b)
}
