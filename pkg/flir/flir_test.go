package flir

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/calib"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/rawframe"
)

func goldenParameters() calib.Parameters {
	return calib.Parameters{
		R: 287.57, B: 1465.9, F: 1.0, J0: 0, J1: 1,
		Alpha1: 0.0066, Alpha2: 0.0066, Beta1: -0.0023, Beta2: -0.0023, X: 0.5,
	}
}

func filledFrame(w, h int, v uint16) *rawframe.Frame {
	f := rawframe.NewFrame(w, h, 16)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

func TestConvertCalibrated(t *testing.T) {
	tm := Convert(filledFrame(8, 4, 500), calib.Parameters{Calibrated: true})
	assert.Equal(t, 8, tm.Dx())
	assert.Equal(t, 4, tm.Dy())
	assert.Equal(t, 0, tm.NoData)
	for _, v := range tm.Values() {
		require.Equal(t, 50.0, v)
	}
}

func TestConvertUncalibratedGolden(t *testing.T) {
	tm := Convert(filledFrame(6, 5, 3000), goldenParameters())
	require.Equal(t, 0, tm.NoData)

	first := tm.Values()[0]
	for _, v := range tm.Values() {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		require.Equal(t, first, v)
	}
	assert.InDelta(t, 15378.421014746613, first, 1e-6)
}

func TestConvertUncalibratedIsDeterministic(t *testing.T) {
	raw := rawframe.NewFrame(16, 16, 16)
	for i := range raw.Pix {
		raw.Pix[i] = uint16(i * 37)
	}
	a := Convert(raw, goldenParameters())
	b := Convert(raw, goldenParameters())
	assert.Equal(t, a.Values(), b.Values())
}

func TestConvertLowCounts(t *testing.T) {
	tm := Convert(filledFrame(2, 2, 0), goldenParameters())
	assert.Equal(t, 0, tm.NoData)
	assert.InDelta(t, -104.67617730290416, tm.Get(0, 0), 1e-6)
}

func TestConvertNoData(t *testing.T) {
	p := goldenParameters()
	p.J0 = 1e9 // corrected radiance can never exceed the offset
	tm := Convert(filledFrame(3, 3, 3000), p)
	assert.Equal(t, 9, tm.NoData)
	for _, v := range tm.Values() {
		assert.True(t, math.IsNaN(v))
	}
}

func TestConvertCustomEnvironment(t *testing.T) {
	env := DefaultEnvironment()
	env.T = 35
	a := Convert(filledFrame(1, 1, 3000), goldenParameters())
	b := ConvertWithEnvironment(filledFrame(1, 1, 3000), goldenParameters(), env)
	assert.NotEqual(t, a.Get(0, 0), b.Get(0, 0))
}

func TestLoadRaw(t *testing.T) {
	b := make([]byte, RawWidth*RawHeight*2)
	// Mark the top-right pixel of the raw buffer.
	binary.LittleEndian.PutUint16(b[2*(RawWidth-1):], 4242)

	f, err := LoadRaw(rawframe.BytesSource{Label: "ir.bin", Data: b})
	require.NoError(t, err)
	assert.Equal(t, RawHeight, f.Width)
	assert.Equal(t, RawWidth, f.Height)
	// A clockwise quarter turn moves the top-right corner to the bottom-right.
	assert.Equal(t, uint16(4242), f.CountAt(RawHeight-1, RawWidth-1))
}

func TestLoadRawBadSize(t *testing.T) {
	_, err := LoadRaw(rawframe.BytesSource{Label: "ir.bin", Data: make([]byte, 10)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, rawframe.ErrFrameDecode))
}

func TestSummarize(t *testing.T) {
	raw := rawframe.NewFrame(10, 10, 16)
	for i := range raw.Pix {
		raw.Pix[i] = uint16(200 + i) // 20.0 .. 29.9 °C
	}
	tm := Convert(raw, calib.Parameters{Calibrated: true})
	tm.Set(0, 0, math.NaN())

	s := Summarize(tm, DefaultEnvironment())
	assert.Equal(t, 99, s.Pixels)
	assert.Equal(t, 1, s.NoData)
	assert.InDelta(t, 20.1, s.Min, 1e-9)
	assert.InDelta(t, 29.9, s.Max, 1e-9)
	assert.InDelta(t, 25.0, s.P50, 0.2)
	assert.True(t, s.P5 < s.P50 && s.P50 < s.P95)
	assert.Contains(t, s.String(), "99 px")
}

func TestSummarizeAllNoData(t *testing.T) {
	p := goldenParameters()
	p.J0 = 1e9
	s := Summarize(Convert(filledFrame(2, 2, 1), p), DefaultEnvironment())
	assert.Equal(t, 0, s.Pixels)
	assert.Equal(t, 4, s.NoData)
	assert.True(t, math.IsNaN(s.Mean))
	assert.True(t, math.IsNaN(s.P50))
}
