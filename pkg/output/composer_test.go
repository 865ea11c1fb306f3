package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/emath"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/flir"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/psii"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/rawframe"
)

type fakeWriter struct {
	ratios, temps, frames int
	err                   error
}

func (fw *fakeWriter) WriteRatio(RatioPayload) error             { fw.ratios++; return fw.err }
func (fw *fakeWriter) WriteTemperature(TemperaturePayload) error { fw.temps++; return fw.err }
func (fw *fakeWriter) WriteFrame(FramePayload) error             { fw.frames++; return fw.err }

func ratioPayload() RatioPayload {
	r := psii.RatioMap{FloatGrid: emath.NewFloatGrid(2, 2)}
	return RatioPayload{
		Image:     Destination{Path: "out/combined_pseudocolored.png", Key: "ps2Top"},
		Chart:     Destination{Path: "out/combined_hist.png", Key: "ps2Top"},
		Ratio:     r,
		Histogram: psii.NewHistogram(r.Values(), psii.HistogramBins),
	}
}

func fixedClock(c *Composer) {
	t0 := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c.start = t0
	c.now = func() time.Time { return t0.Add(1500 * time.Millisecond) }
}

func TestComposerDone(t *testing.T) {
	fw := &fakeWriter{}
	c := NewComposer("psii2png", "2.0", fw)
	fixedClock(c)
	c.FilesReceived = 103

	require.NoError(t, c.AddFrame(FramePayload{
		PNG:   Destination{Path: "out/0000.png", Key: "ps2Top"},
		TIFF:  Destination{Path: "out/0000.tif", Key: "ps2Top"},
		Frame: rawframe.NewFrame(2, 2, 8),
	}))
	c.FilesProcessed++
	require.NoError(t, c.AddRatio(ratioPayload()))

	d := c.Done()
	assert.True(t, d.OK())
	assert.Equal(t, 1, fw.frames)
	assert.Equal(t, 1, fw.ratios)

	paths := []string{}
	for _, f := range d.Files {
		paths = append(paths, f.Path)
		assert.Equal(t, "ps2Top", f.Key)
		assert.Equal(t, "2.0", f.Metadata["data"].(map[string]interface{})["version"])
	}
	want := []string{"out/0000.png", "out/0000.tif", "out/combined_hist.png", "out/combined_pseudocolored.png"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	assert.Equal(t, &Summary{
		Name:           "psii2png",
		Version:        "2.0",
		UTCTimestamp:   "2026-05-01T12:00:01.5Z",
		ProcessingTime: "1.5s",
		FilesReceived:  103,
		FilesProcessed: 1,
	}, d.Summary)

	_, err := uuid.Parse(d.RunID)
	assert.NoError(t, err)
}

func TestComposerTemperatureSkipsEmptyDestinations(t *testing.T) {
	c := NewComposer("flir2tif", "2.0", &fakeWriter{})
	tm := flir.TemperatureMap{FloatGrid: emath.NewFloatGrid(3, 3)}
	require.NoError(t, c.AddTemperature(TemperaturePayload{
		TIFF:        Destination{Path: "out/ir.tif", Key: "flirIrCamera"},
		Temperature: tm,
	}))
	require.Len(t, c.Files(), 1)
	assert.Equal(t, "out/ir.tif", c.Files()[0].Path)
}

func TestComposerWriterErrorRecordsNothing(t *testing.T) {
	c := NewComposer("psii2png", "2.0", &fakeWriter{err: errors.New("disk full")})
	err := c.AddRatio(ratioPayload())
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, c.Files())
}

func TestComposerRejectsBadPayloads(t *testing.T) {
	fw := &fakeWriter{}
	c := NewComposer("psii2png", "2.0", fw)

	p := ratioPayload()
	p.Image.Path = ""
	assert.ErrorContains(t, c.AddRatio(p), "no path")

	assert.Error(t, c.AddRatio(RatioPayload{}))
	assert.Error(t, c.AddTemperature(TemperaturePayload{}))
	assert.Error(t, c.AddFrame(FramePayload{}))
	assert.Equal(t, 0, fw.ratios+fw.temps+fw.frames)
}

func TestComposerFailDropsArtifacts(t *testing.T) {
	c := NewComposer("psii2png", "2.0", &fakeWriter{})
	require.NoError(t, c.AddRatio(ratioPayload()))
	require.NotEmpty(t, c.Files())

	d := c.Fail("Exception caught converting PSII files", psii.ErrIncompleteFrameSet)
	assert.Equal(t, CodeFailed, d.Code)
	assert.Equal(t, "Exception caught converting PSII files: incomplete frame set", d.Error)
	assert.Empty(t, d.Files)
	assert.Nil(t, d.Summary)
	assert.Empty(t, c.Files())
	assert.False(t, d.OK())
}

func TestNotReady(t *testing.T) {
	d := NotReady("Not all the necessary sensor files were found")
	assert.Equal(t, CodeNotReady, d.Code)
	assert.Contains(t, d.String(), "code -1")
}

func TestDescriptorWriteJSON(t *testing.T) {
	c := NewComposer("psii2png", "2.0", &fakeWriter{})
	d := c.Fail("Exception caught converting PSII files", errors.New("boom"))

	buf := bytes.Buffer{}
	require.NoError(t, d.WriteJSON(&buf))

	got := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(CodeFailed), got["code"])
	assert.Equal(t, "Exception caught converting PSII files: boom", got["error"])
	assert.NotContains(t, got, "file")
	assert.NotContains(t, got, "summary")
}
