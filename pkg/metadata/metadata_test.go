package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const terraJSON = `{
  "terraref_cleaned_metadata": true,
  "sensor_fixed_metadata": {
    "camera_resolution": "640x480",
    "is_calibrated": "False",
    "calibration_R": "287.57",
    "calibration_B": 1465.9
  },
  "spatial_metadata": {
    "ps2Top": {
      "bounding_box": {
        "type": "Polygon",
        "coordinates": [[[-111.9751, 33.0745], [-111.9749, 33.0745], [-111.9749, 33.0747], [-111.9751, 33.0747]]]
      }
    }
  }
}`

const terraYAML = `
terraref_cleaned_metadata: true
sensor_fixed_metadata:
  camera_resolution: 1936x1216
  is_calibrated: "True"
spatial_metadata:
  flirIrCamera:
    bounding_box:
      type: Polygon
      coordinates:
        - [[-111.0, 33.0], [-110.0, 34.0]]
`

func TestParseJSON(t *testing.T) {
	md, err := Parse([]byte(terraJSON), "json")
	require.NoError(t, err)
	assert.True(t, md.IsTerra())

	w, h, err := md.CameraResolution()
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	r, ok := md.Fixed("calibration_R")
	assert.True(t, ok)
	assert.Equal(t, "287.57", r)

	b, ok := md.Fixed("calibration_B")
	assert.True(t, ok)
	assert.Equal(t, "1465.9", b)

	_, ok = md.Fixed("calibration_F")
	assert.False(t, ok)
}

func TestParseYAML(t *testing.T) {
	md, err := Parse([]byte(terraYAML), "yaml")
	require.NoError(t, err)
	assert.True(t, md.IsTerra())

	v, ok := md.Fixed("is_calibrated")
	assert.True(t, ok)
	assert.Equal(t, "True", v)

	rect, err := md.Bounds("flirIrCamera")
	require.NoError(t, err)
	assert.InDelta(t, 33.0, rect.Lo().Lat.Degrees(), 1e-9)
	assert.InDelta(t, 34.0, rect.Hi().Lat.Degrees(), 1e-9)
	assert.InDelta(t, -111.0, rect.Lo().Lng.Degrees(), 1e-9)
	assert.InDelta(t, -110.0, rect.Hi().Lng.Degrees(), 1e-9)
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse([]byte("x"), "xml")
	assert.Error(t, err)
}

func TestCameraResolutionDefaults(t *testing.T) {
	md := Metadata{}
	w, h, err := md.CameraResolution()
	require.NoError(t, err)
	assert.Equal(t, DefaultPSIIWidth, w)
	assert.Equal(t, DefaultPSIIHeight, h)

	md.SensorFixed = map[string]interface{}{"camera_resolution": "wide"}
	_, _, err = md.CameraResolution()
	assert.Error(t, err)

	md.SensorFixed = map[string]interface{}{"camera_resolution": "0x10"}
	_, _, err = md.CameraResolution()
	assert.Error(t, err)
}

func TestFindTerra(t *testing.T) {
	_, err := FindTerra([]Metadata{{}, {}})
	assert.ErrorIs(t, err, ErrNoTerraMetadata)

	all := []Metadata{{}, {TerrarefCleaned: true, SensorFixed: map[string]interface{}{"a": "b"}}}
	md, err := FindTerra(all)
	require.NoError(t, err)
	v, _ := md.Fixed("a")
	assert.Equal(t, "b", v)
}

func TestBoundsErrors(t *testing.T) {
	md, err := Parse([]byte(terraJSON), "json")
	require.NoError(t, err)

	_, err = md.Bounds("flirIrCamera")
	assert.Error(t, err)

	rect, err := md.Bounds("ps2Top")
	require.NoError(t, err)
	assert.Contains(t, BoundsString(rect), "33.07450000")

	_, err = Polygon{Coordinates: [][][]float64{{{1}}}}.Rect()
	assert.Error(t, err)

	_, err = Polygon{}.Rect()
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(path, []byte(terraJSON), 0644))

	md, err := Load(path)
	require.NoError(t, err)
	assert.True(t, md.IsTerra())

	_, err = Load(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	j := filepath.Join(dir, "a.json")
	y := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(j, []byte(`{"sensor_fixed_metadata": {}}`), 0644))
	require.NoError(t, os.WriteFile(y, []byte(terraYAML), 0644))

	all, err := LoadAll(j, y)
	require.NoError(t, err)
	require.Len(t, all, 2)

	terra, err := FindTerra(all)
	require.NoError(t, err)
	assert.Same(t, &all[1], terra)

	_, err = LoadAll(j, filepath.Join(dir, "c.txt"))
	assert.Error(t, err)
}
