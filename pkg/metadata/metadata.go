// Package metadata reads the cleaned TERRA-REF metadata records that travel
// with each capture session.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	DefaultPSIIWidth  = 1936
	DefaultPSIIHeight = 1216
)

var ErrNoTerraMetadata = errors.New("unable to find TERRA REF specific metadata")

// Metadata is one metadata record. Only the sections the converters need are
// decoded; everything else in the record is ignored.
type Metadata struct {
	// Presence of this key marks a cleaned TERRA-REF record.
	TerrarefCleaned interface{} `json:"terraref_cleaned_metadata" yaml:"terraref_cleaned_metadata"`

	SensorFixed map[string]interface{}     `json:"sensor_fixed_metadata" yaml:"sensor_fixed_metadata"`
	Spatial     map[string]SpatialMetadata `json:"spatial_metadata" yaml:"spatial_metadata"`
}

type SpatialMetadata struct {
	BoundingBox Polygon `json:"bounding_box" yaml:"bounding_box"`
}

// Polygon is a GeoJSON polygon; coordinates are [lon, lat] pairs.
type Polygon struct {
	Type        string        `json:"type" yaml:"type"`
	Coordinates [][][]float64 `json:"coordinates" yaml:"coordinates"`
}

func (md *Metadata) IsTerra() bool { return md != nil && md.TerrarefCleaned != nil }

// Load reads a record from a .json, .yaml or .yml file.
func Load(filename string) (Metadata, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Metadata{}, fmt.Errorf("metadata read '%s': %w", filename, err)
	}

	md, err := Parse(contents, strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."))
	if err != nil {
		return md, fmt.Errorf("metadata parse '%s': %w", filename, err)
	}
	return md, nil
}

// LoadAll reads each file in turn, stopping at the first failure.
func LoadAll(filenames ...string) ([]Metadata, error) {
	all := []Metadata{}
	for _, f := range filenames {
		md, err := Load(f)
		if err != nil {
			return nil, err
		}
		all = append(all, md)
	}
	return all, nil
}

// Parse decodes a record; format is "json", "yaml" or "yml".
func Parse(b []byte, format string) (Metadata, error) {
	md := Metadata{}

	switch format {
	case "json":
		if err := json.Unmarshal(b, &md); err != nil {
			return md, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(b, &md); err != nil {
			return md, err
		}
	default:
		return md, fmt.Errorf("unknown metadata format '%s'", format)
	}

	return md, nil
}

// FindTerra returns the first cleaned TERRA-REF record in the list.
func FindTerra(all []Metadata) (*Metadata, error) {
	for i := range all {
		if all[i].IsTerra() {
			return &all[i], nil
		}
	}
	return nil, ErrNoTerraMetadata
}

// Fixed returns a sensor_fixed_metadata value rendered as a string, and
// whether it was present at all.
func (md *Metadata) Fixed(key string) (string, bool) {
	if md == nil || md.SensorFixed == nil {
		return "", false
	}
	v, ok := md.SensorFixed[key]
	if !ok || v == nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	default:
		return fmt.Sprint(val), true
	}
}

// CameraResolution returns the PSII frame (width, height), from
// camera_resolution ("WxH") when the record has fixed metadata, or the
// instrument default otherwise.
func (md *Metadata) CameraResolution() (int, int, error) {
	if md == nil || md.SensorFixed == nil {
		return DefaultPSIIWidth, DefaultPSIIHeight, nil
	}

	dims, ok := md.Fixed("camera_resolution")
	if !ok {
		return DefaultPSIIWidth, DefaultPSIIHeight, nil
	}

	parts := strings.Split(strings.ToLower(strings.TrimSpace(dims)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("camera_resolution '%s': want WxH", dims)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("camera_resolution '%s': %w", dims, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("camera_resolution '%s': %w", dims, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("camera_resolution '%s': dimensions must be positive", dims)
	}
	return w, h, nil
}
