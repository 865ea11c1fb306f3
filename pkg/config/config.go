// Package config holds the knobs shared by the converters and their binaries.
package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/flir"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/metadata"
)

type Config struct {
	Verbosity     int    `yaml:"verbosity"`
	WorkingFolder string `yaml:"working_folder"` // where outputs are written

	// Used when the metadata has no camera_resolution
	PSIIWidth  int `yaml:"psii_width"`
	PSIIHeight int `yaml:"psii_height"`

	Environment flir.Environment `yaml:"environment"` // FLIR radiometric model assumptions

	WritePNG       bool `yaml:"write_png"`
	WriteTIFF      bool `yaml:"write_tiff"`
	WriteHDR       bool `yaml:"write_hdr"`
	WriteHistogram bool `yaml:"write_histogram"`
	DebugGrids     bool `yaml:"debug_grids"` // dump titled grayscale grids alongside the outputs

	Tonemapper string `yaml:"tonemapper"` // FLIR only; empty means no tonemapped preview
}

func NewConfig() Config {
	return Config{
		WorkingFolder:  ".",
		PSIIWidth:      metadata.DefaultPSIIWidth,
		PSIIHeight:     metadata.DefaultPSIIHeight,
		Environment:    flir.DefaultEnvironment(),
		WritePNG:       true,
		WriteTIFF:      true,
		WriteHDR:       true,
		WriteHistogram: true,
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

// LoadConfig reads a YAML file; anything it leaves out keeps its default.
func LoadConfig(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read '%s': %w", filename, err)
	}
	c, err := newConfigFromYaml(contents)
	if err != nil {
		return Config{}, fmt.Errorf("config parse '%s': %w", filename, err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.PSIIWidth <= 0 || c.PSIIHeight <= 0 {
		return fmt.Errorf("config: bad psii resolution %dx%d", c.PSIIWidth, c.PSIIHeight)
	}
	if c.WorkingFolder == "" {
		return fmt.Errorf("config: no working_folder")
	}
	return nil
}

func (c Config) AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// Debugf logs only when Verbosity is above zero.
func (c Config) Debugf(format string, args ...interface{}) {
	if c.Verbosity > 0 {
		log.Printf(format, args...)
	}
}
