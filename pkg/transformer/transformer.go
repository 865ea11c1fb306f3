package transformer

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/calib"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/config"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/flir"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/metadata"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/output"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/psii"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/rawframe"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/render"
)

const (
	Version = "2.0"

	PSIIName   = "terra.multispectral.psii2png"
	PSIISensor = "ps2Top"

	FLIRName   = "terra.multispectral.flir2tif"
	FLIRSensor = "flirIrCamera"
)

// A Request is one conversion run: the input files, the metadata records
// that came with them, and where and how to write the results.
type Request struct {
	Files    []string
	Metadata []metadata.Metadata
	Config   config.Config

	Writer output.Writer // nil means a render.Renderer built from Config
}

func (req Request) writer() output.Writer {
	if req.Writer != nil {
		return req.Writer
	}
	r := render.NewRenderer(req.Config.Environment.K0)
	r.Verbosity = req.Config.Verbosity
	r.DebugGrids = req.Config.DebugGrids
	r.Tonemapper = req.Config.Tonemapper
	return r
}

func (req Request) dest(input, ext, key string) output.Destination {
	return output.Destination{Path: outputName(req.Config.WorkingFolder, input, ext), Key: key}
}

// PSII converts every frame of a capture to PNG and TIFF, then derives the
// Fv/Fm pseudocolor and histogram. Any failure, including an incomplete
// capture, fails the whole run.
func PSII(req Request) output.Descriptor {
	c := output.NewComposer(PSIIName, Version, req.writer())
	c.FilesReceived = len(req.Files)
	if err := psiiRun(req, c); err != nil {
		log.Printf("PSII run %s failed: %v\n", c.RunID, err)
		return c.Fail("Exception caught converting PSII files", err)
	}
	return c.Done()
}

func psiiRun(req Request, c *output.Composer) error {
	cfg := req.Config
	terra, err := metadata.FindTerra(req.Metadata)
	if err != nil {
		return err
	}

	w, h := cfg.PSIIWidth, cfg.PSIIHeight
	if _, ok := terra.Fixed("camera_resolution"); ok {
		if w, h, err = terra.CameraResolution(); err != nil {
			return err
		}
	}
	bounds, err := terra.Bounds(PSIISensor)
	if err != nil {
		return err
	}
	cfg.Debugf("Image width and height: %d %d\n", w, h)
	cfg.Debugf("Image geo bounds: %s\n", metadata.BoundsString(bounds))

	sources := make([]rawframe.Source, psii.SequenceLength)
	inputs := make([]string, psii.SequenceLength)
	for _, f := range req.Files {
		i, ok := FrameIndex(f)
		if !ok {
			log.Printf("Skipping non-sensor file '%s'\n", f)
			continue
		}
		c.FilesProcessed++
		sources[i] = rawframe.FileSource(f)
		inputs[i] = f
	}
	if c.FilesProcessed == 0 {
		log.Printf("No files were processed\n")
		return nil
	}

	seq, err := psii.Load(sources, w, h)
	if err != nil {
		return err
	}

	for i := 0; i < psii.RequiredFrames; i++ {
		p := output.FramePayload{Frame: seq.Frame(i)}
		if cfg.WritePNG {
			p.PNG = req.dest(inputs[i], ".png", PSIISensor)
		}
		if cfg.WriteTIFF {
			p.TIFF = req.dest(inputs[i], ".tif", PSIISensor)
		}
		if err := c.AddFrame(p); err != nil {
			return fmt.Errorf("frame %04d: %w", i, err)
		}
	}

	log.Printf("Generating aggregates\n")
	res, err := psii.Analyze(seq)
	if err != nil {
		return err
	}
	log.Printf("%s\n", res)

	p := output.RatioPayload{
		Image:     output.Destination{Path: filepath.Join(cfg.WorkingFolder, "combined_pseudocolored.png"), Key: PSIISensor},
		Ratio:     res.Ratio,
		Histogram: res.Histogram,
	}
	if cfg.WriteHistogram {
		p.Chart = output.Destination{Path: filepath.Join(cfg.WorkingFolder, "combined_hist.png"), Key: PSIISensor}
	}
	return c.AddRatio(p)
}

// FLIR converts the capture's raw thermal frame to temperature, and writes it
// out in whichever formats the config asks for.
func FLIR(req Request) output.Descriptor {
	c := output.NewComposer(FLIRName, Version, req.writer())
	c.FilesReceived = len(req.Files)
	if err := flirRun(req, c); err != nil {
		log.Printf("FLIR run %s failed: %v\n", c.RunID, err)
		return c.Fail("Exception caught converting FLIR files", err)
	}
	return c.Done()
}

func flirRun(req Request, c *output.Composer) error {
	cfg := req.Config
	terra, err := metadata.FindTerra(req.Metadata)
	if err != nil {
		return err
	}
	params, err := calib.Resolve(terra)
	if err != nil {
		return err
	}
	bounds, err := terra.Bounds(FLIRSensor)
	if err != nil {
		return err
	}
	cfg.Debugf("Calibration: %s\n", params)
	cfg.Debugf("Image geo bounds: %s\n", metadata.BoundsString(bounds))

	input, err := findRawIR(req.Files)
	if err != nil {
		return err
	}
	raw, err := flir.LoadRaw(rawframe.FileSource(input))
	if err != nil {
		return err
	}
	c.FilesProcessed++

	tm := flir.ConvertWithEnvironment(raw, params, cfg.Environment)
	summary := flir.Summarize(tm, cfg.Environment)
	log.Printf("%s: %s\n", filepath.Base(input), summary)

	p := output.TemperaturePayload{Temperature: tm, Summary: summary}
	if cfg.WriteTIFF {
		p.TIFF = req.dest(input, ".tif", FLIRSensor)
	}
	if cfg.WriteHDR {
		p.HDR = req.dest(input, ".hdr", FLIRSensor)
	}
	if cfg.WritePNG {
		p.Image = req.dest(input, ".png", FLIRSensor)
	}
	if cfg.Tonemapper != "" {
		p.Tonemapped = req.dest(input, "-"+cfg.Tonemapper+".png", FLIRSensor)
	}
	return c.AddTemperature(p)
}

// findRawIR picks the raw thermal frame: the first file ending in _ir.bin,
// or failing that the only .bin file.
func findRawIR(files []string) (string, error) {
	bins := []string{}
	for _, f := range files {
		if strings.HasSuffix(f, "_ir.bin") {
			return f, nil
		}
		if strings.HasSuffix(f, ".bin") {
			bins = append(bins, f)
		}
	}
	if len(bins) == 1 {
		return bins[0], nil
	}
	return "", fmt.Errorf("no FLIR raw file found amongst %d files", len(files))
}
