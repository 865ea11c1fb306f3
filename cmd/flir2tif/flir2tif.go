package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/config"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/metadata"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/render"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/transformer"
)

var (
	fConfigFile    string
	fMetadataFiles string
	fWorkingFolder string
	fVerbosity     int
	fHDR           bool
	fPNG           bool
	fAmbientTemp   float64
	fDistance      float64
	fTonemapper    string
)

func init() {
	flag.StringVar(&fConfigFile, "config", "", "YAML config file")
	flag.StringVar(&fMetadataFiles, "metadata", "", "comma separated metadata files (.json or .yaml)")
	flag.StringVar(&fWorkingFolder, "working_space", "", "folder to write the outputs into")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.BoolVar(&fHDR, "hdr", true, "also write a radiance .hdr of the temperatures, in kelvin")
	flag.BoolVar(&fPNG, "png", true, "also write a pseudocolor .png")
	flag.Float64Var(&fAmbientTemp, "ambient", 0, "override the ambient temperature (°C) of the radiometric model")
	flag.Float64Var(&fDistance, "distance", 0, "override the camera to canopy distance (m) of the radiometric model")
	flag.StringVar(&fTonemapper, "tonemapper", "", "also write a tonemapped preview: "+fmt.Sprintf("%v", render.Tonemappers))
	flag.Parse()

	log.Printf("flir2tif starting\n")
}

func main() {
	cfg := config.NewConfig()
	if fConfigFile != "" {
		var err error
		if cfg, err = config.LoadConfig(fConfigFile); err != nil {
			log.Fatal(err)
		}
	}

	if fWorkingFolder != "" {
		cfg.WorkingFolder = fWorkingFolder
	}
	if fVerbosity > 0 {
		cfg.Verbosity = fVerbosity
	}
	if fAmbientTemp != 0 {
		cfg.Environment.T = fAmbientTemp
	}
	if fDistance > 0 {
		cfg.Environment.D = fDistance
	}
	if fTonemapper != "" {
		cfg.Tonemapper = fTonemapper
	}
	cfg.WriteHDR = cfg.WriteHDR && fHDR
	cfg.WritePNG = cfg.WritePNG && fPNG

	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	files, err := transformer.FileList(flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	mds := []metadata.Metadata{}
	if fMetadataFiles != "" {
		if mds, err = metadata.LoadAll(strings.Split(fMetadataFiles, ",")...); err != nil {
			log.Fatal(err)
		}
	}

	d := transformer.FLIR(transformer.Request{Files: files, Metadata: mds, Config: cfg})
	log.Printf("%s\n", d)
	if err := d.WriteJSON(os.Stdout); err != nil {
		log.Fatal(err)
	}
	if !d.OK() {
		os.Exit(1)
	}
}
