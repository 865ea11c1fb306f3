package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/config"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/metadata"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/output"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/transformer"
)

var (
	fConfigFile    string
	fMetadataFiles string
	fWorkingFolder string
	fResultFile    string
	fVerbosity     int
	fCheckOnly     bool
	fHistogram     bool
	fDebugGrids    bool
)

func init() {
	flag.StringVar(&fConfigFile, "config", "", "YAML config file")
	flag.StringVar(&fMetadataFiles, "metadata", "", "comma separated metadata files (.json or .yaml)")
	flag.StringVar(&fWorkingFolder, "working_space", "", "folder to write the outputs into")
	flag.StringVar(&fResultFile, "result", "", "write the result JSON here, rather than stdout")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.BoolVar(&fCheckOnly, "check", false, "only check that every sensor file is present")
	flag.BoolVar(&fHistogram, "histogram", true, "plot the Fv/Fm histogram")
	flag.BoolVar(&fDebugGrids, "debuggrids", false, "also dump the raw Fv/Fm grid as grayscale")
	flag.Usage = func() {
		log.Printf("usage: psii2png [flags] <folder | file...>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Printf("psii2png starting\n")
}

func main() {
	cfg := config.NewConfig()
	if fConfigFile != "" {
		var err error
		if cfg, err = config.LoadConfig(fConfigFile); err != nil {
			log.Fatal(err)
		}
	}

	// Override the config file with command line args, if relevant
	if fWorkingFolder != "" {
		cfg.WorkingFolder = fWorkingFolder
	}
	if fVerbosity > 0 {
		cfg.Verbosity = fVerbosity
	}
	cfg.WriteHistogram = cfg.WriteHistogram && fHistogram
	cfg.DebugGrids = cfg.DebugGrids || fDebugGrids

	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	files, err := transformer.FileList(flag.Args())
	if err != nil {
		log.Fatal(err)
	}

	if d := transformer.CheckContinue(files); !d.OK() || fCheckOnly {
		writeResult(d)
		return
	}

	mds := []metadata.Metadata{}
	if fMetadataFiles != "" {
		if mds, err = metadata.LoadAll(strings.Split(fMetadataFiles, ",")...); err != nil {
			log.Fatal(err)
		}
	}

	d := transformer.PSII(transformer.Request{Files: files, Metadata: mds, Config: cfg})
	log.Printf("%s\n", d)
	writeResult(d)
}

func writeResult(d output.Descriptor) {
	w := os.Stdout
	if fResultFile != "" {
		f, err := os.Create(fResultFile)
		if err != nil {
			log.Fatalf("open+w '%s': %v", fResultFile, err)
		}
		defer f.Close()
		w = f
	}
	if err := d.WriteJSON(w); err != nil {
		log.Fatal(err)
	}
}
