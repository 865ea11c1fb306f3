// Package transformer runs the PSII and FLIR conversions over a set of files
// on disk, and reports the outcome as an output.Descriptor.
package transformer

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/output"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/psii"
)

const NotReadyMessage = "Not all the necessary sensor files were found"

// FileList expands the command line: a single directory argument becomes
// the files inside it, anything else is taken as given.
func FileList(args []string) ([]string, error) {
	if len(args) != 1 {
		return args, nil
	}

	item, err := os.Stat(args[0])
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", args[0], err)
	} else if !item.IsDir() {
		return args, nil
	}

	contents, err := os.ReadDir(args[0])
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", args[0], err)
	}
	files := []string{}
	for _, content := range contents {
		files = append(files, filepath.Join(args[0], content.Name()))
	}
	return files, nil
}

// FrameEnding is the file name suffix for a PSII slot, e.g. "0047.bin".
func FrameEnding(i int) string { return fmt.Sprintf("%04d.bin", i) }

// FrameIndex returns the PSII slot a file belongs to, if its name ends in
// one of the 0000.bin .. 0101.bin endings.
func FrameIndex(filename string) (int, bool) {
	if len(filename) < 8 || !strings.HasSuffix(filename, ".bin") {
		return 0, false
	}
	digits := filename[len(filename)-8 : len(filename)-4]
	if strings.Trim(digits, "0123456789") != "" {
		return 0, false
	}
	i, err := strconv.Atoi(digits)
	if err != nil || i >= psii.SequenceLength {
		return 0, false
	}
	return i, true
}

// CheckContinue says whether every one of the 102 PSII endings is present.
// Directories in the list are ignored.
func CheckContinue(files []string) output.Descriptor {
	seen := map[int]bool{}
	for _, f := range files {
		if item, err := os.Stat(f); err == nil && item.IsDir() {
			log.Printf("Skipping folder '%s' found amongst file list\n", f)
			continue
		}
		if i, ok := FrameIndex(f); ok {
			seen[i] = true
		}
	}

	missing := []string{}
	for i := 0; i < psii.SequenceLength; i++ {
		if !seen[i] {
			missing = append(missing, FrameEnding(i))
		}
	}
	if len(missing) > 0 {
		log.Printf("The following sensor file endings are missing: %v\n", missing)
		return output.NotReady(NotReadyMessage)
	}
	return output.Descriptor{Code: output.CodeOK}
}

// outputName maps an input file onto the working folder with a new extension.
func outputName(folder, input, ext string) string {
	base := filepath.Base(input)
	return filepath.Join(folder, strings.TrimSuffix(base, filepath.Ext(base))+ext)
}
