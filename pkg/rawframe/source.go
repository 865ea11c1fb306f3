package rawframe

import (
	"fmt"
	"os"
	"path/filepath"
)

// A Source is something a frame buffer can be read from. The file-discovery
// side of the pipeline hands the loaders an ordered list of these.
type Source interface {
	ReadFrame() ([]byte, error)
	Name() string
}

// FileSource reads a whole file from disk.
type FileSource string

func (fs FileSource) Name() string { return filepath.Base(string(fs)) }

func (fs FileSource) ReadFrame() ([]byte, error) {
	b, err := os.ReadFile(string(fs))
	if err != nil {
		return nil, fmt.Errorf("read '%s': %w", string(fs), err)
	}
	return b, nil
}

// BytesSource is an in-memory buffer.
type BytesSource struct {
	Label string
	Data  []byte
}

func (bs BytesSource) Name() string               { return bs.Label }
func (bs BytesSource) ReadFrame() ([]byte, error) { return bs.Data, nil }
