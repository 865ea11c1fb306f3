package output

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
)

// Result codes.
const (
	CodeOK       = 0
	CodeNotReady = -1 // the input set isn't complete yet; try again later
	CodeFailed   = -1000
)

type Artifact struct {
	Path     string                 `json:"path" yaml:"path"`
	Key      string                 `json:"key" yaml:"key"`
	Metadata map[string]interface{} `json:"metadata" yaml:"metadata"`
}

type Summary struct {
	Name           string `json:"name" yaml:"name"`
	Version        string `json:"version" yaml:"version"`
	UTCTimestamp   string `json:"utc_timestamp" yaml:"utc_timestamp"`
	ProcessingTime string `json:"processing_time" yaml:"processing_time"`
	FilesReceived  int    `json:"num_files_received" yaml:"num_files_received"`
	FilesProcessed int    `json:"files_processed" yaml:"files_processed"`
}

// A Descriptor is what a run reports back to whoever invoked it. A failed
// run never lists any files.
type Descriptor struct {
	Code    int        `json:"code" yaml:"code"`
	Error   string     `json:"error,omitempty" yaml:"error,omitempty"`
	Files   []Artifact `json:"file,omitempty" yaml:"file,omitempty"`
	Summary *Summary   `json:"summary,omitempty" yaml:"summary,omitempty"`
	RunID   string     `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

func (d Descriptor) OK() bool { return d.Code == CodeOK }

func (d Descriptor) String() string {
	if !d.OK() {
		return fmt.Sprintf("run %s: code %d, %s", d.RunID, d.Code, d.Error)
	}
	return fmt.Sprintf("run %s: ok, %d files", d.RunID, len(d.Files))
}

// WriteJSON writes the descriptor in the form the orchestration layer reads.
func (d Descriptor) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// NotReady is the descriptor for a run that shouldn't start yet.
func NotReady(msg string) Descriptor {
	return Descriptor{Code: CodeNotReady, Error: msg}
}

// A Composer gathers artifacts over a run. It hands payloads to a Writer and
// records what was written; it never touches files itself.
type Composer struct {
	Name    string
	Version string
	RunID   uuid.UUID

	FilesReceived  int
	FilesProcessed int

	w     Writer
	start time.Time
	files []Artifact
	now   func() time.Time
}

func NewComposer(name, version string, w Writer) *Composer {
	return &Composer{
		Name:    name,
		Version: version,
		RunID:   uuid.New(),
		w:       w,
		start:   time.Now(),
		now:     time.Now,
	}
}

func (c *Composer) Files() []Artifact { return c.files }

// AddFrame writes one decoded frame.
func (c *Composer) AddFrame(p FramePayload) error {
	if p.Frame == nil {
		return fmt.Errorf("frame payload has no frame")
	}
	return c.write(p.destinations(), func() error { return c.w.WriteFrame(p) })
}

func (c *Composer) AddRatio(p RatioPayload) error {
	if p.Ratio.Len() == 0 {
		return fmt.Errorf("ratio payload is empty")
	}
	if len(p.Histogram.Counts) == 0 {
		return fmt.Errorf("ratio payload has no histogram")
	}
	return c.write(p.destinations(), func() error { return c.w.WriteRatio(p) })
}

func (c *Composer) AddTemperature(p TemperaturePayload) error {
	if p.Temperature.Len() == 0 {
		return fmt.Errorf("temperature payload is empty")
	}
	return c.write(p.destinations(), func() error { return c.w.WriteTemperature(p) })
}

func (c *Composer) write(ds []Destination, do func() error) error {
	for _, d := range ds {
		if err := d.check(); err != nil {
			return err
		}
	}
	if err := do(); err != nil {
		return err
	}
	for _, d := range ds {
		log.Printf("Created: '%s'\n", d.Path)
		c.files = append(c.files, c.artifact(d))
	}
	return nil
}

func (c *Composer) artifact(d Destination) Artifact {
	return Artifact{
		Path: d.Path,
		Key:  d.Key,
		Metadata: map[string]interface{}{
			"data": map[string]interface{}{
				"name":    c.Name,
				"version": c.Version,
				"run_id":  c.RunID.String(),
			},
		},
	}
}

// Done reports a successful run.
func (c *Composer) Done() Descriptor {
	end := c.now()
	return Descriptor{
		Code:  CodeOK,
		Files: append([]Artifact{}, c.files...),
		Summary: &Summary{
			Name:           c.Name,
			Version:        c.Version,
			UTCTimestamp:   end.UTC().Format(time.RFC3339Nano),
			ProcessingTime: end.Sub(c.start).String(),
			FilesReceived:  c.FilesReceived,
			FilesProcessed: c.FilesProcessed,
		},
		RunID: c.RunID.String(),
	}
}

// Fail reports a failed run as "msg: err", and forgets every artifact
// gathered so far.
func (c *Composer) Fail(msg string, err error) Descriptor {
	c.files = nil
	return Descriptor{
		Code:  CodeFailed,
		Error: fmt.Sprintf("%s: %v", msg, err),
		RunID: c.RunID.String(),
	}
}
