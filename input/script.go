package input

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Segment holds a set of actions for a number of frames.
type Segment struct {
	Frames int      `yaml:"frames"`
	Hold   []Action `yaml:"hold"`
}

// Script is a recorded input sequence replayed at a fixed frame time.
type Script struct {
	DT       float64   `yaml:"dt"`
	Segments []Segment `yaml:"segments"`
}

// DefaultScriptDT is used when a script does not set dt.
const DefaultScriptDT = 1.0 / 60.0

// ParseScript decodes a YAML input script.
func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing input script: %w", err)
	}
	if s.DT <= 0 {
		s.DT = DefaultScriptDT
	}
	for i, seg := range s.Segments {
		if seg.Frames < 0 {
			return nil, fmt.Errorf("segment %d: negative frame count %d", i, seg.Frames)
		}
	}
	return s, nil
}

// LoadScript reads and decodes a YAML input script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input script: %w", err)
	}
	return ParseScript(data)
}

// Len returns the total number of frames.
func (s *Script) Len() int {
	n := 0
	for _, seg := range s.Segments {
		n += seg.Frames
	}
	return n
}

// Snapshots expands the script into one snapshot per frame.
func (s *Script) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, s.Len())
	for _, seg := range s.Segments {
		snap := Hold(seg.Hold...)
		for i := 0; i < seg.Frames; i++ {
			out = append(out, snap)
		}
	}
	return out
}
