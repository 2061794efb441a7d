// Package filesink writes acquisition runs to an output directory:
// run_header.json, frames/NNNNNN.png and meta.jsonl.
package filesink

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/user/framelog/pkg/ports"
)

// Sink saves a dataset to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
	meta     ports.AppendFile
}

// New creates a new Sink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// Open creates frames/ and opens meta.jsonl for appending.
func (s *Sink) Open() error {
	if s.meta != nil {
		return errors.New("filesink: already open")
	}
	framesDir := filepath.Join(s.baseDir, ports.FramesDir)
	if err := s.fs.MkdirAll(framesDir); err != nil {
		return fmt.Errorf("%w: create %s: %w", ports.ErrOutputUnwritable, framesDir, err)
	}
	metaPath := filepath.Join(s.baseDir, ports.MetadataFile)
	meta, err := s.fs.OpenAppend(metaPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ports.ErrOutputUnwritable, metaPath, err)
	}
	s.meta = meta
	return nil
}

// WriteHeader writes run_header.json with two-space indentation.
func (s *Sink) WriteHeader(header ports.RunHeader) error {
	data, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run header: %w", err)
	}
	p := filepath.Join(s.baseDir, ports.HeaderFile)
	if err := s.fs.WriteFile(p, data); err != nil {
		return fmt.Errorf("%w: write %s: %w", ports.ErrOutputUnwritable, p, err)
	}
	return nil
}

// SaveFrame converts the frame to RGB, encodes it as PNG and writes it.
// An existing file with the same sequence number is overwritten.
func (s *Sink) SaveFrame(seq int, frame ports.Frame) (string, error) {
	img, err := s.renderer.FrameToImage(frame)
	if err != nil {
		return "", fmt.Errorf("convert frame %d: %w", seq, err)
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return "", fmt.Errorf("encode frame %d: %w", seq, err)
	}

	name := ports.FrameFileName(seq)
	if err := s.fs.WriteFile(filepath.Join(s.baseDir, ports.FramesDir, name), data); err != nil {
		return "", fmt.Errorf("write frame %d: %w", seq, err)
	}
	// Record paths use forward slashes on every platform.
	return path.Join(ports.FramesDir, name), nil
}

// AppendRecord writes one JSON line and syncs the log.
func (s *Sink) AppendRecord(record ports.MetadataRecord) error {
	if s.meta == nil {
		return errors.New("filesink: metadata log not open")
	}
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record %d: %w", record.Index, err)
	}
	line = append(line, '\n')
	if _, err := s.meta.Write(line); err != nil {
		return fmt.Errorf("append record %d: %w", record.Index, err)
	}
	if err := s.meta.Sync(); err != nil {
		return fmt.Errorf("sync metadata log: %w", err)
	}
	return nil
}

// Close closes the metadata log. Calling Close on a closed sink is a no-op.
func (s *Sink) Close() error {
	if s.meta == nil {
		return nil
	}
	err := s.meta.Close()
	s.meta = nil
	return err
}

// Existing describes a dataset already present in an output directory.
type Existing struct {
	// MetadataLines is the number of lines in meta.jsonl.
	MetadataLines int

	// FrameFiles is the number of NNNNNN.png files in frames/.
	FrameFiles int

	// NextSequence is one past the highest frame sequence number found.
	NextSequence int
}

// Empty reports whether no dataset is present.
func (e Existing) Empty() bool {
	return e.MetadataLines == 0 && e.FrameFiles == 0
}

// Inspect reports what an earlier run left in baseDir.
func Inspect(fs ports.FileSystem, baseDir string) (Existing, error) {
	var ex Existing

	metaPath := filepath.Join(baseDir, ports.MetadataFile)
	if ok, err := fs.Exists(metaPath); err != nil {
		return ex, err
	} else if ok {
		data, err := fs.ReadFile(metaPath)
		if err != nil {
			return ex, err
		}
		ex.MetadataLines = countLines(data)
	}

	framesDir := filepath.Join(baseDir, ports.FramesDir)
	if ok, err := fs.Exists(framesDir); err != nil {
		return ex, err
	} else if ok {
		names, err := fs.ReadDir(framesDir)
		if err != nil {
			return ex, err
		}
		for _, name := range names {
			seq, ok := ports.ParseFrameFileName(name)
			if !ok {
				continue
			}
			ex.FrameFiles++
			if seq+1 > ex.NextSequence {
				ex.NextSequence = seq + 1
			}
		}
	}

	return ex, nil
}

func countLines(data []byte) int {
	n := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// Ensure Sink implements ports.DatasetSink
var _ ports.DatasetSink = (*Sink)(nil)
