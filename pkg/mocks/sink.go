package mocks

import (
	"fmt"
	"sync"

	"github.com/user/framelog/pkg/ports"
)

// DatasetSink is a mock implementation of ports.DatasetSink that keeps
// everything in memory.
type DatasetSink struct {
	mu sync.RWMutex

	OpenFunc         func() error
	SaveFrameFunc    func(seq int, frame ports.Frame) (string, error)
	AppendRecordFunc func(record ports.MetadataRecord) error

	Opened  bool
	Closed  bool
	Headers []ports.RunHeader
	Frames  map[int]ports.Frame
	Records []ports.MetadataRecord

	// Events lists calls in order ("open", "header", "frame", "record", "close").
	Events []string
}

// NewDatasetSink creates a new mock DatasetSink.
func NewDatasetSink() *DatasetSink {
	return &DatasetSink{
		Frames: make(map[int]ports.Frame),
	}
}

func (m *DatasetSink) Enabled() bool {
	return true
}

func (m *DatasetSink) Open() error {
	m.event("open")
	if m.OpenFunc != nil {
		if err := m.OpenFunc(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Opened = true
	return nil
}

func (m *DatasetSink) WriteHeader(header ports.RunHeader) error {
	m.event("header")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Headers = append(m.Headers, header)
	return nil
}

func (m *DatasetSink) SaveFrame(seq int, frame ports.Frame) (string, error) {
	m.event("frame")
	if m.SaveFrameFunc != nil {
		return m.SaveFrameFunc(seq, frame)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[seq] = frame
	return fmt.Sprintf("%s/%s", ports.FramesDir, ports.FrameFileName(seq)), nil
}

func (m *DatasetSink) AppendRecord(record ports.MetadataRecord) error {
	m.event("record")
	if m.AppendRecordFunc != nil {
		if err := m.AppendRecordFunc(record); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, record)
	return nil
}

func (m *DatasetSink) Close() error {
	m.event("close")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

func (m *DatasetSink) event(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, name)
}

var _ ports.DatasetSink = (*DatasetSink)(nil)
