package ports

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Dataset file names, relative to the output directory.
const (
	HeaderFile   = "run_header.json"
	MetadataFile = "meta.jsonl"
	FramesDir    = "frames"
)

// FrameFileName returns the file name for frame sequence number seq.
func FrameFileName(seq int) string {
	return padSeq(seq) + ".png"
}

func padSeq(seq int) string {
	s := strconv.Itoa(seq)
	if len(s) >= 6 {
		return s
	}
	return strings.Repeat("0", 6-len(s)) + s
}

// ParseFrameFileName returns the sequence number encoded in a frame file name.
func ParseFrameFileName(name string) (int, bool) {
	base, ok := strings.CutSuffix(name, ".png")
	if !ok || len(base) < 6 {
		return 0, false
	}
	n, err := strconv.Atoi(base)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// RunHeader describes one run. It is written once, before the first frame.
type RunHeader struct {
	Created string  `json:"created"`
	Backend string  `json:"backend"`
	FPS     Decimal `json:"fps"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Seconds Decimal `json:"seconds"`
	Device  int     `json:"device"`
	RunID   string  `json:"run_id,omitempty"`
	Version string  `json:"version,omitempty"`
}

// HeaderTimeLayout is the layout of RunHeader.Created, in local time.
const HeaderTimeLayout = "20060102_150405"

// MetadataRecord is one line of meta.jsonl.
type MetadataRecord struct {
	Index         int     `json:"index"`
	File          string  `json:"file"`
	TimestampUnix float64 `json:"timestamp_unix"`
	TimestampISO  string  `json:"timestamp_iso"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
}

// ISOTimeLayout is the layout of MetadataRecord.TimestampISO, in local time.
const ISOTimeLayout = "2006-01-02T15:04:05.000000"

// NewMetadataRecord builds the record for a frame captured at t.
func NewMetadataRecord(index int, file string, t time.Time, width, height int) MetadataRecord {
	return MetadataRecord{
		Index:         index,
		File:          file,
		TimestampUnix: float64(t.Unix()) + float64(t.Nanosecond())/1e9,
		TimestampISO:  t.Local().Format(ISOTimeLayout),
		Width:         width,
		Height:        height,
	}
}

// Decimal is a float64 that always marshals with a fractional part (10 -> 10.0).
type Decimal float64

// MarshalJSON implements json.Marshaler.
func (d Decimal) MarshalJSON() ([]byte, error) {
	s := strconv.FormatFloat(float64(d), 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return []byte(s), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*d = Decimal(f)
	return nil
}
