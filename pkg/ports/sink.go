package ports

// DatasetSink persists the output of one acquisition run.
type DatasetSink interface {
	// Enabled returns false for sinks that discard everything.
	Enabled() bool

	// Open creates the frame directory and opens the metadata log in append mode.
	// Errors wrap ErrOutputUnwritable.
	Open() error

	// WriteHeader writes run_header.json, replacing any previous one.
	WriteHeader(header RunHeader) error

	// SaveFrame encodes the frame as frames/NNNNNN.png (NNNNNN = seq) and
	// returns its path relative to the output directory.
	SaveFrame(seq int, frame Frame) (string, error)

	// AppendRecord writes one line to meta.jsonl and flushes it to storage.
	AppendRecord(record MetadataRecord) error

	// Close closes the metadata log.
	Close() error
}
