package ports

import "io"

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating or truncating it.
	WriteFile(path string, data []byte) error

	// OpenAppend opens a file for appending, creating it if necessary.
	OpenAppend(path string) (AppendFile, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// ReadDir returns the names of the entries in a directory.
	ReadDir(path string) ([]string, error)
}

// AppendFile is a file opened in append mode.
type AppendFile interface {
	io.Writer

	// Sync commits written data to stable storage.
	Sync() error

	// Close closes the file.
	Close() error
}
