package ports

import "errors"

var (
	// ErrDeviceUnavailable is returned when a camera cannot be opened or configured.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrCaptureFailed is returned when a read from an open camera fails.
	ErrCaptureFailed = errors.New("capture failed")

	// ErrOutputUnwritable is returned when the output directory or files cannot be created.
	ErrOutputUnwritable = errors.New("output unwritable")

	// ErrOutputExists is returned when the output directory already holds a dataset
	// and the existing-output policy forbids reusing it.
	ErrOutputExists = errors.New("output directory already contains a dataset")

	// ErrPlatformNotSupported is returned by backends that do not run on this platform.
	ErrPlatformNotSupported = errors.New("platform not supported")
)
