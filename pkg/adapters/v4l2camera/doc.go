// Package v4l2camera captures frames directly from a Video4Linux2 device
// using go4vl. Frames are delivered in the device's native pixel format
// (YUYV or MJPEG); conversion to RGB happens when the frame is saved.
//
// The backend is Linux only. On other platforms Open fails with
// ports.ErrDeviceUnavailable wrapping ports.ErrPlatformNotSupported.
package v4l2camera

import (
	"fmt"

	"github.com/user/framelog/pkg/ports"
)

// Backend is the identifier written to the run header.
const Backend = "v4l2"

// DevicePath returns the device node for opts.
func DevicePath(opts ports.CameraOptions) string {
	if opts.DevicePath != "" {
		return opts.DevicePath
	}
	return fmt.Sprintf("/dev/video%d", opts.DeviceIndex)
}
