package ffmpegcamera

import (
	"fmt"
	"strconv"

	"github.com/user/framelog/pkg/ports"
)

// lowLatencyArgs keep ffmpeg from queueing frames ahead of the reader, so a
// captured image is close to the cycle that asked for it.
var lowLatencyArgs = []string{"-fflags", "nobuffer", "-thread_queue_size", "4"}

// inputArgs returns the ffmpeg input options for a numbered device on goos.
// Resolution and rate are requests; the device may deliver something else.
func inputArgs(goos string, opts ports.CameraOptions) ([]string, error) {
	size := fmt.Sprintf("%dx%d", opts.Width, opts.Height)
	rate := strconv.FormatFloat(opts.FPS, 'f', -1, 64)

	switch goos {
	case "linux":
		device := opts.DevicePath
		if device == "" {
			device = fmt.Sprintf("/dev/video%d", opts.DeviceIndex)
		}
		args := append(append([]string{}, lowLatencyArgs...), "-f", "v4l2", "-video_size", size)
		if opts.FPS > 0 {
			args = append(args, "-framerate", rate)
		}
		return append(args, "-i", device), nil
	case "darwin":
		args := append(append([]string{}, lowLatencyArgs...), "-f", "avfoundation", "-video_size", size)
		if opts.FPS > 0 {
			args = append(args, "-framerate", rate)
		}
		// avfoundation takes "video:audio"; "none" disables audio.
		return append(args, "-i", fmt.Sprintf("%d:none", opts.DeviceIndex)), nil
	case "windows":
		args := append(append([]string{}, lowLatencyArgs...), "-f", "vfwcap", "-video_size", size)
		if opts.FPS > 0 {
			args = append(args, "-framerate", rate)
		}
		return append(args, "-i", strconv.Itoa(opts.DeviceIndex)), nil
	default:
		return nil, fmt.Errorf("%w: no ffmpeg capture input for %s", ports.ErrPlatformNotSupported, goos)
	}
}

// buildArgs returns the full ffmpeg command line that streams BMP images to stdout.
func buildArgs(goos string, opts ports.CameraOptions) ([]string, error) {
	input, err := inputArgs(goos, opts)
	if err != nil {
		return nil, err
	}

	args := []string{"-hide_banner", "-loglevel", "error", "-nostdin"}
	args = append(args, input...)
	args = append(args,
		"-f", "image2pipe", // One image after another
		"-c:v", "bmp", // Self-delimiting, cheap to decode
		"-pix_fmt", "bgr24",
		"pipe:1",
	)
	return args, nil
}
