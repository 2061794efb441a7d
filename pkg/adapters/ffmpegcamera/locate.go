// Package ffmpegcamera captures frames from a numbered camera device through
// an ffmpeg subprocess. It works wherever ffmpeg has a capture input device:
// v4l2 on Linux, avfoundation on macOS and vfwcap on Windows.
package ffmpegcamera

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
var ErrFFmpegNotFound = errors.New("ffmpegcamera: ffmpeg not found")

// Environment variables consulted by Locate, in order.
var pathEnvVars = []string{"FRAMELOG_FFMPEG_PATH", "FFMPEG_PATH"}

// Locate finds the ffmpeg binary.
// Priority: 1) custom, 2) FRAMELOG_FFMPEG_PATH, 3) FFMPEG_PATH, 4) PATH, 5) common locations.
func Locate(custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: %s does not exist", ErrFFmpegNotFound, custom)
	}

	for _, name := range pathEnvVars {
		if envPath := os.Getenv(name); envPath != "" {
			if _, err := os.Stat(envPath); err == nil {
				return envPath, nil
			}
			return "", fmt.Errorf("%w: %s=%s does not exist", ErrFFmpegNotFound, name, envPath)
		}
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, p := range commonPaths(runtime.GOOS) {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

func commonPaths(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
		}
	case "darwin":
		return []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
		}
	default:
		return []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
}
