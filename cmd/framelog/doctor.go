package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ideamans/go-l10n"

	"github.com/user/framelog/pkg/adapters/ffmpegcamera"
	"github.com/user/framelog/pkg/adapters/v4l2camera"
	"github.com/user/framelog/pkg/orchestrator"
	"github.com/user/framelog/pkg/ports"
)

// DoctorCmd checks which capture backends can work on this machine.
type DoctorCmd struct {
	Device     int    `short:"d" default:"0" help:"Camera device index to check."`
	DevicePath string `help:"Device node to check for the v4l2 backend."`
	FFmpegPath string `help:"Path to ffmpeg."`
}

// check is the outcome for one backend.
type check struct {
	Backend string
	OK      bool
	Detail  string
}

// Run executes the doctor command.
func (cmd *DoctorCmd) Run() error {
	fmt.Println(l10n.F("Platform: %s/%s", runtime.GOOS, runtime.GOARCH))

	opts := ports.CameraOptions{DeviceIndex: cmd.Device, DevicePath: cmd.DevicePath, FFmpegPath: cmd.FFmpegPath}
	checks := diagnose(runtime.GOOS, opts)

	usable := false
	for _, c := range checks {
		mark := "NG"
		if c.OK {
			mark = "OK"
			if c.Backend != orchestrator.BackendPattern {
				usable = true
			}
		}
		fmt.Printf("[%s] %-8s %s\n", mark, c.Backend, c.Detail)
	}

	if runtime.GOOS == "linux" {
		if nodes, _ := filepath.Glob("/dev/video*"); len(nodes) > 0 {
			fmt.Println(l10n.F("Video devices: %v", nodes))
		}
	}

	if !usable {
		return errors.New(l10n.T("no camera backend is usable"))
	}
	return nil
}

func diagnose(goos string, opts ports.CameraOptions) []check {
	var checks []check

	v4l2 := check{Backend: orchestrator.BackendV4L2}
	if goos != "linux" {
		v4l2.Detail = l10n.T("requires Linux")
	} else {
		node := v4l2camera.DevicePath(opts)
		if _, err := os.Stat(node); err != nil {
			v4l2.Detail = l10n.F("%s not found", node)
		} else {
			v4l2.OK = true
			v4l2.Detail = node
		}
	}
	checks = append(checks, v4l2)

	ff := check{Backend: orchestrator.BackendFFmpeg}
	if path, err := ffmpegcamera.Locate(opts.FFmpegPath); err != nil {
		ff.Detail = err.Error()
	} else {
		ff.OK = true
		ff.Detail = path
	}
	checks = append(checks, ff)

	checks = append(checks, check{
		Backend: orchestrator.BackendPattern,
		OK:      true,
		Detail:  l10n.T("always available"),
	})
	return checks
}
