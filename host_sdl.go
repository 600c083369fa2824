//go:build sdl

package main

import (
	"runtime"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/model"
	"github.com/XR-lab/LookingGlass/pkg/host/sdlhost"
	"github.com/sirupsen/logrus"
)

// SDL 要求所有调用都在主线程
func init() {
	runtime.LockOSThread()
}

func newHost(cfg *config.Config, commandLine string, log logrus.FieldLogger) (appHost, error) {
	log.Info("🖥️ 使用 SDL2 宿主")
	e, err := sdlhost.New(sdlhost.Options{
		Title: "Looking Glass",
		Viewport: model.WindowGeometry{
			Size:       cfg.Window.ClientSize,
			AutoCenter: model.AutoCenterPrimaryWorkArea,
		},
		CommandLine: commandLine,
		Log:         log,
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}
