//go:build !sdl

package main

import (
	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/model"
	"github.com/XR-lab/LookingGlass/pkg/host/headless"
	"github.com/sirupsen/logrus"
)

// headlessHost 无窗口环境下的宿主
type headlessHost struct {
	*headless.Engine
	viewport model.WindowGeometry
}

func newHost(cfg *config.Config, commandLine string, log logrus.FieldLogger) (appHost, error) {
	log.Info("🖥️ 使用无窗口宿主（以 -tags sdl 构建可获得真实窗口）")
	e := headless.New(headless.Options{
		CommandLine:    commandLine,
		CloseOnDestroy: true,
		Scalability:    model.UniformQuality(3),
	})
	return &headlessHost{
		Engine:   e,
		viewport: model.WindowGeometry{Size: cfg.Window.ClientSize},
	}, nil
}

func (h *headlessHost) Boot() error {
	h.PostEngineInit()
	h.CreatePrimaryViewport(h.viewport)
	return nil
}
