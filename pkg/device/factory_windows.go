//go:build windows

package device

import "github.com/XR-lab/LookingGlass/config"

// NewDriver 创建驱动（Windows: HoloPlayCore.dll，配置了状态文件时优先使用文件）
func NewDriver(cfg config.DeviceSettings) Driver {
	if cfg.StateFile != "" {
		return NewFileDriver(cfg.StateFile)
	}
	return NewCoreDriver(cfg.AppName)
}
