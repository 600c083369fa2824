//go:build !windows

package device

import "github.com/XR-lab/LookingGlass/config"

// NewDriver 创建驱动（非 Windows: 仅支持状态文件）
func NewDriver(cfg config.DeviceSettings) Driver {
	if cfg.StateFile != "" {
		return NewFileDriver(cfg.StateFile)
	}
	return nil
}
