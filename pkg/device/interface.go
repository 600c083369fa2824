package device

import (
	"errors"

	"github.com/XR-lab/LookingGlass/model"
)

var (
	// ErrNoDriver 当前平台没有可用的设备驱动
	ErrNoDriver = errors.New("没有可用的设备驱动")
	// ErrNoDevice 驱动已加载但未发现设备
	ErrNoDevice = errors.New("未发现 Looking Glass 设备")
	// ErrNotLoaded 驱动尚未加载
	ErrNotLoaded = errors.New("设备驱动未加载")
)

// Driver 原生设备库接口
type Driver interface {
	Name() string
	// Open 加载原生库并初始化
	Open() error
	// StateJSON 返回设备服务的完整状态文档
	StateJSON() ([]byte, error)
	Close() error
}

// Device 一台已探测到的设备
type Device struct {
	Index       int
	Calibration model.DisplayCalibration
	Settings    model.DisplaySettings
}
