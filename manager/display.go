package manager

import (
	"errors"
	"fmt"
	"time"

	"github.com/XR-lab/LookingGlass/model"
	"github.com/XR-lab/LookingGlass/pkg/device"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// DisplayManager 设备标定与桌面位置
type DisplayManager struct {
	loader      *device.Loader
	clock       clockwork.Clock
	deviceIndex int
	log         logrus.FieldLogger

	devices     []device.Device
	calibration model.DisplayCalibration
	settings    model.DisplaySettings
	probedAt    time.Time
	hasSnapshot bool
	warned      bool
}

var _ Manager = (*DisplayManager)(nil)

// NewDisplayManager 创建显示管理器，clock 为 nil 时使用系统时钟
func NewDisplayManager(loader *device.Loader, deviceIndex int, clock clockwork.Clock, log logrus.FieldLogger) *DisplayManager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DisplayManager{
		loader:      loader,
		clock:       clock,
		deviceIndex: deviceIndex,
		log:         log.WithField("manager", "display"),
		calibration: model.DefaultCalibration(),
		settings:    model.DisplaySettings{DeviceIndex: deviceIndex},
	}
}

func (d *DisplayManager) Name() string { return "display" }

func (d *DisplayManager) Init() error {
	if err := d.Refresh(); err != nil {
		if errors.Is(err, device.ErrNotLoaded) {
			if !d.warned {
				d.warned = true
				d.log.Info("设备库不可用，使用默认标定")
			}
			return nil
		}
		return err
	}
	return nil
}

func (d *DisplayManager) Release() {
	d.devices = nil
}

func (d *DisplayManager) OnStartPlayer(model.PresentationMode) error { return nil }

func (d *DisplayManager) OnStopPlayer() {}

// Refresh 重新探测设备并更新快照
func (d *DisplayManager) Refresh() error {
	if d.loader == nil {
		return device.ErrNotLoaded
	}
	devices, err := d.loader.Probe()
	if err != nil {
		return err
	}
	if d.deviceIndex >= len(devices) {
		return fmt.Errorf("设备索引 %d 超出范围 (共 %d 台): %w", d.deviceIndex, len(devices), device.ErrNoDevice)
	}

	dev := devices[d.deviceIndex]
	d.devices = devices
	d.calibration = dev.Calibration
	d.settings = dev.Settings
	d.settings.DeviceIndex = d.deviceIndex
	d.probedAt = d.clock.Now()
	d.hasSnapshot = true

	d.log.WithFields(logrus.Fields{
		"serial": dev.Calibration.Serial,
		"size":   fmt.Sprintf("%dx%d", dev.Calibration.ScreenWidth, dev.Calibration.ScreenHeight),
		"pos":    fmt.Sprintf("%d,%d", dev.Settings.WindowX, dev.Settings.WindowY),
	}).Debug("设备状态已更新")
	return nil
}

// probe 设备可用时重新探测，失败保留上一次快照
func (d *DisplayManager) probe() {
	if d.loader == nil || !d.loader.IsAvailable() {
		return
	}
	if err := d.Refresh(); err != nil {
		d.log.WithError(err).Debug("探测设备失败，沿用上一次标定")
	}
}

// GetCalibration 当前设备标定
func (d *DisplayManager) GetCalibration() model.DisplayCalibration {
	d.probe()
	return d.calibration
}

// GetDisplaySettings 设备在桌面中的位置
func (d *DisplayManager) GetDisplaySettings() model.DisplaySettings {
	d.probe()
	return d.settings
}

// Snapshot 只探测一次，标定与桌面位置来自同一次探测
func (d *DisplayManager) Snapshot() (model.DisplayCalibration, model.DisplaySettings) {
	d.probe()
	return d.calibration, d.settings
}

// Devices 最近一次探测到的全部设备
func (d *DisplayManager) Devices() []device.Device {
	out := make([]device.Device, len(d.devices))
	copy(out, d.devices)
	return out
}

// ProbedAt 最近一次成功探测的时间，未探测过返回零值
func (d *DisplayManager) ProbedAt() time.Time {
	return d.probedAt
}

// HasDevice 是否有真实设备的标定快照
func (d *DisplayManager) HasDevice() bool {
	return d.hasSnapshot
}
