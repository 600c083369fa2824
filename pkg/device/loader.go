package device

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Loader 设备库加载器：加载失败不致命，只记录一次警告
type Loader struct {
	driver Driver
	log    logrus.FieldLogger
	loaded bool
	warned bool
}

// NewLoader 创建加载器，driver 可以为 nil（当前平台无驱动）
func NewLoader(driver Driver, log logrus.FieldLogger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{
		driver: driver,
		log:    log.WithField("component", "device"),
	}
}

// LoadDLL 加载原生设备库，重复调用是安全的
func (l *Loader) LoadDLL() bool {
	if l.loaded {
		return true
	}
	if err := l.open(); err != nil {
		if !l.warned {
			l.warned = true
			l.log.WithError(err).Warn("设备库加载失败，将使用默认标定")
		}
		return false
	}
	l.loaded = true
	l.log.WithField("driver", l.driver.Name()).Info("设备库已加载")
	return true
}

func (l *Loader) open() error {
	if l.driver == nil {
		return ErrNoDriver
	}
	if err := l.driver.Open(); err != nil {
		return fmt.Errorf("%s: %w", l.driver.Name(), err)
	}
	return nil
}

// ReleaseDLL 释放原生设备库
func (l *Loader) ReleaseDLL() {
	if !l.loaded {
		return
	}
	l.loaded = false
	if err := l.driver.Close(); err != nil {
		l.log.WithError(err).Debug("释放设备库失败")
		return
	}
	l.log.Debug("设备库已释放")
}

// IsAvailable 设备库是否可用
func (l *Loader) IsAvailable() bool {
	return l.loaded
}

// DriverName 当前驱动名称
func (l *Loader) DriverName() string {
	if l.driver == nil {
		return "none"
	}
	return l.driver.Name()
}

// Probe 读取设备服务的最新状态
func (l *Loader) Probe() ([]Device, error) {
	if !l.loaded {
		return nil, ErrNotLoaded
	}
	data, err := l.driver.StateJSON()
	if err != nil {
		return nil, fmt.Errorf("读取设备状态失败: %w", err)
	}
	devices, err := ParseState(data)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ErrNoDevice
	}
	return devices, nil
}
