package manager

import (
	"fmt"

	"github.com/XR-lab/LookingGlass/model"
	"github.com/sirupsen/logrus"
)

// Manager 参与播放器生命周期的子系统
type Manager interface {
	Name() string
	Init() error
	Release()
	OnStartPlayer(mode model.PresentationMode) error
	OnStopPlayer()
}

// Registry 有序的管理器集合：按注册顺序初始化，逆序释放
type Registry struct {
	managers    []Manager
	initialized bool
	log         logrus.FieldLogger
}

// NewRegistry 创建管理器集合
func NewRegistry(log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{log: log}
}

// Add 注册管理器
func (r *Registry) Add(m Manager) {
	r.managers = append(r.managers, m)
}

// Len 已注册数量
func (r *Registry) Len() int {
	return len(r.managers)
}

// Initialized 是否已经执行过 InitAll
func (r *Registry) Initialized() bool {
	return r.initialized
}

// InitAll 初始化所有管理器，只执行一次；单个失败不影响其余
func (r *Registry) InitAll() {
	if r.initialized {
		return
	}
	r.initialized = true

	failed := 0
	for _, m := range r.managers {
		if err := m.Init(); err != nil {
			failed++
			r.log.WithError(err).WithField("manager", m.Name()).Debug("管理器初始化失败")
		}
	}
	if failed > 0 {
		r.log.WithField("failed", failed).Debug("Error during initialize managers")
	}
}

// StartAll 按顺序通知开始播放，遇到第一个失败即停止广播
func (r *Registry) StartAll(mode model.PresentationMode) error {
	for _, m := range r.managers {
		if err := m.OnStartPlayer(mode); err != nil {
			return fmt.Errorf("%s: %w", m.Name(), err)
		}
	}
	return nil
}

// StopAll 通知所有管理器停止播放（尽力而为）
func (r *Registry) StopAll() {
	for _, m := range r.managers {
		m.OnStopPlayer()
	}
}

// ReleaseAll 逆序释放并清空集合
func (r *Registry) ReleaseAll() {
	for i := len(r.managers) - 1; i >= 0; i-- {
		r.managers[i].Release()
		r.log.WithField("manager", r.managers[i].Name()).Debug("管理器已释放")
	}
	r.managers = nil
}
