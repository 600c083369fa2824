package manager

import (
	"fmt"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/model"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
)

const (
	TierLow = iota
	TierMedium
	TierHigh
	TierEpic
)

const gib = 1 << 30

// QualityHost 宿主画质接口
type QualityHost interface {
	ScalabilityLevels() model.QualityLevels
	SetScalabilityLevels(levels model.QualityLevels)
}

// Capacity 主机硬件容量
type Capacity struct {
	LogicalCPUs int
	TotalMemory uint64
}

// CapacityFunc 读取主机容量
type CapacityFunc func() (Capacity, error)

// HostCapacity 通过 gopsutil 读取本机容量
func HostCapacity() (Capacity, error) {
	n, err := cpu.Counts(true)
	if err != nil {
		return Capacity{}, fmt.Errorf("读取 CPU 数量失败: %w", err)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Capacity{}, fmt.Errorf("读取内存信息失败: %w", err)
	}
	return Capacity{LogicalCPUs: n, TotalMemory: vm.Total}, nil
}

// TierFor 根据主机容量选择画质档位
func TierFor(c Capacity) int {
	switch {
	case c.LogicalCPUs >= 12 && c.TotalMemory >= 16*gib:
		return TierEpic
	case c.LogicalCPUs >= 8 && c.TotalMemory >= 12*gib:
		return TierHigh
	case c.LogicalCPUs >= 4 && c.TotalMemory >= 6*gib:
		return TierMedium
	default:
		return TierLow
	}
}

// ParseTier 解析配置中的档位名称
func ParseTier(profile string) (int, bool) {
	switch profile {
	case "low":
		return TierLow, true
	case "medium":
		return TierMedium, true
	case "high":
		return TierHigh, true
	case "epic":
		return TierEpic, true
	}
	return 0, false
}

// ScalabilityManager 播放期间调整宿主画质，停止时恢复
type ScalabilityManager struct {
	host     QualityHost
	cfg      config.ScalabilitySettings
	capacity CapacityFunc
	log      logrus.FieldLogger

	tier    int
	saved   model.QualityLevels
	applied bool
}

var _ Manager = (*ScalabilityManager)(nil)

// NewScalabilityManager 创建画质管理器，capacity 为 nil 时使用 HostCapacity
func NewScalabilityManager(host QualityHost, cfg config.ScalabilitySettings, capacity CapacityFunc, log logrus.FieldLogger) *ScalabilityManager {
	if capacity == nil {
		capacity = HostCapacity
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ScalabilityManager{
		host:     host,
		cfg:      cfg,
		capacity: capacity,
		log:      log.WithField("manager", "scalability"),
		tier:     TierHigh,
	}
}

func (s *ScalabilityManager) Name() string { return "scalability" }

func (s *ScalabilityManager) Init() error {
	if !s.cfg.Enabled {
		return nil
	}
	if tier, ok := ParseTier(s.cfg.Profile); ok {
		s.tier = tier
		return nil
	}

	c, err := s.capacity()
	if err != nil {
		return fmt.Errorf("自动选择画质档位失败: %w", err)
	}
	s.tier = TierFor(c)
	s.log.WithFields(logrus.Fields{
		"cpus":   c.LogicalCPUs,
		"memory": c.TotalMemory / gib,
		"tier":   s.tier,
	}).Debug("自动选择画质档位")
	return nil
}

func (s *ScalabilityManager) Release() {
	s.OnStopPlayer()
}

// Tier 当前基础档位
func (s *ScalabilityManager) Tier() int { return s.tier }

// Levels 指定模式下应用的画质
func (s *ScalabilityManager) Levels(mode model.PresentationMode) model.QualityLevels {
	levels := model.UniformQuality(s.tier)
	if mode == model.SeparateWindow {
		levels.PostProcess = lower(levels.PostProcess)
		levels.AntiAliasing = lower(levels.AntiAliasing)
	}
	return levels
}

func lower(level int) int {
	if level > TierLow {
		return level - 1
	}
	return level
}

func (s *ScalabilityManager) OnStartPlayer(mode model.PresentationMode) error {
	if !s.cfg.Enabled || s.host == nil {
		return nil
	}
	if !s.applied {
		s.saved = s.host.ScalabilityLevels()
		s.applied = true
	}
	s.host.SetScalabilityLevels(s.Levels(mode))
	return nil
}

func (s *ScalabilityManager) OnStopPlayer() {
	if !s.applied {
		return
	}
	s.host.SetScalabilityLevels(s.saved)
	s.applied = false
}
