// Package player 播放器生命周期：决定呈现模式、摆放窗口或主视口并协调各管理器
package player

import (
	"errors"
	"fmt"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/logger"
	"github.com/XR-lab/LookingGlass/manager"
	"github.com/XR-lab/LookingGlass/model"
	"github.com/XR-lab/LookingGlass/pkg/device"
	"github.com/XR-lab/LookingGlass/pkg/host"
	"github.com/sirupsen/logrus"
)

// ErrNoPrimaryViewport 主视口模式下宿主没有主视口
var ErrNoPrimaryViewport = errors.New("宿主没有主视口")

// Deps 播放控制器依赖，未提供的管理器按配置创建
type Deps struct {
	Engine host.Engine
	Config *config.Config
	Loader *device.Loader
	Log    logrus.FieldLogger

	Display     *manager.DisplayManager
	CommandLine *manager.CommandLineManager
	Scalability *manager.ScalabilityManager
	// Extra 追加在内置管理器之后的管理器（例如远程控制）
	Extra []manager.Manager
}

// Controller 播放控制器，所有方法都在宿主线程调用
type Controller struct {
	engine   host.Engine
	cfg      *config.Config
	loader   *device.Loader
	log      logrus.FieldLogger
	registry *manager.Registry

	display     *manager.DisplayManager
	cmdline     *manager.CommandLineManager
	scalability *manager.ScalabilityManager

	state    model.PlayerState
	stopping bool

	started         bool
	shutdown        bool
	separateStarted bool
	subs            []host.Subscription

	launchResolved bool
	launchMode     model.PresentationMode
	launchOK       bool

	// 独立窗口模式
	window        host.Window
	windowSurface host.Surface

	// 主视口模式
	overlay  host.Surface
	closeSub host.Subscription
}

// New 创建播放控制器
func New(deps Deps) (*Controller, error) {
	if deps.Engine == nil {
		return nil, fmt.Errorf("创建播放控制器失败: 缺少宿主")
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	loader := deps.Loader
	if loader == nil {
		loader = device.NewLoader(nil, log)
	}

	c := &Controller{
		engine:      deps.Engine,
		cfg:         cfg,
		loader:      loader,
		log:         logger.WithComponent(log, "player"),
		registry:    manager.NewRegistry(logger.WithComponent(log, "manager")),
		display:     deps.Display,
		cmdline:     deps.CommandLine,
		scalability: deps.Scalability,
	}
	if c.display == nil {
		c.display = manager.NewDisplayManager(loader, cfg.Device.DeviceIndex, nil, log)
	}
	if c.cmdline == nil {
		c.cmdline = manager.NewCommandLineManager(deps.Engine, cfg.Window.LastExecutedPlayMode, log)
	}
	if c.scalability == nil {
		c.scalability = manager.NewScalabilityManager(deps.Engine, cfg.Scalability, nil, log)
	}

	// 显示管理器最先注册、最后释放。
	// 设备服务的连接由 loader 在 Startup 中完成，启动方式由命令行管理器判断，不再单独注册启动管理器
	c.registry.Add(c.display)
	c.registry.Add(c.cmdline)
	c.registry.Add(c.scalability)
	for _, m := range deps.Extra {
		c.registry.Add(m)
	}
	return c, nil
}

// Startup 订阅宿主事件并加载设备库
func (c *Controller) Startup() {
	if c.started {
		return
	}
	c.started = true

	bus := c.engine.Events()
	c.subs = append(c.subs,
		bus.Subscribe(host.EventPostEngineInit, c.onPostEngineInit),
		bus.Subscribe(host.EventViewportCreated, c.onViewportCreated),
	)
	c.loader.LoadDLL()
	c.log.WithField("driver", c.loader.DriverName()).Debug("播放控制器已启动")
}

// Shutdown 停止播放并释放全部资源，可重复调用
func (c *Controller) Shutdown() {
	if c.shutdown {
		return
	}
	c.shutdown = true

	c.StopPlayer()
	c.loader.ReleaseDLL()
	c.registry.ReleaseAll()

	bus := c.engine.Events()
	for _, sub := range c.subs {
		bus.Unsubscribe(sub)
	}
	c.subs = nil
	c.log.Debug("播放控制器已关闭")
}

// InitAllManagers 初始化全部管理器，只执行一次
func (c *Controller) InitAllManagers() {
	c.registry.InitAll()
}

// StartPlayer 以指定模式开始播放，正在播放时不做任何事
func (c *Controller) StartPlayer(mode model.PresentationMode) error {
	if c.state.IsPlaying {
		return nil
	}

	win := c.cfg.Window
	c.state.CurrentMode = mode
	c.state.LockedInMainViewport = win.LockInMainViewport

	if err := c.registry.StartAll(mode); err != nil {
		c.log.WithError(err).Debug("Error during StartPlayer managers")
	}

	cal, ds := c.display.Snapshot()

	var err error
	switch mode {
	case model.SeparateWindow:
		err = c.placeSeparateWindow(win, cal, ds)
	case model.MainViewport:
		err = c.placeMainViewport(win, cal, ds)
	default:
		err = fmt.Errorf("未知的呈现模式: %s", mode)
	}
	if err != nil {
		c.log.WithError(err).WithField("mode", mode).Warn("播放器未启动")
		c.registry.StopAll()
		return err
	}

	c.state.IsPlaying = true
	c.log.WithField("mode", mode).Info("▶️ 播放器已启动")
	return nil
}

// StopPlayer 停止播放，未播放或正在停止时不做任何事
func (c *Controller) StopPlayer() {
	if !c.state.IsPlaying || c.stopping {
		return
	}
	c.stopping = true
	defer func() { c.stopping = false }()

	c.registry.StopAll()

	switch c.teardownMode() {
	case model.SeparateWindow:
		c.teardownSeparateWindow()
	case model.MainViewport:
		c.teardownMainViewport()
		// 被强制按主视口拆除时，独立窗口仍需销毁
		if c.window != nil {
			c.teardownSeparateWindow()
		}
	}

	c.state.IsPlaying = false
	c.log.Info("⏹️ 播放器已停止")
}

// RestartPlayer 先停止再以新模式启动
func (c *Controller) RestartPlayer(mode model.PresentationMode) error {
	c.StopPlayer()
	return c.StartPlayer(mode)
}

// teardownMode 独立进程、录制与锁定主视口的会话总是按主视口拆除
func (c *Controller) teardownMode() model.PresentationMode {
	launch := c.cmdline.LaunchContext()
	if launch.IsStandaloneGame || launch.IsCaptureMovie || c.state.LockedInMainViewport {
		return model.MainViewport
	}
	return c.state.CurrentMode
}

// State 当前状态快照
func (c *Controller) State() model.PlayerState { return c.state }

// IsPlaying 是否正在播放
func (c *Controller) IsPlaying() bool { return c.state.IsPlaying }

// Display 显示管理器
func (c *Controller) Display() *manager.DisplayManager { return c.display }

// CommandLine 命令行管理器
func (c *Controller) CommandLine() *manager.CommandLineManager { return c.cmdline }

// Scalability 画质管理器
func (c *Controller) Scalability() *manager.ScalabilityManager { return c.scalability }

// Window 独立窗口，未使用独立窗口时为 nil
func (c *Controller) Window() host.Window { return c.window }
