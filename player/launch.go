package player

import (
	"github.com/XR-lab/LookingGlass/model"
)

// DetermineLaunchPresentationMode 根据启动方式决定初始呈现模式，结果只计算一次。
// ok 为 false 表示当前进程不应自动启动播放器
func (c *Controller) DetermineLaunchPresentationMode() (model.PresentationMode, bool) {
	if c.launchResolved {
		return c.launchMode, c.launchOK
	}
	c.launchResolved = true

	if err := c.cmdline.Init(); err != nil {
		c.log.WithError(err).Debug("解析命令行失败")
	}

	last := c.cfg.Window.LastExecutedPlayMode
	if c.cfg.Window.LockInMainViewport {
		last = model.MainViewport
	}

	launch := c.cmdline.LaunchContext()
	switch {
	case !c.engine.HasEditorHost():
		c.launchMode, c.launchOK = last, true
	case launch.IsStandaloneGame:
		c.launchMode, c.launchOK = model.MainViewport, true
	case launch.IsCaptureMovie:
		c.launchMode, c.launchOK = model.MainViewport, true
	case launch.IsGameMode:
		c.launchMode, c.launchOK = last, true
	default:
		c.launchMode, c.launchOK = last, false
	}

	c.log.WithField("mode", c.launchMode).WithField("autostart", c.launchOK).Debug("启动模式")
	return c.launchMode, c.launchOK
}

// StartPlayerSeparateProcess 按启动方式自动开始播放
func (c *Controller) StartPlayerSeparateProcess() error {
	mode, ok := c.DetermineLaunchPresentationMode()
	if !ok {
		c.log.Info("未识别的启动方式，不自动开始播放")
		return nil
	}
	return c.StartPlayer(mode)
}

func (c *Controller) onPostEngineInit(any) {
	c.InitAllManagers()
}

func (c *Controller) onViewportCreated(any) {
	if c.engine.IsEditor() {
		return
	}
	if c.separateStarted {
		c.log.Warn("StartPlayer in separate process was already called")
		return
	}
	c.separateStarted = true

	c.InitAllManagers()
	if err := c.StartPlayerSeparateProcess(); err != nil {
		c.log.WithError(err).Warn("自动开始播放失败")
	}
}
