package player

import (
	"fmt"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/model"
	"github.com/XR-lab/LookingGlass/pkg/host"
	"github.com/sirupsen/logrus"
)

// WindowTitle 独立窗口标题
const WindowTitle = "Looking Glass window"

// windowLayoutBorder 非无边框窗口的布局边距
const windowLayoutBorder = 5

// ComputeGeometry 计算独立窗口的位置与尺寸。
// 自动摆放时尺寸来自标定、位置来自设备的桌面坐标，并关闭自动居中
func ComputeGeometry(win config.WindowSettings, cal model.DisplayCalibration, ds model.DisplaySettings) model.WindowGeometry {
	if win.AutoPlacementInDisplay {
		return model.WindowGeometry{
			Position:   model.Point{X: ds.WindowX, Y: ds.WindowY},
			Size:       model.Size{W: cal.ScreenWidth, H: cal.ScreenHeight},
			AutoCenter: model.AutoCenterNone,
		}
	}
	return model.WindowGeometry{
		Position:   win.ScreenPosition,
		Size:       win.ClientSize,
		AutoCenter: win.WindowAutoCenter,
	}
}

// LayoutBorder 无边框窗口没有布局边距
func LayoutBorder(borderless bool) model.Margin {
	if borderless {
		return model.Margin{}
	}
	return model.Margin{Left: windowLayoutBorder, Top: windowLayoutBorder, Right: windowLayoutBorder, Bottom: windowLayoutBorder}
}

// RenderDirect 只有系统边框或无边框窗口才能直接渲染到窗口
func RenderDirect(win config.WindowSettings) bool {
	if !win.UseOSWindowBorder && !win.UseBorderlessWindow {
		return false
	}
	return win.RenderDirectlyToWindowInSeparateWindow
}

// initialWindowMode 独占全屏先以窗口化全屏创建，稍后再切换
func initialWindowMode(requested model.WindowMode) model.WindowMode {
	if requested == model.Fullscreen {
		return model.WindowedFullscreen
	}
	return requested
}

func (c *Controller) placeSeparateWindow(win config.WindowSettings, cal model.DisplayCalibration, ds model.DisplaySettings) error {
	c.state.WindowDestroyRequested = false

	geom := ComputeGeometry(win, cal, ds)

	// 1. 创建窗口
	w, err := c.engine.CreateWindow(host.WindowOptions{
		Title:         WindowTitle,
		Geometry:      geom,
		Borderless:    win.UseBorderlessWindow,
		UseOSBorder:   win.UseOSWindowBorder,
		LayoutBorder:  LayoutBorder(win.UseBorderlessWindow),
		SanePlacement: geom.AutoCenter == model.AutoCenterNone,
		FocusOnShow:   true,
	})
	if err != nil {
		return fmt.Errorf("创建独立窗口失败: %w", err)
	}

	// 2. 窗口模式
	requested := win.WindowType
	w.SetWindowMode(initialWindowMode(requested))

	// 3. 显示窗口，离屏渲染时只注册到渲染器
	if c.engine.IsRenderingOffScreen() {
		c.engine.RegisterOffScreen(w)
	} else {
		w.Show()
	}

	// 4. 立即推进一帧，确保全屏状态正确
	c.engine.Tick()

	// 5. 渲染表面
	surface := c.engine.NewSurface(RenderDirect(win))
	surface.SetViewportWindow(w)
	w.SetContent(surface)
	w.SlatePrepass()
	if w.WindowMode() != requested {
		w.SetWindowMode(requested)
		w.Reshape(geom.Position, geom.Size)
		viewportSize := w.ViewportSize()
		surface.Resize(viewportSize, requested)
		surface.Invalidate()

		backbuffer := viewportSize
		if w.IsMirrorWindow() {
			backbuffer = geom.Size
		}
		c.engine.UpdateFullscreenState(w, backbuffer)
	}

	c.window = w
	c.windowSurface = surface

	// 6. 关闭窗口即停止播放
	w.OnClosed(c.onWindowClosed)

	c.log.WithFields(logrus.Fields{
		"pos":  fmt.Sprintf("%d,%d", geom.Position.X, geom.Position.Y),
		"size": fmt.Sprintf("%dx%d", geom.Size.W, geom.Size.H),
		"mode": requested,
	}).Debug("独立窗口已创建")
	return nil
}

func (c *Controller) placeMainViewport(win config.WindowSettings, cal model.DisplayCalibration, ds model.DisplaySettings) error {
	vp := c.engine.PrimaryViewport()
	if vp == nil {
		return ErrNoPrimaryViewport
	}

	renderDirect := !c.engine.IsEditor()
	hostWindow := vp.Window()

	if win.AutoPlacementInDisplay {
		pos := model.Point{X: ds.WindowX, Y: ds.WindowY}
		size := model.Size{W: cal.ScreenWidth, H: cal.ScreenHeight}

		if c.engine.HasEditorHost() {
			launch := c.cmdline.LaunchContext()
			switch {
			case c.engine.IsMovieCaptureActive() || launch.IsCaptureMovie:
				// 录制时渲染到离屏目标
				renderDirect = false
			case c.engine.LastEditorPlayMode() == host.EditorPlayFloating:
				// 编辑器浮动窗口：把边框算进窗口尺寸
				border := hostWindow.BorderSize()
				pos.X -= border.Left
				pos.Y -= border.Top
				size.W += border.Left + border.Right
				size.H += border.Top + border.Bottom
				hostWindow.Reshape(pos, size)
			case launch.IsStandaloneGame || launch.IsGameMode:
				c.engine.RequestResolutionChange(size, hostWindow.WindowMode())
				hostWindow.Reshape(pos, size)
			}
		} else {
			c.engine.RequestResolutionChange(size, hostWindow.WindowMode())
			hostWindow.Reshape(pos, size)
		}
	}

	c.closeSub = c.engine.Events().Subscribe(host.EventViewportCloseRequested, c.onViewportCloseRequested)

	surface := c.engine.NewSurface(renderDirect)
	surface.SetViewportWindow(hostWindow)
	vp.SetWorldRenderingDisabled(true)
	vp.AddOverlay(surface)
	c.overlay = surface

	c.log.WithField("renderDirect", renderDirect).Debug("已嵌入主视口")
	return nil
}

func (c *Controller) teardownSeparateWindow() {
	if c.state.WindowDestroyRequested {
		return
	}
	c.state.WindowDestroyRequested = true

	w := c.window
	if w == nil {
		return
	}
	if c.engine.IsUIInitialized() {
		w.RequestDestroy()
	} else {
		w.DestroyImmediately()
	}
	w.OnClosed(nil)

	c.window = nil
	c.windowSurface = nil
}

func (c *Controller) teardownMainViewport() {
	if c.closeSub.Valid() {
		c.engine.Events().Unsubscribe(c.closeSub)
		c.closeSub = host.Subscription{}
	}

	vp := c.engine.PrimaryViewport()
	if vp == nil {
		c.overlay = nil
		return
	}
	vp.SetWorldRenderingDisabled(false)
	if c.overlay != nil {
		vp.RemoveOverlay(c.overlay)
		c.overlay = nil
	}
}

func (c *Controller) onWindowClosed(host.Window) {
	c.StopPlayer()
}

func (c *Controller) onViewportCloseRequested(any) {
	c.StopPlayer()
}
