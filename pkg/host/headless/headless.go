// Package headless 提供不依赖窗口系统的宿主实现，用于无显示环境与测试
package headless

import (
	"fmt"

	"github.com/XR-lab/LookingGlass/model"
	"github.com/XR-lab/LookingGlass/pkg/host"
)

// Options 宿主行为开关
type Options struct {
	Editor          bool
	HasEditorHost   bool
	OffScreen       bool
	UIUninitialized bool
	MovieCapture    bool
	EditorPlayMode  host.EditorPlayMode
	CommandLine     string
	SessionName     string

	// CloseOnDestroy 销毁窗口时同步触发关闭回调（模拟宿主在销毁过程中派发事件）
	CloseOnDestroy bool
	// DeferFullscreen 全屏模式要等到窗口显示并 Tick 之后才生效
	DeferFullscreen bool
	// WindowBorder 非无边框窗口的边框尺寸
	WindowBorder model.Margin
	// MirrorWindows 新建窗口是否为镜像窗口
	MirrorWindows bool

	Scalability model.QualityLevels
}

// Engine 内存宿主
type Engine struct {
	opts     Options
	bus      *host.Bus
	viewport *Viewport
	windows  []*Window

	ticks          int
	offScreen      []*Window
	fullscreenReqs []model.Size
	resolutionReqs []model.Size
	scalability    model.QualityLevels
	quit           bool
}

var _ host.Engine = (*Engine)(nil)

// New 创建内存宿主
func New(opts Options) *Engine {
	return &Engine{
		opts:        opts,
		bus:         host.NewBus(),
		scalability: opts.Scalability,
	}
}

func (e *Engine) Events() *host.Bus { return e.bus }

func (e *Engine) CreateWindow(opts host.WindowOptions) (host.Window, error) {
	if opts.Geometry.Size.W <= 0 || opts.Geometry.Size.H <= 0 {
		return nil, fmt.Errorf("窗口尺寸无效: %dx%d", opts.Geometry.Size.W, opts.Geometry.Size.H)
	}
	w := &Window{
		engine:   e,
		Options:  opts,
		position: opts.Geometry.Position,
		size:     opts.Geometry.Size,
		mode:     model.Windowed,
		Mirror:   e.opts.MirrorWindows,
	}
	if !opts.Borderless {
		w.border = e.opts.WindowBorder
	}
	e.windows = append(e.windows, w)
	return w, nil
}

func (e *Engine) IsRenderingOffScreen() bool { return e.opts.OffScreen }

func (e *Engine) RegisterOffScreen(w host.Window) {
	if hw, ok := w.(*Window); ok {
		e.offScreen = append(e.offScreen, hw)
	}
}

// Tick 推进一帧：应用延迟的窗口模式
func (e *Engine) Tick() {
	e.ticks++
	for _, w := range e.windows {
		if w.pendingMode != nil && w.shown {
			w.mode = *w.pendingMode
			w.pendingMode = nil
		}
	}
}

func (e *Engine) PrimaryViewport() host.Viewport {
	if e.viewport == nil {
		return nil
	}
	return e.viewport
}

func (e *Engine) NewSurface(renderDirect bool) host.Surface {
	return &Surface{renderDirect: renderDirect}
}

func (e *Engine) UpdateFullscreenState(_ host.Window, backbuffer model.Size) {
	e.fullscreenReqs = append(e.fullscreenReqs, backbuffer)
}

func (e *Engine) RequestResolutionChange(size model.Size, _ model.WindowMode) {
	e.resolutionReqs = append(e.resolutionReqs, size)
}

func (e *Engine) IsUIInitialized() bool                   { return !e.opts.UIUninitialized }
func (e *Engine) IsEditor() bool                          { return e.opts.Editor }
func (e *Engine) HasEditorHost() bool                     { return e.opts.HasEditorHost }
func (e *Engine) IsMovieCaptureActive() bool              { return e.opts.MovieCapture }
func (e *Engine) LastEditorPlayMode() host.EditorPlayMode { return e.opts.EditorPlayMode }
func (e *Engine) CommandLine() string                     { return e.opts.CommandLine }
func (e *Engine) SessionName() string                     { return e.opts.SessionName }

func (e *Engine) ScalabilityLevels() model.QualityLevels { return e.scalability }

func (e *Engine) SetScalabilityLevels(levels model.QualityLevels) {
	e.scalability = levels
}

// CreatePrimaryViewport 创建主视口并派发 viewport-created 事件
func (e *Engine) CreatePrimaryViewport(geom model.WindowGeometry) *Viewport {
	w := &Window{
		engine:   e,
		Options:  host.WindowOptions{Title: "Game Viewport", Geometry: geom},
		position: geom.Position,
		size:     geom.Size,
		mode:     model.Windowed,
		border:   e.opts.WindowBorder,
		shown:    true,
	}
	e.viewport = &Viewport{engine: e, window: w}
	e.bus.Publish(host.EventViewportCreated, e.viewport)
	return e.viewport
}

// DestroyPrimaryViewport 移除主视口
func (e *Engine) DestroyPrimaryViewport() {
	e.viewport = nil
}

// PostEngineInit 派发 post-engine-init 事件
func (e *Engine) PostEngineInit() {
	e.bus.Publish(host.EventPostEngineInit, nil)
}

// Pump 处理一帧，返回 false 表示宿主请求退出
func (e *Engine) Pump() bool {
	e.Tick()
	return !e.quit
}

// RequestQuit 请求退出主循环
func (e *Engine) RequestQuit() { e.quit = true }

// Close 释放宿主资源
func (e *Engine) Close() {
	for _, w := range e.windows {
		if !w.destroyed {
			w.destroyed = true
		}
	}
}

// Ticks 已执行的帧数
func (e *Engine) Ticks() int { return e.ticks }

// Windows 创建过的全部窗口
func (e *Engine) Windows() []*Window { return e.windows }

// LiveWindows 尚未销毁的窗口
func (e *Engine) LiveWindows() []*Window {
	var live []*Window
	for _, w := range e.windows {
		if !w.destroyed {
			live = append(live, w)
		}
	}
	return live
}

// OffScreenWindows 注册到离屏渲染器的窗口
func (e *Engine) OffScreenWindows() []*Window { return e.offScreen }

// FullscreenRequests 后缓冲区尺寸更新记录
func (e *Engine) FullscreenRequests() []model.Size { return e.fullscreenReqs }

// ResolutionRequests 分辨率切换请求记录
func (e *Engine) ResolutionRequests() []model.Size { return e.resolutionReqs }

// Viewport 返回主视口（可能为 nil）
func (e *Engine) Viewport() *Viewport { return e.viewport }
