//go:build sdl

// Package sdlhost 基于 SDL2 的宿主实现：真实窗口、主视口与事件循环
package sdlhost

import (
	"fmt"
	"os"

	"github.com/XR-lab/LookingGlass/model"
	"github.com/XR-lab/LookingGlass/pkg/host"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// Options SDL 宿主参数
type Options struct {
	Title       string
	Viewport    model.WindowGeometry
	CommandLine string
	SessionName string
	Log         logrus.FieldLogger
}

// Engine SDL 宿主，所有方法必须在调用 sdl.Init 的线程上执行
type Engine struct {
	opts Options
	log  logrus.FieldLogger
	bus  *host.Bus

	viewport  *Viewport
	windows   map[uint32]*Window
	offScreen []*Window

	scalability model.QualityLevels
	initialized bool
	quit        bool
}

var _ host.Engine = (*Engine)(nil)

// New 初始化 SDL 视频子系统
func New(opts Options) (*Engine, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("SDL 初始化失败: %v", err)
	}
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "1")

	if opts.Title == "" {
		opts.Title = "Looking Glass"
	}
	if opts.Viewport.Size.W <= 0 || opts.Viewport.Size.H <= 0 {
		opts.Viewport.Size = model.Size{W: 1280, H: 720}
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		opts:        opts,
		log:         log.WithField("component", "sdlhost"),
		bus:         host.NewBus(),
		windows:     make(map[uint32]*Window),
		scalability: model.UniformQuality(3),
		initialized: true,
	}, nil
}

// Boot 派发 post-engine-init，然后创建主视口并派发 viewport-created
func (e *Engine) Boot() error {
	e.bus.Publish(host.EventPostEngineInit, nil)

	w, err := e.newWindow(host.WindowOptions{
		Title:    e.opts.Title,
		Geometry: e.opts.Viewport,
	}, sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("创建主视口失败: %w", err)
	}
	w.shown = true
	e.viewport = &Viewport{engine: e, window: w}
	e.bus.Publish(host.EventViewportCreated, e.viewport)
	return nil
}

func (e *Engine) Events() *host.Bus { return e.bus }

func (e *Engine) CreateWindow(opts host.WindowOptions) (host.Window, error) {
	flags := uint32(sdl.WINDOW_HIDDEN | sdl.WINDOW_RESIZABLE)
	if opts.Borderless {
		flags |= sdl.WINDOW_BORDERLESS
	}
	return e.newWindow(opts, flags)
}

func (e *Engine) newWindow(opts host.WindowOptions, flags uint32) (*Window, error) {
	geom := opts.Geometry
	if geom.Size.W <= 0 || geom.Size.H <= 0 {
		return nil, fmt.Errorf("窗口尺寸无效: %dx%d", geom.Size.W, geom.Size.H)
	}
	x, y := int32(geom.Position.X), int32(geom.Position.Y)
	if geom.AutoCenter != model.AutoCenterNone {
		x, y = sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED
	}

	sw, err := sdl.CreateWindow(opts.Title, x, y, int32(geom.Size.W), int32(geom.Size.H), flags)
	if err != nil {
		return nil, fmt.Errorf("创建窗口失败: %v", err)
	}
	renderer, err := sdl.CreateRenderer(sw, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		sw.Destroy()
		return nil, fmt.Errorf("创建渲染器失败: %v", err)
	}
	id, err := sw.GetID()
	if err != nil {
		renderer.Destroy()
		sw.Destroy()
		return nil, fmt.Errorf("读取窗口 ID 失败: %v", err)
	}

	w := &Window{
		engine:   e,
		id:       id,
		window:   sw,
		renderer: renderer,
		mode:     model.Windowed,
		mirror:   !opts.UseOSBorder && !opts.Borderless,
	}
	e.windows[id] = w
	return w, nil
}

func (e *Engine) IsRenderingOffScreen() bool {
	switch os.Getenv("SDL_VIDEODRIVER") {
	case "offscreen", "dummy":
		return true
	}
	return false
}

func (e *Engine) RegisterOffScreen(w host.Window) {
	if sw, ok := w.(*Window); ok {
		e.offScreen = append(e.offScreen, sw)
	}
}

// Tick 处理一轮事件并重绘
func (e *Engine) Tick() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			e.quit = true
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
				e.quit = true
			}
		case *sdl.WindowEvent:
			if ev.Event == sdl.WINDOWEVENT_CLOSE {
				e.handleClose(ev.WindowID)
			}
		}
	}
	e.render()
}

func (e *Engine) handleClose(id uint32) {
	if e.viewport != nil && e.viewport.window.id == id {
		e.bus.Publish(host.EventViewportCloseRequested, e.viewport)
		return
	}
	if w, ok := e.windows[id]; ok && w.onClosed != nil {
		w.onClosed(w)
	}
}

func (e *Engine) render() {
	for _, w := range e.windows {
		if !w.shown || w.destroyed {
			continue
		}
		if e.viewport != nil && w == e.viewport.window {
			e.viewport.draw()
			continue
		}
		w.draw()
	}
}

// Pump 推进一帧，返回 false 表示用户请求退出
func (e *Engine) Pump() bool {
	e.Tick()
	return !e.quit
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

func (e *Engine) UpdateFullscreenState(w host.Window, backbuffer model.Size) {
	sw, ok := w.(*Window)
	if !ok || sw.renderer == nil {
		return
	}
	if err := sw.renderer.SetLogicalSize(int32(backbuffer.W), int32(backbuffer.H)); err != nil {
		e.log.WithError(err).Debug("更新后缓冲区尺寸失败")
	}
}

func (e *Engine) RequestResolutionChange(size model.Size, mode model.WindowMode) {
	if e.viewport == nil {
		return
	}
	sw := e.viewport.window.window
	if mode == model.Fullscreen {
		dm := sdl.DisplayMode{W: int32(size.W), H: int32(size.H)}
		if err := sw.SetDisplayMode(&dm); err != nil {
			e.log.WithError(err).Warn("切换分辨率失败")
		}
		return
	}
	sw.SetSize(int32(size.W), int32(size.H))
}

func (e *Engine) IsUIInitialized() bool                   { return e.initialized }
func (e *Engine) IsEditor() bool                          { return false }
func (e *Engine) HasEditorHost() bool                     { return false }
func (e *Engine) IsMovieCaptureActive() bool              { return false }
func (e *Engine) LastEditorPlayMode() host.EditorPlayMode { return host.EditorPlayInViewport }
func (e *Engine) CommandLine() string                     { return e.opts.CommandLine }
func (e *Engine) SessionName() string                     { return e.opts.SessionName }

func (e *Engine) ScalabilityLevels() model.QualityLevels { return e.scalability }

func (e *Engine) SetScalabilityLevels(levels model.QualityLevels) {
	e.scalability = levels
	e.log.WithField("levels", levels).Debug("画质已更新")
}

// Close 销毁所有窗口并退出 SDL
func (e *Engine) Close() {
	if !e.initialized {
		return
	}
	for _, w := range e.windows {
		w.release()
	}
	e.windows = map[uint32]*Window{}
	e.viewport = nil
	e.initialized = false
	sdl.Quit()
}
