//go:build sdl

package sdlhost

import (
	"github.com/XR-lab/LookingGlass/model"
	"github.com/XR-lab/LookingGlass/pkg/host"
	"github.com/veandco/go-sdl2/sdl"
)

// Window SDL 顶层窗口
type Window struct {
	engine   *Engine
	id       uint32
	window   *sdl.Window
	renderer *sdl.Renderer

	mode      model.WindowMode
	mirror    bool
	shown     bool
	destroyed bool
	content   *Surface
	onClosed  func(host.Window)
}

var _ host.Window = (*Window)(nil)

func (w *Window) SetWindowMode(mode model.WindowMode) {
	var flags uint32
	switch mode {
	case model.Fullscreen:
		flags = sdl.WINDOW_FULLSCREEN
	case model.WindowedFullscreen:
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.window.SetFullscreen(flags); err != nil {
		w.engine.log.WithError(err).WithField("mode", mode).Warn("切换窗口模式失败")
		return
	}
	w.mode = mode
}

// WindowMode 以 SDL 实际的窗口标志为准
func (w *Window) WindowMode() model.WindowMode {
	flags := w.window.GetFlags()
	switch {
	case flags&sdl.WINDOW_FULLSCREEN_DESKTOP == sdl.WINDOW_FULLSCREEN_DESKTOP:
		return model.WindowedFullscreen
	case flags&sdl.WINDOW_FULLSCREEN != 0:
		return model.Fullscreen
	}
	return model.Windowed
}

func (w *Window) Show() {
	w.window.Show()
	w.window.Raise()
	w.shown = true
}

func (w *Window) Reshape(pos model.Point, size model.Size) {
	w.window.SetPosition(int32(pos.X), int32(pos.Y))
	w.window.SetSize(int32(size.W), int32(size.H))
}

func (w *Window) ViewportSize() model.Size {
	width, height := w.window.GetSize()
	return model.Size{W: int(width), H: int(height)}
}

func (w *Window) BorderSize() model.Margin {
	top, left, bottom, right, err := w.window.GetBordersSize()
	if err != nil {
		return model.Margin{}
	}
	return model.Margin{Left: int(left), Top: int(top), Right: int(right), Bottom: int(bottom)}
}

func (w *Window) IsMirrorWindow() bool { return w.mirror }

func (w *Window) SetContent(s host.Surface) {
	if surface, ok := s.(*Surface); ok {
		w.content = surface
	}
}

func (w *Window) SlatePrepass() {
	if w.content != nil {
		w.content.size = w.ViewportSize()
	}
}

func (w *Window) OnClosed(fn func(host.Window)) { w.onClosed = fn }

// RequestDestroy 先派发关闭回调，再销毁窗口
func (w *Window) RequestDestroy() {
	if w.destroyed {
		return
	}
	if w.onClosed != nil {
		w.onClosed(w)
	}
	w.DestroyImmediately()
}

func (w *Window) DestroyImmediately() {
	if w.destroyed {
		return
	}
	w.release()
	delete(w.engine.windows, w.id)
}

func (w *Window) release() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.shown = false
	if w.renderer != nil {
		w.renderer.Destroy()
		w.renderer = nil
	}
	w.window.Destroy()
}

func (w *Window) draw() {
	if w.renderer == nil {
		return
	}
	if w.content != nil {
		w.content.draw(w.renderer)
	} else {
		w.renderer.SetDrawColor(0, 0, 0, 255)
		w.renderer.Clear()
	}
	w.renderer.Present()
}

// Viewport SDL 主视口
type Viewport struct {
	engine        *Engine
	window        *Window
	worldDisabled bool
	overlays      []host.Surface
}

var _ host.Viewport = (*Viewport)(nil)

func (v *Viewport) Window() host.Window { return v.window }

func (v *Viewport) SetWorldRenderingDisabled(disabled bool) { v.worldDisabled = disabled }

func (v *Viewport) AddOverlay(s host.Surface) { v.overlays = append(v.overlays, s) }

func (v *Viewport) RemoveOverlay(s host.Surface) {
	for i, o := range v.overlays {
		if o == s {
			v.overlays = append(v.overlays[:i], v.overlays[i+1:]...)
			return
		}
	}
}

func (v *Viewport) draw() {
	r := v.window.renderer
	if r == nil {
		return
	}
	if !v.worldDisabled {
		// 场景渲染由引擎负责，这里只画背景色
		r.SetDrawColor(40, 44, 52, 255)
		r.Clear()
	}
	for _, o := range v.overlays {
		if s, ok := o.(*Surface); ok {
			s.draw(r)
		}
	}
	r.Present()
}

// Surface 设备渲染表面：绘制视图分区作为占位画面
type Surface struct {
	renderDirect bool
	target       host.Window
	size         model.Size
	mode         model.WindowMode
	dirty        bool
}

var _ host.Surface = (*Surface)(nil)

const quiltColumns = 8

func (s *Surface) RenderDirectlyToWindow() bool { return s.renderDirect }

func (s *Surface) SetViewportWindow(w host.Window) {
	s.target = w
	s.size = w.ViewportSize()
}

func (s *Surface) Resize(size model.Size, mode model.WindowMode) {
	s.size = size
	s.mode = mode
}

func (s *Surface) Invalidate() { s.dirty = true }

func (s *Surface) draw(r *sdl.Renderer) {
	if s.size.W <= 0 || s.size.H <= 0 {
		return
	}
	r.SetDrawColor(0, 0, 0, 255)
	r.Clear()

	colW := int32(s.size.W / quiltColumns)
	for i := int32(0); i < quiltColumns; i++ {
		shade := uint8(40 + i*25)
		r.SetDrawColor(shade, shade/2, 255-shade, 255)
		r.FillRect(&sdl.Rect{X: i * colW, Y: 0, W: colW - 1, H: int32(s.size.H)})
	}
	s.dirty = false
}
