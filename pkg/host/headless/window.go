package headless

import (
	"github.com/XR-lab/LookingGlass/model"
	"github.com/XR-lab/LookingGlass/pkg/host"
)

// Window 内存窗口，记录所有调用便于断言
type Window struct {
	engine  *Engine
	Options host.WindowOptions

	position    model.Point
	size        model.Size
	mode        model.WindowMode
	pendingMode *model.WindowMode
	border      model.Margin
	shown       bool
	content     host.Surface
	onClosed    func(host.Window)

	destroyed       bool
	DestroyRequests int
	ImmediateCalls  int
	Reshapes        int
	Prepasses       int
	Mirror          bool
}

var _ host.Window = (*Window)(nil)

func (w *Window) SetWindowMode(mode model.WindowMode) {
	if w.engine.opts.DeferFullscreen && mode != model.Windowed && !w.shown {
		w.pendingMode = &mode
		return
	}
	w.mode = mode
	w.pendingMode = nil
}

func (w *Window) WindowMode() model.WindowMode { return w.mode }

func (w *Window) Show() { w.shown = true }

func (w *Window) Reshape(pos model.Point, size model.Size) {
	w.position = pos
	w.size = size
	w.Reshapes++
}

func (w *Window) ViewportSize() model.Size {
	return model.Size{
		W: w.size.W - w.border.Left - w.border.Right,
		H: w.size.H - w.border.Top - w.border.Bottom,
	}
}

func (w *Window) BorderSize() model.Margin { return w.border }

func (w *Window) IsMirrorWindow() bool { return w.Mirror }

func (w *Window) SetContent(s host.Surface) { w.content = s }

func (w *Window) SlatePrepass() { w.Prepasses++ }

func (w *Window) OnClosed(fn func(host.Window)) { w.onClosed = fn }

func (w *Window) RequestDestroy() {
	w.DestroyRequests++
	w.destroy()
}

func (w *Window) DestroyImmediately() {
	w.ImmediateCalls++
	w.destroy()
}

func (w *Window) destroy() {
	w.destroyed = true
	w.shown = false
	if w.engine.opts.CloseOnDestroy && w.onClosed != nil {
		w.onClosed(w)
	}
}

// Close 模拟用户点击关闭按钮
func (w *Window) Close() {
	if w.onClosed != nil {
		w.onClosed(w)
	}
}

func (w *Window) Position() model.Point  { return w.position }
func (w *Window) Size() model.Size       { return w.size }
func (w *Window) Shown() bool            { return w.shown }
func (w *Window) Destroyed() bool        { return w.destroyed }
func (w *Window) Content() host.Surface  { return w.content }
func (w *Window) HasCloseCallback() bool { return w.onClosed != nil }

// Viewport 内存主视口
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

// RequestClose 模拟宿主视口关闭请求
func (v *Viewport) RequestClose() {
	v.engine.bus.Publish(host.EventViewportCloseRequested, v)
}

func (v *Viewport) HostWindow() *Window          { return v.window }
func (v *Viewport) WorldRenderingDisabled() bool { return v.worldDisabled }
func (v *Viewport) Overlays() []host.Surface     { return v.overlays }

// Surface 内存渲染表面
type Surface struct {
	renderDirect bool
	window       host.Window
	size         model.Size
	mode         model.WindowMode
	Resizes      int
	Invalidated  int
}

var _ host.Surface = (*Surface)(nil)

func (s *Surface) RenderDirectlyToWindow() bool { return s.renderDirect }

func (s *Surface) SetViewportWindow(w host.Window) { s.window = w }

func (s *Surface) Resize(size model.Size, mode model.WindowMode) {
	s.size = size
	s.mode = mode
	s.Resizes++
}

func (s *Surface) Invalidate() { s.Invalidated++ }

func (s *Surface) ViewportWindow() host.Window { return s.window }
func (s *Surface) Size() model.Size            { return s.size }
