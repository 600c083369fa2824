package host

import (
	"github.com/XR-lab/LookingGlass/model"
)

// EditorPlayMode 编辑器上一次的运行方式
type EditorPlayMode int

const (
	EditorPlayInViewport EditorPlayMode = iota
	EditorPlayFloating
	EditorPlayStandalone
	EditorPlayNewProcess
)

// WindowOptions 创建顶层窗口的参数
type WindowOptions struct {
	Title        string
	Geometry     model.WindowGeometry
	Borderless   bool
	UseOSBorder  bool
	LayoutBorder model.Margin
	// SanePlacement 未自动居中时保证窗口落在可见区域
	SanePlacement bool
	FocusOnShow   bool
}

// Engine 宿主引擎能力（窗口、视口、事件、画质）
type Engine interface {
	Events() *Bus

	CreateWindow(opts WindowOptions) (Window, error)
	IsRenderingOffScreen() bool
	RegisterOffScreen(w Window)
	Tick()

	PrimaryViewport() Viewport
	NewSurface(renderDirect bool) Surface
	UpdateFullscreenState(w Window, backbuffer model.Size)
	RequestResolutionChange(size model.Size, mode model.WindowMode)

	IsUIInitialized() bool
	IsEditor() bool
	HasEditorHost() bool
	IsMovieCaptureActive() bool
	LastEditorPlayMode() EditorPlayMode

	CommandLine() string
	SessionName() string

	ScalabilityLevels() model.QualityLevels
	SetScalabilityLevels(levels model.QualityLevels)
}

// Window 宿主顶层窗口
type Window interface {
	SetWindowMode(mode model.WindowMode)
	WindowMode() model.WindowMode
	Show()
	Reshape(pos model.Point, size model.Size)
	ViewportSize() model.Size
	BorderSize() model.Margin
	IsMirrorWindow() bool
	SetContent(s Surface)
	SlatePrepass()

	// OnClosed 设置关闭回调，传 nil 解绑
	OnClosed(fn func(Window))
	RequestDestroy()
	DestroyImmediately()
}

// Viewport 宿主主视口
type Viewport interface {
	Window() Window
	SetWorldRenderingDisabled(disabled bool)
	AddOverlay(s Surface)
	RemoveOverlay(s Surface)
}

// Surface 设备渲染表面
type Surface interface {
	RenderDirectlyToWindow() bool
	SetViewportWindow(w Window)
	Resize(size model.Size, mode model.WindowMode)
	Invalidate()
}
