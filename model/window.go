package model

import (
	"fmt"
	"strings"
)

// WindowMode 引擎窗口模式
type WindowMode int

const (
	Fullscreen WindowMode = iota
	WindowedFullscreen
	Windowed
)

func (m WindowMode) String() string {
	switch m {
	case Fullscreen:
		return "Fullscreen"
	case WindowedFullscreen:
		return "WindowedFullscreen"
	case Windowed:
		return "Windowed"
	default:
		return fmt.Sprintf("WindowMode(%d)", int(m))
	}
}

// ParseWindowMode 解析窗口模式
func ParseWindowMode(s string) (WindowMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fullscreen":
		return Fullscreen, nil
	case "windowedfullscreen", "borderless":
		return WindowedFullscreen, nil
	case "windowed", "window":
		return Windowed, nil
	}
	return Windowed, fmt.Errorf("未知的窗口模式: %q", s)
}

// AutoCenter 窗口自动居中策略
type AutoCenter int

const (
	AutoCenterNone AutoCenter = iota
	AutoCenterPrimaryWorkArea
	AutoCenterPreferredWorkArea
)

func (a AutoCenter) String() string {
	switch a {
	case AutoCenterNone:
		return "None"
	case AutoCenterPrimaryWorkArea:
		return "PrimaryWorkArea"
	case AutoCenterPreferredWorkArea:
		return "PreferredWorkArea"
	default:
		return fmt.Sprintf("AutoCenter(%d)", int(a))
	}
}

// ParseAutoCenter 解析自动居中策略
func ParseAutoCenter(s string) (AutoCenter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return AutoCenterNone, nil
	case "primaryworkarea", "primary":
		return AutoCenterPrimaryWorkArea, nil
	case "preferredworkarea", "preferred":
		return AutoCenterPreferredWorkArea, nil
	}
	return AutoCenterNone, fmt.Errorf("未知的居中策略: %q", s)
}

type Point struct {
	X, Y int
}

type Size struct {
	W, H int
}

// Margin 窗口边框内边距
type Margin struct {
	Left, Top, Right, Bottom int
}

// WindowGeometry 窗口几何信息，每次启动时重新计算，不持久化
type WindowGeometry struct {
	Position   Point
	Size       Size
	AutoCenter AutoCenter
}
