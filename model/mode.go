package model

import (
	"fmt"
	"strings"
)

// PresentationMode 呈现模式：独立窗口或主视口
type PresentationMode int

const (
	SeparateWindow PresentationMode = iota
	MainViewport
)

func (m PresentationMode) String() string {
	switch m {
	case SeparateWindow:
		return "window"
	case MainViewport:
		return "viewport"
	default:
		return fmt.Sprintf("PresentationMode(%d)", int(m))
	}
}

// ParsePresentationMode 解析呈现模式（大小写不敏感）
func ParsePresentationMode(s string) (PresentationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "window", "separate", "separatewindow":
		return SeparateWindow, nil
	case "viewport", "main", "mainviewport":
		return MainViewport, nil
	}
	return SeparateWindow, fmt.Errorf("未知的呈现模式: %q", s)
}

// PlayerState 播放器状态，只由播放控制器修改
type PlayerState struct {
	IsPlaying              bool
	CurrentMode            PresentationMode
	WindowDestroyRequested bool
	LockedInMainViewport   bool
}

// LaunchContext 进程启动方式，计算后只读
type LaunchContext struct {
	IsStandaloneGame bool
	IsCaptureMovie   bool
	IsGameMode       bool
	LastExecutedMode PresentationMode

	SessionName     string
	CaptureManifest string
}
