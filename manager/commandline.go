package manager

import (
	"fmt"
	"strings"

	"github.com/XR-lab/LookingGlass/model"
	"github.com/buildkite/shellwords"
	"github.com/sirupsen/logrus"
)

const (
	// StandaloneSessionName 编辑器以独立进程运行游戏时的会话名
	StandaloneSessionName = "Play in Standalone Game"

	captureManifestSwitch = "-moviescenecapturemanifest="
	gameSwitch            = "-game"
)

// LaunchHost 宿主启动信息
type LaunchHost interface {
	CommandLine() string
	SessionName() string
	HasEditorHost() bool
}

// CommandLineManager 解析进程命令行，推断启动方式
type CommandLineManager struct {
	host         LaunchHost
	lastExecuted model.PresentationMode
	log          logrus.FieldLogger

	parsed bool
	args   []string
	ctx    model.LaunchContext
}

var _ Manager = (*CommandLineManager)(nil)

// NewCommandLineManager 创建命令行管理器
func NewCommandLineManager(host LaunchHost, lastExecuted model.PresentationMode, log logrus.FieldLogger) *CommandLineManager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CommandLineManager{
		host:         host,
		lastExecuted: lastExecuted,
		log:          log.WithField("manager", "commandline"),
		ctx:          model.LaunchContext{LastExecutedMode: lastExecuted},
	}
}

func (c *CommandLineManager) Name() string { return "commandline" }

// Init 解析一次命令行，之后只读
func (c *CommandLineManager) Init() error {
	if c.parsed {
		return nil
	}
	c.parsed = true

	raw := c.host.CommandLine()
	args, err := shellwords.Split(raw)
	if err != nil {
		// 引号不匹配时退化为按空白切分
		args = strings.Fields(raw)
		c.log.WithError(err).Debug("命令行解析失败，按空白切分")
	}
	c.args = args

	ctx := model.LaunchContext{
		LastExecutedMode: c.lastExecuted,
		SessionName:      c.host.SessionName(),
	}
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, captureManifestSwitch):
			ctx.CaptureManifest = arg[len(captureManifestSwitch):]
		case lower == gameSwitch:
			ctx.IsGameMode = true
		}
	}

	if c.host.HasEditorHost() {
		ctx.IsStandaloneGame = ctx.SessionName == StandaloneSessionName
		ctx.IsCaptureMovie = ctx.CaptureManifest != ""
	}
	c.ctx = ctx

	c.log.WithFields(logrus.Fields{
		"standalone": ctx.IsStandaloneGame,
		"capture":    ctx.IsCaptureMovie,
		"game":       ctx.IsGameMode,
	}).Debug("启动方式")
	return nil
}

func (c *CommandLineManager) Release() {}

func (c *CommandLineManager) OnStartPlayer(model.PresentationMode) error { return nil }

func (c *CommandLineManager) OnStopPlayer() {}

// IsStandaloneGame 是否以编辑器独立进程方式运行
func (c *CommandLineManager) IsStandaloneGame() bool { return c.ctx.IsStandaloneGame }

// IsCaptureMovie 是否为影片录制进程
func (c *CommandLineManager) IsCaptureMovie() bool { return c.ctx.IsCaptureMovie }

// IsGameMode 是否带 -game 参数
func (c *CommandLineManager) IsGameMode() bool { return c.ctx.IsGameMode }

// LastExecutedMode 上一次使用的呈现模式
func (c *CommandLineManager) LastExecutedMode() model.PresentationMode { return c.ctx.LastExecutedMode }

// LaunchContext 完整启动信息
func (c *CommandLineManager) LaunchContext() model.LaunchContext { return c.ctx }

// Args 切分后的参数
func (c *CommandLineManager) Args() []string {
	out := make([]string, len(c.args))
	copy(out, c.args)
	return out
}

func (c *CommandLineManager) String() string {
	return fmt.Sprintf("standalone=%v capture=%v game=%v last=%s",
		c.ctx.IsStandaloneGame, c.ctx.IsCaptureMovie, c.ctx.IsGameMode, c.ctx.LastExecutedMode)
}
