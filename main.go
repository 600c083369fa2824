package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/logger"
	"github.com/XR-lab/LookingGlass/manager"
	"github.com/XR-lab/LookingGlass/pkg/device"
	"github.com/XR-lab/LookingGlass/pkg/host"
	"github.com/XR-lab/LookingGlass/player"
	"github.com/XR-lab/LookingGlass/remote"
	"github.com/buildkite/shellwords"
	"github.com/sirupsen/logrus"
)

const frameInterval = 16 * time.Millisecond

// appHost 由主循环驱动的宿主
type appHost interface {
	host.Engine
	// Boot 派发启动事件并创建主视口
	Boot() error
	// Pump 推进一帧，返回 false 表示宿主请求退出
	Pump() bool
	Close()
}

// App 应用程序状态，用于资源管理
type App struct {
	cfg     *config.Config
	log     *logrus.Logger
	logFile io.Closer

	host   appHost
	ctrl   *player.Controller
	remote *remote.Manager

	mu     sync.Mutex
	closed bool
}

func main() {
	// 1. 解析命令行参数，"--" 之后的参数原样交给宿主
	var configPath, logLevel string
	flag.StringVar(&configPath, "config", "lookingglass.ini", "配置文件路径")
	flag.StringVar(&logLevel, "log-level", "", "日志级别，覆盖配置文件")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, logFile, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	log.Info("🔮 Looking Glass 播放器")

	// 2. 创建应用实例
	app := &App{cfg: cfg, log: log, logFile: logFile}

	// 信号只取消 context，资源在主线程上释放
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 运行应用
	err = app.Run(ctx, hostCommandLine(flag.Args()))
	app.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func (app *App) Run(ctx context.Context, commandLine string) error {
	// 1. 创建宿主
	h, err := newHost(app.cfg, commandLine, app.log)
	if err != nil {
		return fmt.Errorf("创建宿主失败: %w", err)
	}
	app.host = h

	// 2. 远程控制
	if app.cfg.Remote.Enabled {
		app.cfg.Remote.ClientID = fmt.Sprintf("%s-%d", app.cfg.Remote.ClientID, time.Now().Unix())
	}
	app.remote = remote.New(remote.Options{
		Settings:    app.cfg.Remote,
		DefaultMode: app.cfg.Window.LastExecutedPlayMode,
		Log:         app.log,
	})

	// 3. 播放控制器
	loader := device.NewLoader(device.NewDriver(app.cfg.Device), app.log)
	app.ctrl, err = player.New(player.Deps{
		Engine: h,
		Config: app.cfg,
		Loader: loader,
		Log:    app.log,
		Extra:  []manager.Manager{app.remote},
	})
	if err != nil {
		return err
	}
	app.ctrl.Startup()

	// 4. 宿主启动：post-engine-init 与 viewport-created 会驱动播放器自动开始
	if err := h.Boot(); err != nil {
		return fmt.Errorf("宿主启动失败: %w", err)
	}

	// 5. 主循环
	app.log.Info("⏳ 运行中，按 Ctrl+C 退出")
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			app.log.Info("📛 收到退出信号")
			return nil
		case <-ticker.C:
			if !h.Pump() {
				app.log.Info("👋 宿主请求退出")
				return nil
			}
			app.remote.Drain(app.ctrl)
		}
	}
}

// Shutdown 优雅关闭所有资源
func (app *App) Shutdown() {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return
	}
	app.closed = true
	app.mu.Unlock()

	app.log.Info("🛑 正在关闭...")

	// 1. 停止播放并释放管理器
	if app.ctrl != nil {
		app.ctrl.Shutdown()
	}

	// 2. 关闭宿主
	if app.host != nil {
		app.host.Close()
	}

	app.log.Info("✅ 已安全关闭")
	if app.logFile != nil {
		app.logFile.Close()
	}
}

// hostCommandLine 把参数拼回宿主命令行，拆分规则与命令行管理器一致
func hostCommandLine(args []string) string {
	batch := runtime.GOOS == "windows"
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteArg(arg, batch)
	}
	return strings.Join(quoted, " ")
}

// quoteArg 引用单个参数，拆分后还原为同一个词
func quoteArg(arg string, batch bool) string {
	if !batch {
		return shellwords.QuotePosix(arg)
	}
	if !strings.ContainsAny(arg, `'"`) {
		return shellwords.QuoteBatch(arg)
	}
	// 批处理规则下单引号也会开启引用：整体放进双引号，内部双引号用 ^ 转义
	q := shellwords.QuoteBatch(arg)
	if strings.IndexFunc(arg, unicode.IsSpace) >= 0 {
		q = q[1 : len(q)-1]
	}
	return `"` + strings.ReplaceAll(q, `"`, `^"`) + `"`
}
