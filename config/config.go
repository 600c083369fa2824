package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/XR-lab/LookingGlass/model"
	"gopkg.in/ini.v1"
)

// Config 应用配置
type Config struct {
	Window      WindowSettings
	Device      DeviceSettings
	Scalability ScalabilitySettings
	Remote      RemoteSettings
	Log         LogSettings
}

// WindowSettings 窗口与摆放配置（播放器只读）
type WindowSettings struct {
	WindowType             model.WindowMode
	UseBorderlessWindow    bool
	UseOSWindowBorder      bool
	WindowAutoCenter       model.AutoCenter
	AutoPlacementInDisplay bool
	ClientSize             model.Size
	ScreenPosition         model.Point
	LockInMainViewport     bool

	RenderDirectlyToWindowInSeparateWindow bool

	LastExecutedPlayMode model.PresentationMode
}

// DeviceSettings 设备配置
type DeviceSettings struct {
	DeviceIndex int
	StateFile   string // 设备状态 JSON 文件（非 Windows 或离线调试）
	AppName     string
}

// ScalabilitySettings 画质配置
type ScalabilitySettings struct {
	Enabled bool
	Profile string // auto | low | medium | high | epic
}

// RemoteSettings MQTT 远程控制配置
type RemoteSettings struct {
	Enabled          bool
	Broker           string
	ClientID         string
	Topic            string
	HeartbeatSeconds int
}

// LogSettings 日志配置
type LogSettings struct {
	Level string
	File  string
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Window: WindowSettings{
			WindowType:                             model.Windowed,
			UseBorderlessWindow:                    true,
			UseOSWindowBorder:                      false,
			WindowAutoCenter:                       model.AutoCenterNone,
			AutoPlacementInDisplay:                 true,
			ClientSize:                             model.Size{W: 1280, H: 720},
			ScreenPosition:                         model.Point{X: 0, Y: 0},
			LockInMainViewport:                     false,
			RenderDirectlyToWindowInSeparateWindow: true,
			LastExecutedPlayMode:                   model.SeparateWindow,
		},
		Device: DeviceSettings{
			DeviceIndex: 0,
			AppName:     "LookingGlass",
		},
		Scalability: ScalabilitySettings{
			Enabled: true,
			Profile: "auto",
		},
		Remote: RemoteSettings{
			Enabled:          false,
			Broker:           "tcp://127.0.0.1:1883",
			ClientID:         "lkg-player",
			Topic:            "lookingglass/player",
			HeartbeatSeconds: 10,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Load 从 ini 文件读取配置，文件不存在时返回默认配置
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         true,
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}
	if err := cfg.apply(f); err != nil {
		return nil, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	return cfg, nil
}

// Parse 从内存数据解析配置
func Parse(data []byte) (*Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         true,
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}
	cfg := Default()
	if err := cfg.apply(f); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(f *ini.File) error {
	// Insensitive 模式下 section 与 key 名都会被转为小写
	w := f.Section("window")
	if w.HasKey("windowtype") {
		mode, err := model.ParseWindowMode(w.Key("windowtype").String())
		if err != nil {
			return err
		}
		c.Window.WindowType = mode
	}
	if w.HasKey("windowautocenter") {
		ac, err := model.ParseAutoCenter(w.Key("windowautocenter").String())
		if err != nil {
			return err
		}
		c.Window.WindowAutoCenter = ac
	}
	if w.HasKey("lastexecutedplaymode") {
		mode, err := model.ParsePresentationMode(w.Key("lastexecutedplaymode").String())
		if err != nil {
			return err
		}
		c.Window.LastExecutedPlayMode = mode
	}
	c.Window.UseBorderlessWindow = w.Key("useborderlesswindow").MustBool(c.Window.UseBorderlessWindow)
	c.Window.UseOSWindowBorder = w.Key("useoswindowborder").MustBool(c.Window.UseOSWindowBorder)
	c.Window.AutoPlacementInDisplay = w.Key("autoplacementindisplay").MustBool(c.Window.AutoPlacementInDisplay)
	c.Window.ClientSize.W = w.Key("clientsizex").MustInt(c.Window.ClientSize.W)
	c.Window.ClientSize.H = w.Key("clientsizey").MustInt(c.Window.ClientSize.H)
	c.Window.ScreenPosition.X = w.Key("screenpositionx").MustInt(c.Window.ScreenPosition.X)
	c.Window.ScreenPosition.Y = w.Key("screenpositiony").MustInt(c.Window.ScreenPosition.Y)
	c.Window.LockInMainViewport = w.Key("lockinmainviewport").MustBool(c.Window.LockInMainViewport)
	c.Window.RenderDirectlyToWindowInSeparateWindow = w.Key("renderdirectlytowindowinseparatewindow").
		MustBool(c.Window.RenderDirectlyToWindowInSeparateWindow)
	if c.Window.ClientSize.W <= 0 || c.Window.ClientSize.H <= 0 {
		return fmt.Errorf("窗口尺寸无效: %dx%d", c.Window.ClientSize.W, c.Window.ClientSize.H)
	}

	d := f.Section("device")
	c.Device.DeviceIndex = d.Key("deviceindex").MustInt(c.Device.DeviceIndex)
	c.Device.StateFile = d.Key("statefile").MustString(c.Device.StateFile)
	c.Device.AppName = d.Key("appname").MustString(c.Device.AppName)
	if c.Device.DeviceIndex < 0 {
		return fmt.Errorf("设备索引不能为负: %d", c.Device.DeviceIndex)
	}

	s := f.Section("scalability")
	c.Scalability.Enabled = s.Key("enabled").MustBool(c.Scalability.Enabled)
	profile := strings.ToLower(s.Key("profile").MustString(c.Scalability.Profile))
	switch profile {
	case "auto", "low", "medium", "high", "epic":
		c.Scalability.Profile = profile
	default:
		return fmt.Errorf("未知的画质档位: %q", profile)
	}

	r := f.Section("remote")
	c.Remote.Enabled = r.Key("enabled").MustBool(c.Remote.Enabled)
	c.Remote.Broker = r.Key("broker").MustString(c.Remote.Broker)
	c.Remote.ClientID = r.Key("clientid").MustString(c.Remote.ClientID)
	c.Remote.Topic = strings.TrimSuffix(r.Key("topic").MustString(c.Remote.Topic), "/")
	c.Remote.HeartbeatSeconds = r.Key("heartbeatseconds").MustInt(c.Remote.HeartbeatSeconds)

	l := f.Section("log")
	c.Log.Level = l.Key("level").MustString(c.Log.Level)
	c.Log.File = l.Key("file").MustString(c.Log.File)
	return nil
}

// Save 把配置写入 ini 文件
func Save(cfg *Config, path string) error {
	f := ini.Empty()

	w := f.Section("Window")
	w.Key("WindowType").SetValue(cfg.Window.WindowType.String())
	w.Key("UseBorderlessWindow").SetValue(fmt.Sprint(cfg.Window.UseBorderlessWindow))
	w.Key("UseOSWindowBorder").SetValue(fmt.Sprint(cfg.Window.UseOSWindowBorder))
	w.Key("WindowAutoCenter").SetValue(cfg.Window.WindowAutoCenter.String())
	w.Key("AutoPlacementInDisplay").SetValue(fmt.Sprint(cfg.Window.AutoPlacementInDisplay))
	w.Key("ClientSizeX").SetValue(fmt.Sprint(cfg.Window.ClientSize.W))
	w.Key("ClientSizeY").SetValue(fmt.Sprint(cfg.Window.ClientSize.H))
	w.Key("ScreenPositionX").SetValue(fmt.Sprint(cfg.Window.ScreenPosition.X))
	w.Key("ScreenPositionY").SetValue(fmt.Sprint(cfg.Window.ScreenPosition.Y))
	w.Key("LockInMainViewport").SetValue(fmt.Sprint(cfg.Window.LockInMainViewport))
	w.Key("RenderDirectlyToWindowInSeparateWindow").SetValue(fmt.Sprint(cfg.Window.RenderDirectlyToWindowInSeparateWindow))
	w.Key("LastExecutedPlayMode").SetValue(cfg.Window.LastExecutedPlayMode.String())

	d := f.Section("Device")
	d.Key("DeviceIndex").SetValue(fmt.Sprint(cfg.Device.DeviceIndex))
	d.Key("StateFile").SetValue(cfg.Device.StateFile)
	d.Key("AppName").SetValue(cfg.Device.AppName)

	s := f.Section("Scalability")
	s.Key("Enabled").SetValue(fmt.Sprint(cfg.Scalability.Enabled))
	s.Key("Profile").SetValue(cfg.Scalability.Profile)

	r := f.Section("Remote")
	r.Key("Enabled").SetValue(fmt.Sprint(cfg.Remote.Enabled))
	r.Key("Broker").SetValue(cfg.Remote.Broker)
	r.Key("ClientID").SetValue(cfg.Remote.ClientID)
	r.Key("Topic").SetValue(cfg.Remote.Topic)
	r.Key("HeartbeatSeconds").SetValue(fmt.Sprint(cfg.Remote.HeartbeatSeconds))

	l := f.Section("Log")
	l.Key("Level").SetValue(cfg.Log.Level)
	l.Key("File").SetValue(cfg.Log.File)

	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("写入配置失败: %w", err)
	}
	return nil
}
