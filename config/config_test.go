package config

import (
	"path/filepath"
	"testing"

	"github.com/XR-lab/LookingGlass/model"
)

func TestParse(t *testing.T) {
	data := []byte(`
[Window]
WindowType = Fullscreen
UseBorderlessWindow = false
WindowAutoCenter = PrimaryWorkArea
ClientSizeX = 1536
ClientSizeY = 2048
LockInMainViewport = true
LastExecutedPlayMode = viewport

[Device]
DeviceIndex = 1
StateFile = /tmp/state.json

[Scalability]
Profile = EPIC

[Remote]
Enabled = true
Topic = lab/lkg/
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Window.WindowType != model.Fullscreen {
		t.Errorf("WindowType = %v, want Fullscreen", cfg.Window.WindowType)
	}
	if cfg.Window.UseBorderlessWindow {
		t.Error("UseBorderlessWindow should be false")
	}
	if cfg.Window.WindowAutoCenter != model.AutoCenterPrimaryWorkArea {
		t.Errorf("WindowAutoCenter = %v", cfg.Window.WindowAutoCenter)
	}
	if cfg.Window.ClientSize != (model.Size{W: 1536, H: 2048}) {
		t.Errorf("ClientSize = %+v", cfg.Window.ClientSize)
	}
	if !cfg.Window.LockInMainViewport {
		t.Error("LockInMainViewport should be true")
	}
	if cfg.Window.LastExecutedPlayMode != model.MainViewport {
		t.Errorf("LastExecutedPlayMode = %v", cfg.Window.LastExecutedPlayMode)
	}
	if cfg.Device.DeviceIndex != 1 || cfg.Device.StateFile != "/tmp/state.json" {
		t.Errorf("Device = %+v", cfg.Device)
	}
	if cfg.Scalability.Profile != "epic" {
		t.Errorf("Profile = %q, want epic", cfg.Scalability.Profile)
	}
	if !cfg.Remote.Enabled || cfg.Remote.Topic != "lab/lkg" {
		t.Errorf("Remote = %+v", cfg.Remote)
	}

	// 未出现的键保留默认值
	if !cfg.Window.AutoPlacementInDisplay {
		t.Error("AutoPlacementInDisplay should keep its default")
	}
	if cfg.Remote.Broker != Default().Remote.Broker {
		t.Errorf("Broker = %q", cfg.Remote.Broker)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"window mode", "[Window]\nWindowType = Maximized\n"},
		{"play mode", "[Window]\nLastExecutedPlayMode = vr\n"},
		{"client size", "[Window]\nClientSizeX = 0\n"},
		{"device index", "[Device]\nDeviceIndex = -1\n"},
		{"profile", "[Scalability]\nProfile = ultra\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("expected error for %q", tt.data)
			}
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookingglass.ini")

	cfg := Default()
	cfg.Window.WindowType = model.WindowedFullscreen
	cfg.Window.ScreenPosition = model.Point{X: 1920, Y: 0}
	cfg.Window.LastExecutedPlayMode = model.MainViewport
	cfg.Remote.HeartbeatSeconds = 3
	cfg.Log.Level = "debug"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}
