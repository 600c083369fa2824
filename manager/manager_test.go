package manager

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/model"
	"github.com/XR-lab/LookingGlass/pkg/device"
	"github.com/XR-lab/LookingGlass/pkg/host/headless"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus/hooks/test"
)

// recorder 记录调用顺序的管理器
type recorder struct {
	name     string
	calls    *[]string
	initErr  error
	startErr error
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Init() error {
	*r.calls = append(*r.calls, r.name+".init")
	return r.initErr
}

func (r *recorder) Release() { *r.calls = append(*r.calls, r.name+".release") }

func (r *recorder) OnStartPlayer(model.PresentationMode) error {
	*r.calls = append(*r.calls, r.name+".start")
	return r.startErr
}

func (r *recorder) OnStopPlayer() { *r.calls = append(*r.calls, r.name+".stop") }

func equalCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected calls %v, got %v", want, got)
		}
	}
}

func TestRegistryInitOnce(t *testing.T) {
	log, _ := test.NewNullLogger()
	var calls []string
	reg := NewRegistry(log)
	reg.Add(&recorder{name: "a", calls: &calls, initErr: errors.New("boom")})
	reg.Add(&recorder{name: "b", calls: &calls})

	reg.InitAll()
	reg.InitAll()

	equalCalls(t, calls, []string{"a.init", "b.init"})
	if !reg.Initialized() {
		t.Error("Registry should be initialized")
	}
}

func TestRegistryStartAbortsOnFailure(t *testing.T) {
	log, _ := test.NewNullLogger()
	var calls []string
	reg := NewRegistry(log)
	reg.Add(&recorder{name: "a", calls: &calls, startErr: errors.New("no")})
	reg.Add(&recorder{name: "b", calls: &calls})

	if err := reg.StartAll(model.SeparateWindow); err == nil {
		t.Fatal("Expected start error")
	}
	reg.StopAll()

	equalCalls(t, calls, []string{"a.start", "a.stop", "b.stop"})
}

func TestRegistryReleaseReverse(t *testing.T) {
	log, _ := test.NewNullLogger()
	var calls []string
	reg := NewRegistry(log)
	for _, n := range []string{"a", "b", "c"} {
		reg.Add(&recorder{name: n, calls: &calls})
	}

	reg.ReleaseAll()

	equalCalls(t, calls, []string{"c.release", "b.release", "a.release"})
	if reg.Len() != 0 {
		t.Errorf("Expected empty registry, got %d", reg.Len())
	}
}

const portraitState = `{"devices":[
 {"hdmi":"LKG-A","hardwareInfo":{"windowCoords":[100,0]},
  "calibration":{"serial":"A","screenW":{"value":1536},"screenH":{"value":2048}}},
 {"hdmi":"LKG-B","hardwareInfo":{"windowCoords":[3000,200]},
  "calibration":{"serial":"B","screenW":{"value":2560},"screenH":{"value":1600}}}
]}`

func loadedLoader(t *testing.T, state string) *device.Loader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(state), 0o644); err != nil {
		t.Fatal(err)
	}
	log, _ := test.NewNullLogger()
	loader := device.NewLoader(device.NewFileDriver(path), log)
	if !loader.LoadDLL() {
		t.Fatal("LoadDLL failed")
	}
	return loader
}

func TestDisplayManagerSelectsDevice(t *testing.T) {
	log, _ := test.NewNullLogger()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	dm := NewDisplayManager(loadedLoader(t, portraitState), 1, clock, log)

	if err := dm.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cal := dm.GetCalibration()
	if cal.Serial != "B" || cal.ScreenWidth != 2560 {
		t.Errorf("Expected device B calibration, got %+v", cal)
	}
	settings := dm.GetDisplaySettings()
	if settings.WindowX != 3000 || settings.WindowY != 200 || settings.DeviceIndex != 1 {
		t.Errorf("Unexpected settings %+v", settings)
	}
	if len(dm.Devices()) != 2 {
		t.Errorf("Expected 2 devices, got %d", len(dm.Devices()))
	}
	if !dm.ProbedAt().Equal(clock.Now()) {
		t.Errorf("Unexpected probe time %v", dm.ProbedAt())
	}
}

func TestDisplayManagerFallsBackToDefaults(t *testing.T) {
	log, _ := test.NewNullLogger()
	dm := NewDisplayManager(device.NewLoader(nil, log), 0, clockwork.NewFakeClock(), log)

	if err := dm.Init(); err != nil {
		t.Fatalf("Init without device should not fail: %v", err)
	}
	if dm.HasDevice() {
		t.Error("Should not report a device")
	}
	if got, want := dm.GetCalibration(), model.DefaultCalibration(); got != want {
		t.Errorf("Expected default calibration, got %+v", got)
	}
	if !dm.ProbedAt().IsZero() {
		t.Error("ProbedAt should be zero without a probe")
	}
}

func TestDisplayManagerKeepsLastSnapshot(t *testing.T) {
	log, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(portraitState), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := device.NewLoader(device.NewFileDriver(path), log)
	loader.LoadDLL()
	dm := NewDisplayManager(loader, 0, clockwork.NewFakeClock(), log)
	dm.Init()

	if err := os.WriteFile(path, []byte(`{"devices":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := dm.Refresh(); !errors.Is(err, device.ErrNoDevice) {
		t.Errorf("Expected ErrNoDevice, got %v", err)
	}
	if dm.GetCalibration().Serial != "A" {
		t.Error("Expected last known calibration to be kept")
	}
}

func TestDisplayManagerIndexOutOfRange(t *testing.T) {
	log, _ := test.NewNullLogger()
	dm := NewDisplayManager(loadedLoader(t, portraitState), 5, clockwork.NewFakeClock(), log)
	if err := dm.Init(); !errors.Is(err, device.ErrNoDevice) {
		t.Errorf("Expected ErrNoDevice, got %v", err)
	}
}

func TestScalabilityApplyAndRestore(t *testing.T) {
	log, _ := test.NewNullLogger()
	original := model.UniformQuality(3)
	engine := headless.New(headless.Options{Scalability: original})
	sm := NewScalabilityManager(engine, config.ScalabilitySettings{Enabled: true, Profile: "medium"}, nil, log)

	if err := sm.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := sm.OnStartPlayer(model.SeparateWindow); err != nil {
		t.Fatalf("OnStartPlayer failed: %v", err)
	}
	got := engine.ScalabilityLevels()
	if got.Shadow != TierMedium || got.PostProcess != TierLow || got.AntiAliasing != TierLow {
		t.Errorf("Unexpected applied levels %+v", got)
	}

	sm.OnStopPlayer()
	if engine.ScalabilityLevels() != original {
		t.Errorf("Expected original levels restored, got %+v", engine.ScalabilityLevels())
	}
}

func TestScalabilityMainViewportKeepsTier(t *testing.T) {
	log, _ := test.NewNullLogger()
	engine := headless.New(headless.Options{})
	sm := NewScalabilityManager(engine, config.ScalabilitySettings{Enabled: true, Profile: "epic"}, nil, log)
	sm.Init()
	sm.OnStartPlayer(model.MainViewport)

	if engine.ScalabilityLevels() != model.UniformQuality(TierEpic) {
		t.Errorf("Unexpected levels %+v", engine.ScalabilityLevels())
	}
}

func TestScalabilityAutoTier(t *testing.T) {
	log, _ := test.NewNullLogger()
	engine := headless.New(headless.Options{})
	capacity := func() (Capacity, error) {
		return Capacity{LogicalCPUs: 8, TotalMemory: 16 * gib}, nil
	}
	sm := NewScalabilityManager(engine, config.ScalabilitySettings{Enabled: true, Profile: "auto"}, capacity, log)
	if err := sm.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if sm.Tier() != TierHigh {
		t.Errorf("Expected high tier, got %d", sm.Tier())
	}

	failing := func() (Capacity, error) { return Capacity{}, errors.New("no procfs") }
	sm = NewScalabilityManager(engine, config.ScalabilitySettings{Enabled: true, Profile: "auto"}, failing, log)
	if err := sm.Init(); err == nil {
		t.Error("Expected error from capacity probe")
	}
}

func TestScalabilityDisabled(t *testing.T) {
	log, _ := test.NewNullLogger()
	levels := model.UniformQuality(2)
	engine := headless.New(headless.Options{Scalability: levels})
	sm := NewScalabilityManager(engine, config.ScalabilitySettings{Enabled: false, Profile: "low"}, nil, log)
	sm.Init()
	sm.OnStartPlayer(model.SeparateWindow)
	sm.OnStopPlayer()

	if engine.ScalabilityLevels() != levels {
		t.Errorf("Disabled manager changed levels: %+v", engine.ScalabilityLevels())
	}
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		c    Capacity
		want int
	}{
		{Capacity{LogicalCPUs: 2, TotalMemory: 4 * gib}, TierLow},
		{Capacity{LogicalCPUs: 4, TotalMemory: 8 * gib}, TierMedium},
		{Capacity{LogicalCPUs: 16, TotalMemory: 8 * gib}, TierMedium},
		{Capacity{LogicalCPUs: 16, TotalMemory: 32 * gib}, TierEpic},
	}
	for _, tc := range cases {
		if got := TierFor(tc.c); got != tc.want {
			t.Errorf("TierFor(%+v) = %d, want %d", tc.c, got, tc.want)
		}
	}
}

func TestCommandLineFlags(t *testing.T) {
	log, _ := test.NewNullLogger()
	engine := headless.New(headless.Options{
		HasEditorHost: true,
		CommandLine:   `MyProject -MOVIESCENECAPTUREMANIFEST=/tmp/cap/manifest.xml -Game -log`,
		SessionName:   StandaloneSessionName,
	})
	cl := NewCommandLineManager(engine, model.MainViewport, log)
	if err := cl.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if !cl.IsCaptureMovie() || !cl.IsGameMode() || !cl.IsStandaloneGame() {
		t.Errorf("Unexpected flags: %s", cl)
	}
	if got := cl.LaunchContext().CaptureManifest; got != "/tmp/cap/manifest.xml" {
		t.Errorf("Unexpected manifest %q", got)
	}
	if cl.LastExecutedMode() != model.MainViewport {
		t.Errorf("Unexpected last mode %s", cl.LastExecutedMode())
	}

	want := []string{"MyProject", "-MOVIESCENECAPTUREMANIFEST=/tmp/cap/manifest.xml", "-Game", "-log"}
	args := cl.Args()
	if len(args) != len(want) {
		t.Fatalf("Args() = %q, want %q", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestCommandLineWithoutEditorHost(t *testing.T) {
	log, _ := test.NewNullLogger()
	engine := headless.New(headless.Options{
		CommandLine: `-MovieSceneCaptureManifest=/tmp/m.xml -game`,
		SessionName: StandaloneSessionName,
	})
	cl := NewCommandLineManager(engine, model.SeparateWindow, log)
	cl.Init()

	if cl.IsCaptureMovie() || cl.IsStandaloneGame() {
		t.Errorf("Editor-only flags should stay false: %s", cl)
	}
	if !cl.IsGameMode() {
		t.Error("Game mode should still be detected")
	}
}

func TestCommandLineUnbalancedQuotes(t *testing.T) {
	log, _ := test.NewNullLogger()
	engine := headless.New(headless.Options{CommandLine: `-game "unterminated`})
	cl := NewCommandLineManager(engine, model.SeparateWindow, log)
	if err := cl.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !cl.IsGameMode() {
		t.Error("Expected -game to be parsed from fallback split")
	}
}
