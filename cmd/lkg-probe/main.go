package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/manager"
	"github.com/XR-lab/LookingGlass/pkg/device"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "lookingglass.ini", "配置文件路径")
	stateFile := flag.String("state", "", "设备状态 JSON 文件，覆盖配置")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if *stateFile != "" {
		cfg.Device.StateFile = *stateFile
	}

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	loader := device.NewLoader(device.NewDriver(cfg.Device), log)
	if !loader.LoadDLL() {
		fmt.Println("⚠️ 设备库不可用，以下为默认标定")
	}
	defer loader.ReleaseDLL()

	fmt.Printf("🔌 驱动: %s\n", loader.DriverName())

	display := manager.NewDisplayManager(loader, cfg.Device.DeviceIndex, nil, log)
	if loader.IsAvailable() {
		if err := display.Refresh(); err != nil {
			fmt.Printf("⚠️ %v\n", err)
		}
	}

	for _, d := range display.Devices() {
		marker := " "
		if d.Index == cfg.Device.DeviceIndex {
			marker = "*"
		}
		fmt.Printf("%s [%d] %s %s (%s) %dx%d @ (%d,%d)\n", marker, d.Index,
			d.Settings.DeviceType, d.Calibration.Serial, d.Settings.HDMIName,
			d.Calibration.ScreenWidth, d.Calibration.ScreenHeight,
			d.Settings.WindowX, d.Settings.WindowY)
	}

	cal := display.GetCalibration()
	fmt.Println("-------------------------------------------")
	fmt.Printf("📐 分辨率:   %dx%d (%s)\n", cal.ScreenWidth, cal.ScreenHeight, cal.Orientation)
	fmt.Printf("📐 原点:     (%d,%d)\n", cal.OriginX, cal.OriginY)
	fmt.Printf("🔬 pitch=%.4f slope=%.4f center=%.4f viewCone=%.1f dpi=%.1f\n",
		cal.Pitch, cal.Slope, cal.Center, cal.ViewCone, cal.DPI)
	fmt.Printf("🔁 invView=%v flipX=%v flipY=%v\n", cal.InvView, cal.FlipImageX, cal.FlipImageY)

	capacity, err := manager.HostCapacity()
	if err != nil {
		fmt.Printf("⚠️ %v\n", err)
		return
	}
	fmt.Printf("🖥️ CPU %d 核, 内存 %.1f GiB, 建议画质档位 %d\n",
		capacity.LogicalCPUs, float64(capacity.TotalMemory)/(1<<30), manager.TierFor(capacity))
}
