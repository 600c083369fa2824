package device

import (
	"fmt"

	"github.com/XR-lab/LookingGlass/model"
	"github.com/tidwall/gjson"
)

// ParseState 解析设备服务状态文档
//
//	{"devices":[{"hdmi":"LKG0001","hardwareInfo":{"windowCoords":[2560,0]},
//	  "calibration":{"serial":"...","screenW":{"value":1536},...}}]}
func ParseState(data []byte) ([]Device, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("设备状态不是合法 JSON")
	}

	devices := gjson.GetBytes(data, "devices")
	if !devices.Exists() || !devices.IsArray() {
		return nil, fmt.Errorf("设备状态缺少 devices 字段")
	}

	var out []Device
	devices.ForEach(func(key, dev gjson.Result) bool {
		out = append(out, parseDevice(int(key.Int()), dev))
		return true
	})
	return out, nil
}

func parseDevice(index int, dev gjson.Result) Device {
	def := model.DefaultCalibration()
	cal := dev.Get("calibration")

	value := func(name string, fallback float64) float64 {
		v := cal.Get(name + ".value")
		if !v.Exists() {
			return fallback
		}
		return v.Float()
	}
	flag := func(name string, fallback bool) bool {
		v := cal.Get(name + ".value")
		if !v.Exists() {
			return fallback
		}
		return v.Float() != 0
	}

	coords := dev.Get("hardwareInfo.windowCoords").Array()
	var x, y int
	if len(coords) >= 2 {
		x, y = int(coords[0].Int()), int(coords[1].Int())
	}

	width := int(value("screenW", float64(def.ScreenWidth)))
	height := int(value("screenH", float64(def.ScreenHeight)))

	return Device{
		Index: index,
		Calibration: model.DisplayCalibration{
			Serial:       cal.Get("serial").String(),
			ScreenWidth:  width,
			ScreenHeight: height,
			OriginX:      x,
			OriginY:      y,
			Orientation:  model.OrientationFor(width, height),
			Pitch:        value("pitch", def.Pitch),
			Slope:        value("slope", def.Slope),
			Center:       value("center", def.Center),
			ViewCone:     value("viewCone", def.ViewCone),
			DPI:          value("DPI", def.DPI),
			InvView:      flag("invView", def.InvView),
			FlipImageX:   flag("flipImageX", def.FlipImageX),
			FlipImageY:   flag("flipImageY", def.FlipImageY),
		},
		Settings: model.DisplaySettings{
			DeviceIndex: index,
			HDMIName:    dev.Get("hdmi").String(),
			DeviceType:  dev.Get("hwid").String(),
			WindowX:     x,
			WindowY:     y,
		},
	}
}
