package model

// Orientation 显示器方向
type Orientation int

const (
	Landscape Orientation = iota
	Portrait
)

func (o Orientation) String() string {
	if o == Portrait {
		return "Portrait"
	}
	return "Landscape"
}

// DisplayCalibration 设备标定数据快照
type DisplayCalibration struct {
	Serial       string
	ScreenWidth  int
	ScreenHeight int
	OriginX      int
	OriginY      int
	Orientation  Orientation

	Pitch      float64
	Slope      float64
	Center     float64
	ViewCone   float64
	DPI        float64
	InvView    bool
	FlipImageX bool
	FlipImageY bool
}

// DefaultCalibration 设备不可用时使用的默认标定
func DefaultCalibration() DisplayCalibration {
	return DisplayCalibration{
		ScreenWidth:  2560,
		ScreenHeight: 1600,
		Orientation:  Landscape,
		Pitch:        47.58,
		Slope:        -5.44,
		Center:       0.375,
		ViewCone:     40,
		DPI:          338,
		InvView:      true,
	}
}

// OrientationFor 根据分辨率推导方向
func OrientationFor(width, height int) Orientation {
	if height > width {
		return Portrait
	}
	return Landscape
}

// DisplaySettings 设备在桌面中的实时位置
type DisplaySettings struct {
	DeviceIndex int
	HDMIName    string
	DeviceType  string
	WindowX     int
	WindowY     int
}

// QualityLevels 引擎画质分组（0-3）
type QualityLevels struct {
	Resolution   int
	ViewDistance int
	AntiAliasing int
	Shadow       int
	PostProcess  int
	Texture      int
	Effects      int
	Foliage      int
}

// UniformQuality 所有分组使用同一级别
func UniformQuality(level int) QualityLevels {
	return QualityLevels{
		Resolution:   level,
		ViewDistance: level,
		AntiAliasing: level,
		Shadow:       level,
		PostProcess:  level,
		Texture:      level,
		Effects:      level,
		Foliage:      level,
	}
}
