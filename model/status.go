package model

// PlayerStatus 播放器状态（远程广播用）
type PlayerStatus struct {
	Playing   bool    `json:"playing"`   // 是否正在播放
	Mode      string  `json:"mode"`      // 当前呈现模式
	Timestamp float64 `json:"timestamp"` // 状态产生时间（Unix 秒）
}

// IsZero 检查是否为零值
func (s PlayerStatus) IsZero() bool {
	return !s.Playing && s.Mode == "" && s.Timestamp == 0
}
