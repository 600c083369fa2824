package device

import (
	"fmt"
	"os"
)

// FileDriver 从磁盘读取设备状态文档（非 Windows 平台与离线调试）
type FileDriver struct {
	Path string
}

// NewFileDriver 创建文件驱动
func NewFileDriver(path string) *FileDriver {
	return &FileDriver{Path: path}
}

func (d *FileDriver) Name() string { return "statefile" }

func (d *FileDriver) Open() error {
	info, err := os.Stat(d.Path)
	if err != nil {
		return fmt.Errorf("状态文件不可用: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("状态文件是目录: %s", d.Path)
	}
	return nil
}

func (d *FileDriver) StateJSON() ([]byte, error) {
	return os.ReadFile(d.Path)
}

func (d *FileDriver) Close() error { return nil }
