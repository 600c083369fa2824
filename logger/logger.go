package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/sirupsen/logrus"
)

// New 根据配置创建日志器：同时写入控制台与日志文件（如果配置了）
func New(cfg config.LogSettings) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	level := logrus.InfoLevel
	if s := strings.TrimSpace(cfg.Level); s != "" {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, nil, fmt.Errorf("日志级别无效: %w", err)
		}
		level = parsed
	}
	log.SetLevel(level)

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return log, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("创建日志目录失败: %w", err)
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	return log, file, nil
}

// WithComponent 返回带组件字段的日志入口
func WithComponent(log logrus.FieldLogger, component string) *logrus.Entry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return log.WithField("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
