package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/sirupsen/logrus"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "player.log")

	log, closer, err := New(config.LogSettings{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %v", log.GetLevel())
	}

	WithComponent(log, "player").Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "component=player") {
		t.Errorf("Log file missing component field: %s", data)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, _, err := New(config.LogSettings{Level: "chatty"}); err == nil {
		t.Fatal("Expected error for unknown level")
	}
}

func TestNewDefaultsToInfo(t *testing.T) {
	log, _, err := New(config.LogSettings{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level, got %v", log.GetLevel())
	}
}
