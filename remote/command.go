package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/XR-lab/LookingGlass/model"
)

// ErrInvalidCommand 无法执行的远程命令
var ErrInvalidCommand = errors.New("无效的远程命令")

// Action 远程命令动作
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
)

// Command 远程命令
type Command struct {
	Action Action `json:"action"`
	Mode   string `json:"mode,omitempty"` // window | viewport，留空使用默认模式
}

// ParseCommand 解析并校验命令
func ParseCommand(payload []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return Command{}, fmt.Errorf("%w: JSON 解析失败: %v", ErrInvalidCommand, err)
	}
	cmd.Action = Action(strings.ToLower(strings.TrimSpace(string(cmd.Action))))
	if err := Validate(cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// Validate 校验命令
func Validate(cmd Command) error {
	switch cmd.Action {
	case ActionStart, ActionRestart:
		if cmd.Mode == "" {
			return nil
		}
		if _, err := model.ParsePresentationMode(cmd.Mode); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
		return nil
	case ActionStop:
		return nil
	case "":
		return fmt.Errorf("%w: 缺少 action", ErrInvalidCommand)
	default:
		return fmt.Errorf("%w: 未知的 action %q", ErrInvalidCommand, cmd.Action)
	}
}

// ModeOr 命令指定的模式，未指定时返回 def
func (c Command) ModeOr(def model.PresentationMode) model.PresentationMode {
	if c.Mode == "" {
		return def
	}
	mode, err := model.ParsePresentationMode(c.Mode)
	if err != nil {
		return def
	}
	return mode
}
