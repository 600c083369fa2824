// Package remote 通过 MQTT 远程控制播放器并广播播放状态
package remote

import (
	"fmt"
	"sync"
	"time"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/manager"
	"github.com/XR-lab/LookingGlass/model"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const queueSize = 8

// Commander 执行远程命令的播放控制器
type Commander interface {
	StartPlayer(mode model.PresentationMode) error
	StopPlayer()
	RestartPlayer(mode model.PresentationMode) error
}

// Options 远程管理器参数
type Options struct {
	Settings    config.RemoteSettings
	DefaultMode model.PresentationMode
	Clock       clockwork.Clock
	Dial        DialFunc
	Log         logrus.FieldLogger
}

// Manager 远程控制管理器：MQTT 回调只入队，命令在宿主线程 Drain 时执行
type Manager struct {
	opts  Options
	clock clockwork.Clock
	log   logrus.FieldLogger
	queue *queue

	mu     sync.Mutex
	client *Client
	status model.PlayerStatus

	ticker clockwork.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

var _ manager.Manager = (*Manager)(nil)

// New 创建远程管理器
func New(opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Dial == nil {
		opts.Dial = Dial
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Manager{
		opts:  opts,
		clock: opts.Clock,
		log:   opts.Log.WithField("manager", "remote"),
		queue: newQueue(queueSize),
	}
}

func (m *Manager) Name() string { return "remote" }

// Enabled 是否启用远程控制
func (m *Manager) Enabled() bool { return m.opts.Settings.Enabled }

func (m *Manager) Init() error {
	if !m.Enabled() {
		return nil
	}

	client, err := m.opts.Dial(m.opts.Settings, m.log)
	if err != nil {
		return fmt.Errorf("连接远程控制 Broker 失败: %w", err)
	}
	if err := client.SubscribeCommands(m.handlePayload); err != nil {
		client.Close()
		return err
	}

	m.mu.Lock()
	m.client = client
	m.status = model.PlayerStatus{Playing: false, Mode: "idle", Timestamp: m.now()}
	m.mu.Unlock()
	m.publish()

	if sec := m.opts.Settings.HeartbeatSeconds; sec > 0 {
		m.ticker = m.clock.NewTicker(time.Duration(sec) * time.Second)
		m.done = make(chan struct{})
		m.wg.Add(1)
		go m.heartbeat()
	}
	return nil
}

func (m *Manager) Release() {
	if m.done != nil {
		close(m.done)
		m.wg.Wait()
		m.ticker.Stop()
		m.done = nil
	}

	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()
	if client != nil {
		client.Close()
	}
}

func (m *Manager) OnStartPlayer(mode model.PresentationMode) error {
	m.setStatus(true, mode.String())
	return nil
}

func (m *Manager) OnStopPlayer() {
	m.setStatus(false, "idle")
}

// Status 最近一次广播的状态
func (m *Manager) Status() model.PlayerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Pending 排队中的命令数
func (m *Manager) Pending() int {
	return m.queue.len()
}

// Enqueue 直接投递命令（本地调试或测试）
func (m *Manager) Enqueue(cmd Command) error {
	if err := Validate(cmd); err != nil {
		return err
	}
	m.enqueue(cmd)
	return nil
}

func (m *Manager) enqueue(cmd Command) {
	if !m.queue.push(cmd) {
		m.log.Warn("⚠️  命令队列已满，丢弃最旧的命令")
	}
}

// Drain 在宿主线程执行排队的命令，返回执行数量
func (m *Manager) Drain(c Commander) int {
	cmds := m.queue.drain()
	for _, cmd := range cmds {
		mode := cmd.ModeOr(m.opts.DefaultMode)
		entry := m.log.WithField("action", cmd.Action)

		var err error
		switch cmd.Action {
		case ActionStart:
			err = c.StartPlayer(mode)
		case ActionStop:
			c.StopPlayer()
		case ActionRestart:
			err = c.RestartPlayer(mode)
		}
		if err != nil {
			entry.WithError(err).Warn("远程命令执行失败")
			continue
		}
		entry.Info("📥 远程命令已执行")
	}
	return len(cmds)
}

func (m *Manager) handlePayload(payload []byte) {
	cmd, err := ParseCommand(payload)
	if err != nil {
		m.log.WithError(err).Warn("⚠️  命令无效")
		return
	}
	m.enqueue(cmd)
}

func (m *Manager) setStatus(playing bool, mode string) {
	m.mu.Lock()
	m.status = model.PlayerStatus{Playing: playing, Mode: mode, Timestamp: m.now()}
	m.mu.Unlock()
	m.publish()
}

func (m *Manager) heartbeat() {
	defer m.wg.Done()
	for {
		select {
		case <-m.ticker.Chan():
			m.mu.Lock()
			m.status.Timestamp = m.now()
			m.mu.Unlock()
			m.publish()
		case <-m.done:
			return
		}
	}
}

// publish 广播当前状态，未连接时忽略
func (m *Manager) publish() {
	m.mu.Lock()
	client := m.client
	status := m.status
	m.mu.Unlock()
	if client == nil {
		return
	}

	payload, err := EncodeStatus(status)
	if err != nil {
		m.log.WithError(err).Error("❌ 序列化状态失败")
		return
	}
	if err := client.PublishStatus(payload); err != nil {
		m.log.WithError(err).Warn("❌ 广播状态失败")
		return
	}
	m.log.WithFields(logrus.Fields{"playing": status.Playing, "mode": status.Mode}).Debug("📤 广播状态")
}

func (m *Manager) now() float64 {
	return float64(m.clock.Now().UnixMilli()) / 1000
}

// EncodeStatus 生成状态消息
func EncodeStatus(s model.PlayerStatus) ([]byte, error) {
	payload := []byte(`{}`)
	var err error
	if payload, err = sjson.SetBytes(payload, "playing", s.Playing); err != nil {
		return nil, err
	}
	if payload, err = sjson.SetBytes(payload, "mode", s.Mode); err != nil {
		return nil, err
	}
	if payload, err = sjson.SetBytes(payload, "timestamp", s.Timestamp); err != nil {
		return nil, err
	}
	return payload, nil
}

// DecodeStatus 解析状态消息
func DecodeStatus(payload []byte) (model.PlayerStatus, error) {
	if !gjson.ValidBytes(payload) {
		return model.PlayerStatus{}, fmt.Errorf("状态消息不是合法 JSON")
	}
	r := gjson.ParseBytes(payload)
	return model.PlayerStatus{
		Playing:   r.Get("playing").Bool(),
		Mode:      r.Get("mode").String(),
		Timestamp: r.Get("timestamp").Float(),
	}, nil
}
