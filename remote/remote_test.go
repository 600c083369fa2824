package remote

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/XR-lab/LookingGlass/config"
	"github.com/XR-lab/LookingGlass/model"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/tidwall/gjson"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

type publication struct {
	topic    string
	retained bool
	payload  []byte
}

// fakeClient 内存 MQTT 客户端
type fakeClient struct {
	mqtt.Client

	mu           sync.Mutex
	handlers     map[string]mqtt.MessageHandler
	published    chan publication
	disconnected bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		handlers:  make(map[string]mqtt.MessageHandler),
		published: make(chan publication, 16),
	}
}

func (c *fakeClient) Subscribe(topic string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = cb
	return &fakeToken{}
}

func (c *fakeClient) Publish(topic string, _ byte, retained bool, payload interface{}) mqtt.Token {
	var data []byte
	switch p := payload.(type) {
	case []byte:
		data = p
	case string:
		data = []byte(p)
	}
	c.published <- publication{topic: topic, retained: retained, payload: data}
	return &fakeToken{}
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.disconnected
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
}

func (c *fakeClient) deliver(t *testing.T, topic, payload string) {
	t.Helper()
	c.mu.Lock()
	cb := c.handlers[topic]
	c.mu.Unlock()
	if cb == nil {
		t.Fatalf("No subscription for %s", topic)
	}
	cb(c, &fakeMessage{topic: topic, payload: []byte(payload)})
}

func (c *fakeClient) next(t *testing.T) publication {
	t.Helper()
	select {
	case p := <-c.published:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for publication")
		return publication{}
	}
}

type call struct {
	action Action
	mode   model.PresentationMode
}

type fakeCommander struct {
	calls    []call
	startErr error
}

func (f *fakeCommander) StartPlayer(mode model.PresentationMode) error {
	f.calls = append(f.calls, call{ActionStart, mode})
	return f.startErr
}

func (f *fakeCommander) StopPlayer() {
	f.calls = append(f.calls, call{action: ActionStop})
}

func (f *fakeCommander) RestartPlayer(mode model.PresentationMode) error {
	f.calls = append(f.calls, call{ActionRestart, mode})
	return nil
}

func newTestManager(t *testing.T, heartbeat int) (*Manager, *fakeClient, clockwork.FakeClock) {
	t.Helper()
	log, _ := test.NewNullLogger()
	fake := newFakeClient()
	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	m := New(Options{
		Settings: config.RemoteSettings{
			Enabled:          true,
			Topic:            "lookingglass/player",
			HeartbeatSeconds: heartbeat,
		},
		DefaultMode: model.SeparateWindow,
		Clock:       clock,
		Dial: func(cfg config.RemoteSettings, log logrus.FieldLogger) (*Client, error) {
			return NewClient(fake, cfg.Topic, log), nil
		},
		Log: log,
	})
	if err := m.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(m.Release)
	return m, fake, clock
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"action":"Start","mode":"viewport"}`))
	if err != nil {
		t.Fatalf("ParseCommand failed: %v", err)
	}
	if cmd.Action != ActionStart || cmd.ModeOr(model.SeparateWindow) != model.MainViewport {
		t.Errorf("Unexpected command %+v", cmd)
	}

	for _, payload := range []string{`{`, `{"action":"jump"}`, `{"mode":"window"}`, `{"action":"start","mode":"hologram"}`} {
		if _, err := ParseCommand([]byte(payload)); !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("Expected ErrInvalidCommand for %s, got %v", payload, err)
		}
	}
}

func TestQueueDropsOldest(t *testing.T) {
	q := newQueue(2)
	q.push(Command{Action: ActionStart})
	q.push(Command{Action: ActionStop})
	if q.push(Command{Action: ActionRestart}) {
		t.Error("Expected push to report a dropped command")
	}

	got := q.drain()
	if len(got) != 2 || got[0].Action != ActionStop || got[1].Action != ActionRestart {
		t.Errorf("Unexpected queue contents %+v", got)
	}
	if q.len() != 0 {
		t.Errorf("Queue should be empty, got %d", q.len())
	}
}

func TestManagerPublishesStatus(t *testing.T) {
	m, fake, _ := newTestManager(t, 0)

	initial := fake.next(t)
	if initial.topic != "lookingglass/player/status" || !initial.retained {
		t.Errorf("Unexpected initial publication %+v", initial)
	}
	if gjson.GetBytes(initial.payload, "playing").Bool() {
		t.Error("Initial status should not be playing")
	}

	m.OnStartPlayer(model.MainViewport)
	p := fake.next(t)
	if !gjson.GetBytes(p.payload, "playing").Bool() || gjson.GetBytes(p.payload, "mode").String() != "viewport" {
		t.Errorf("Unexpected start status %s", p.payload)
	}
	if got := gjson.GetBytes(p.payload, "timestamp").Float(); got != 1700000000 {
		t.Errorf("Unexpected timestamp %v", got)
	}

	m.OnStopPlayer()
	p = fake.next(t)
	if gjson.GetBytes(p.payload, "playing").Bool() {
		t.Errorf("Unexpected stop status %s", p.payload)
	}
	if m.Status().Playing {
		t.Error("Status should be idle")
	}
}

func TestManagerHeartbeat(t *testing.T) {
	_, fake, clock := newTestManager(t, 10)
	fake.next(t)

	clock.Advance(10 * time.Second)
	p := fake.next(t)
	if got := gjson.GetBytes(p.payload, "timestamp").Float(); got != 1700000010 {
		t.Errorf("Expected heartbeat timestamp 1700000010, got %v", got)
	}
}

func TestManagerDrainsCommands(t *testing.T) {
	m, fake, _ := newTestManager(t, 0)
	fake.next(t)

	fake.deliver(t, "lookingglass/player/command", `{"action":"start"}`)
	fake.deliver(t, "lookingglass/player/command", `{"action":"bogus"}`)
	fake.deliver(t, "lookingglass/player/command", `{"action":"restart","mode":"viewport"}`)
	fake.deliver(t, "lookingglass/player/command", `{"action":"stop"}`)

	if m.Pending() != 3 {
		t.Fatalf("Expected 3 pending commands, got %d", m.Pending())
	}

	cmd := &fakeCommander{startErr: errors.New("busy")}
	if n := m.Drain(cmd); n != 3 {
		t.Errorf("Expected 3 drained commands, got %d", n)
	}
	want := []call{
		{ActionStart, model.SeparateWindow},
		{ActionRestart, model.MainViewport},
		{action: ActionStop},
	}
	if len(cmd.calls) != len(want) {
		t.Fatalf("Expected %v, got %v", want, cmd.calls)
	}
	for i := range want {
		if cmd.calls[i] != want[i] {
			t.Errorf("Call %d: expected %v, got %v", i, want[i], cmd.calls[i])
		}
	}
}

func TestManagerDisabled(t *testing.T) {
	log, _ := test.NewNullLogger()
	dialed := false
	m := New(Options{
		Settings: config.RemoteSettings{Enabled: false},
		Dial: func(config.RemoteSettings, logrus.FieldLogger) (*Client, error) {
			dialed = true
			return nil, errors.New("unexpected")
		},
		Log: log,
	})

	if err := m.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	m.OnStartPlayer(model.SeparateWindow)
	m.OnStopPlayer()
	m.Release()
	if dialed {
		t.Error("Disabled manager should not connect")
	}
}

func TestManagerDialFailure(t *testing.T) {
	log, _ := test.NewNullLogger()
	m := New(Options{
		Settings: config.RemoteSettings{Enabled: true},
		Dial: func(config.RemoteSettings, logrus.FieldLogger) (*Client, error) {
			return nil, errors.New("refused")
		},
		Log: log,
	})
	if err := m.Init(); err == nil {
		t.Fatal("Expected dial error")
	}
	m.Release()
}

func TestReleaseDisconnects(t *testing.T) {
	m, fake, _ := newTestManager(t, 5)
	m.Release()
	if fake.IsConnected() {
		t.Error("Expected client to be disconnected")
	}
}

func TestStatusRoundTrip(t *testing.T) {
	want := model.PlayerStatus{Playing: true, Mode: "viewport", Timestamp: 1700000000.5}
	payload, err := EncodeStatus(want)
	if err != nil {
		t.Fatalf("EncodeStatus failed: %v", err)
	}
	got, err := DecodeStatus(payload)
	if err != nil {
		t.Fatalf("DecodeStatus failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if _, err := DecodeStatus([]byte("offline")); err == nil {
		t.Error("expected error for non-JSON payload")
	}
}

func TestClientRemoteSide(t *testing.T) {
	log, _ := test.NewNullLogger()
	fake := newFakeClient()
	c := NewClient(fake, "lab/lkg", log)

	if c.Topic() != "lab/lkg" {
		t.Errorf("Topic() = %q", c.Topic())
	}

	var got []byte
	if err := c.SubscribeStatus(func(payload []byte) { got = payload }); err != nil {
		t.Fatalf("SubscribeStatus failed: %v", err)
	}
	fake.deliver(t, StatusTopic(c.Topic()), `{"playing":true,"mode":"window"}`)
	if string(got) != `{"playing":true,"mode":"window"}` {
		t.Errorf("status handler got %q", got)
	}

	if err := c.PublishCommand([]byte(`{"action":"stop"}`)); err != nil {
		t.Fatalf("PublishCommand failed: %v", err)
	}
	p := fake.next(t)
	if p.topic != "lab/lkg/command" || p.retained {
		t.Errorf("unexpected publication %+v", p)
	}
}
