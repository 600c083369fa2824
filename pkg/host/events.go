package host

import "sync"

// Event 宿主事件名
type Event string

const (
	EventPostEngineInit         Event = "post-engine-init"
	EventViewportCreated        Event = "viewport-created"
	EventViewportCloseRequested Event = "viewport-close-requested"
)

// Handler 事件处理函数，payload 由事件决定（可能为 nil）
type Handler func(payload any)

// Subscription 订阅句柄
type Subscription struct {
	event Event
	id    uint64
}

// Valid 是否为有效订阅
func (s Subscription) Valid() bool {
	return s.id != 0
}

type handlerEntry struct {
	id uint64
	fn Handler
}

// Bus 同步事件总线：Publish 在调用方线程依次执行处理函数
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[Event][]handlerEntry
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{handlers: make(map[Event][]handlerEntry)}
}

// Subscribe 订阅事件
func (b *Bus) Subscribe(ev Event, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[ev] = append(b.handlers[ev], handlerEntry{id: b.nextID, fn: fn})
	return Subscription{event: ev, id: b.nextID}
}

// Unsubscribe 取消订阅，重复取消是安全的
func (b *Bus) Unsubscribe(sub Subscription) {
	if !sub.Valid() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[sub.event]
	for i, h := range list {
		if h.id == sub.id {
			b.handlers[sub.event] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Publish 同步派发事件
func (b *Bus) Publish(ev Event, payload any) {
	// 复制一份，允许处理函数在派发过程中订阅/取消订阅
	b.mu.Lock()
	list := append([]handlerEntry(nil), b.handlers[ev]...)
	b.mu.Unlock()

	for _, h := range list {
		h.fn(payload)
	}
}

// Count 当前订阅数量
func (b *Bus) Count(ev Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[ev])
}
