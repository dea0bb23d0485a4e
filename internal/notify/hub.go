package notify

import (
	"context"
	"sync"
)

const subscriberBuffer = 32

// Hub 是进程内的发布/订阅中心。慢订阅者的消息会被丢弃，不阻塞发布方。
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Message
}

// NewHub 创建空的 Hub。
func NewHub() *Hub {
	return &Hub{subs: map[int]chan Message{}}
}

// Subscribe 注册订阅者，返回消息通道与取消函数。取消后通道会被关闭。
func (h *Hub) Subscribe() (<-chan Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Message, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Publish 向所有订阅者投递消息。
func (h *Hub) Publish(_ context.Context, msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribers 返回当前订阅者数量。
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
