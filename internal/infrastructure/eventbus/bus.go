// Package eventbus 提供按用户分组的事件多播
// 同一用户的多个订阅者（多标签页/多设备）各自收到全部事件；
// 发布从不阻塞，投递为尽力而为，数据正确性只由存储层保证
package eventbus

import (
	"log/slog"
	"sync"

	"github.com/timeflow/backend/internal/domain/events"
	"github.com/timeflow/backend/internal/infrastructure/config"
	"github.com/timeflow/backend/internal/infrastructure/log"
)

// Bus 按用户多播的事件总线
type Bus struct {
	// channels ownerID -> 用户通道
	// 通道在首次订阅时懒创建，创建后不再回收（进程生命周期内每个
	// 出现过的用户最多残留一个空结构，见 DESIGN.md）
	channels map[string]*ownerChannel
	// bufferSize 每个订阅者的缓冲区大小
	bufferSize int
	mu         sync.RWMutex
	logger     *slog.Logger
}

// ownerChannel 单个用户的订阅者集合
type ownerChannel struct {
	mu          sync.Mutex
	subscribers map[*Subscription]struct{}
}

// Subscription 一个订阅者的消费句柄
type Subscription struct {
	ownerID string
	ch      chan events.Event
	owner   *ownerChannel
	once    sync.Once
}

// Events 返回事件消费通道，订阅关闭后通道被关闭
func (s *Subscription) Events() <-chan events.Event {
	return s.ch
}

// Close 取消订阅
// 只移除当前订阅者，同一用户的其他订阅不受影响
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.owner.mu.Lock()
		delete(s.owner.subscribers, s)
		close(s.ch)
		s.owner.mu.Unlock()
	})
}

// NewBus 创建事件总线
func NewBus(cfg *config.StreamConfig) *Bus {
	bufferSize := 16
	if cfg != nil && cfg.EventBufferSize > 0 {
		bufferSize = cfg.EventBufferSize
	}
	return &Bus{
		channels:   make(map[string]*ownerChannel),
		bufferSize: bufferSize,
		logger:     log.NewModuleLogger("eventbus", "bus"),
	}
}

// Subscribe 订阅指定用户的事件
// 用户通道不存在时创建（首次订阅者负责创建，后续订阅者复用）
func (b *Bus) Subscribe(ownerID string) *Subscription {
	b.mu.Lock()
	oc, ok := b.channels[ownerID]
	if !ok {
		oc = &ownerChannel{subscribers: make(map[*Subscription]struct{})}
		b.channels[ownerID] = oc
	}
	b.mu.Unlock()

	sub := &Subscription{
		ownerID: ownerID,
		ch:      make(chan events.Event, b.bufferSize),
		owner:   oc,
	}

	oc.mu.Lock()
	oc.subscribers[sub] = struct{}{}
	oc.mu.Unlock()

	return sub
}

// Publish 向指定用户的所有订阅者发布事件，从不阻塞
// 通道不存在（该用户从未订阅）时静默丢弃，不会补投给之后的订阅者；
// 订阅者缓冲区满时丢弃其最旧的一条事件（drop-oldest）
func (b *Bus) Publish(ownerID string, event events.Event) {
	b.mu.RLock()
	oc, ok := b.channels[ownerID]
	b.mu.RUnlock()

	if !ok {
		b.logger.Debug("no channel for owner, event dropped",
			"owner_id", ownerID,
			"type", event.Type(),
		)
		return
	}

	oc.mu.Lock()
	defer oc.mu.Unlock()

	for sub := range oc.subscribers {
		select {
		case sub.ch <- event:
		default:
			// 缓冲区满：丢最旧，保最新
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- event:
			default:
			}
			b.logger.Warn("subscriber buffer full, oldest event dropped",
				"owner_id", ownerID,
				"type", event.Type(),
			)
		}
	}
}

// SubscriberCount 返回指定用户当前的订阅者数量（仅用于测试和诊断）
func (b *Bus) SubscriberCount(ownerID string) int {
	b.mu.RLock()
	oc, ok := b.channels[ownerID]
	b.mu.RUnlock()

	if !ok {
		return 0
	}

	oc.mu.Lock()
	defer oc.mu.Unlock()
	return len(oc.subscribers)
}
