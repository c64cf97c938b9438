package tracker

import "github.com/timeflow/backend/internal/domain/events"

// EventPublisher 事件发布接口（定义在 application 层）
// 这是应用层需要的技术能力，不是领域概念；由 eventbus.Bus 实现
//
// 发布必须是非阻塞且不返回错误的：事件通道只是实时性优化，
// 投递失败绝不能影响已提交的业务操作
type EventPublisher interface {
	Publish(ownerID string, event events.Event)
}
