package events

import "time"

// EntryEvent 时间条目状态变更事件
// 在条目开始或停止计时的事务提交后发布
type EntryEvent struct {
	// EventType 事件类型（entry.started / entry.stopped）
	EventType EventType
	// EntryID 条目 ID
	EntryID string
	// OwnerID 条目所属用户 ID，决定事件投递到哪个用户通道
	OwnerID string
	// Title 条目标题
	Title string
	// EventTime 事件发生时间
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *EntryEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *EntryEvent) Timestamp() time.Time {
	return e.EventTime
}
