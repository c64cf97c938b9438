// Package events 定义领域事件类型和接口
// 事件仅作为已提交变更的副作用产生，从不落库，投递为尽力而为
package events

import "time"

// EventType 事件类型标识
type EventType string

// 时间条目相关事件类型
const (
	// EntryStarted 条目开始计时事件
	EntryStarted EventType = "entry.started"
	// EntryStopped 条目停止计时事件
	EntryStopped EventType = "entry.stopped"
)

// Event 领域事件接口
// 所有事件类型都必须实现此接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Timestamp 返回事件发生时间
	Timestamp() time.Time
}
