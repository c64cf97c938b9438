// Package entry 定义时间条目领域模型
// 一个条目代表一段计时的工作：EndTime 为 nil 表示正在计时（活动条目）
package entry

import "time"

// TimeEntry 时间条目实体
// 不变式：同一 OwnerID 下最多只有一条 EndTime 为 nil 的已提交记录
type TimeEntry struct {
	ID        string
	OwnerID   string
	Title     string
	Tags      []string
	Metadata  map[string]string
	StartTime time.Time
	// EndTime 结束时间，nil 表示条目仍在计时
	EndTime   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive 判断条目是否正在计时
func (e *TimeEntry) IsActive() bool {
	return e.EndTime == nil
}

// Stop 以给定时间结束计时
// 已停止的条目不会被重新激活，调用方需先检查 IsActive
func (e *TimeEntry) Stop(at time.Time) {
	e.EndTime = &at
}
