package entry

import "errors"

// 校验相关错误
var (
	// ErrTitleRequired 标题必填
	ErrTitleRequired = errors.New("entry title is required")
	// ErrEmptyIDList 批量更新的 ID 列表为空
	ErrEmptyIDList = errors.New("entry id list is empty")
	// ErrInvalidTimeRange 结束时间必须晚于开始时间
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	// ErrEndTimeRequired 已停止的条目必须有结束时间
	ErrEndTimeRequired = errors.New("end time is required for a stopped entry")
	// ErrEntryActive 活动条目不能设置结束时间
	ErrEntryActive = errors.New("cannot set end time on an active entry")
)

// 状态相关错误
var (
	// ErrActiveExists 已存在活动条目
	ErrActiveExists = errors.New("an active entry already exists")
	// ErrEntryNotFound 条目不存在或不属于当前用户
	// 不区分"不存在"和"属于他人"，避免泄露他人条目的存在性
	ErrEntryNotFound = errors.New("entry not found")
)
