// Package tracker 实现活动条目协调器
// 维护"每用户至多一个活动条目"不变式，驱动开始/停止/编辑操作，
// 并在事务提交后发布条目状态变更事件
package tracker

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/timeflow/backend/internal/domain/entry"
	"github.com/timeflow/backend/internal/domain/events"
	"github.com/timeflow/backend/internal/infrastructure/log"
	"github.com/timeflow/backend/internal/infrastructure/storage"
)

// TrackerService 活动条目协调服务
type TrackerService struct {
	db        *sql.DB
	publisher EventPublisher
	logger    *slog.Logger
	// now 可注入时钟（测试用）
	now func() time.Time
}

// NewTrackerService 创建协调服务
func NewTrackerService(db *sql.DB, publisher EventPublisher) *TrackerService {
	return &TrackerService{
		db:        db,
		publisher: publisher,
		logger:    log.NewModuleLogger("tracker", "service"),
		now:       time.Now,
	}
}

// StartResult 开始计时的结果
type StartResult struct {
	// Started 新建的活动条目
	Started *entry.TimeEntry
	// Stopped 被隐式停止的前一个活动条目，没有则为 nil
	Stopped *entry.TimeEntry
}

// Start 开始一个新条目
// 已有活动条目时先将其停止（隐式 auto-stop），整个序列在一个事务内完成，
// 要么两个变更都提交要么都不提交
func (s *TrackerService) Start(ctx context.Context, ownerID, title string, tags []string, metadata map[string]string) (*StartResult, error) {
	return s.create(ctx, ownerID, title, tags, metadata, true)
}

// Create 创建条目，autoStop 为 false 时已有活动条目会返回 ErrActiveExists
// 调用方必须显式选择 auto-stop 语义
func (s *TrackerService) Create(ctx context.Context, ownerID, title string, tags []string, metadata map[string]string, autoStop bool) (*StartResult, error) {
	return s.create(ctx, ownerID, title, tags, metadata, autoStop)
}

func (s *TrackerService) create(ctx context.Context, ownerID, title string, tags []string, metadata map[string]string, autoStop bool) (*StartResult, error) {
	if strings.TrimSpace(title) == "" {
		return nil, entry.ErrTitleRequired
	}

	result := &StartResult{}
	var pending []*events.EntryEvent

	err := storage.WithTx(ctx, s.db, func(ctx context.Context, tx storage.DBTX) error {
		repo := storage.NewEntryRepository(tx)

		active, err := repo.FindActiveByOwner(ctx, ownerID)
		if err != nil {
			return err
		}

		now := s.now()

		if active != nil {
			if !autoStop {
				return entry.ErrActiveExists
			}
			active.Stop(now)
			if err := repo.Update(ctx, active); err != nil {
				return err
			}
			result.Stopped = active
			pending = append(pending, stoppedEvent(active, now))
		}

		started := &entry.TimeEntry{
			OwnerID:   ownerID,
			Title:     title,
			Tags:      tags,
			Metadata:  metadata,
			StartTime: now,
		}
		// 应用层检查只是快路径，并发 start 由存储层唯一索引兜底，
		// 索引冲突同样表现为 ErrActiveExists
		if err := repo.Create(ctx, started); err != nil {
			return err
		}
		result.Started = started
		pending = append(pending, startedEvent(started, now))

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishCommitted(ownerID, pending)
	return result, nil
}

// StopActive 停止当前活动条目
// 没有活动条目时返回 (nil, nil)，表示无事可做而非错误
func (s *TrackerService) StopActive(ctx context.Context, ownerID string) (*entry.TimeEntry, error) {
	var stopped *entry.TimeEntry
	var pending []*events.EntryEvent

	err := storage.WithTx(ctx, s.db, func(ctx context.Context, tx storage.DBTX) error {
		repo := storage.NewEntryRepository(tx)

		active, err := repo.FindActiveByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if active == nil {
			return nil
		}

		now := s.now()
		active.Stop(now)
		if err := repo.Update(ctx, active); err != nil {
			return err
		}
		stopped = active
		pending = append(pending, stoppedEvent(active, now))

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishCommitted(ownerID, pending)
	return stopped, nil
}

// Update 全量更新条目
// 活动条目不接受结束时间；已停止条目必须给出严格晚于开始时间的结束时间
func (s *TrackerService) Update(ctx context.Context, ownerID, id, title string, start time.Time, end *time.Time, tags []string) (*entry.TimeEntry, error) {
	if strings.TrimSpace(title) == "" {
		return nil, entry.ErrTitleRequired
	}

	return s.updateEntry(ctx, ownerID, id, func(e *entry.TimeEntry) error {
		if e.IsActive() {
			if end != nil {
				return entry.ErrEntryActive
			}
		} else {
			if end == nil {
				return entry.ErrEndTimeRequired
			}
			if !end.After(start) {
				return entry.ErrInvalidTimeRange
			}
		}
		e.Title = title
		e.StartTime = start
		e.EndTime = end
		e.Tags = tags
		return nil
	})
}

// UpdateTitle 只更新标题
func (s *TrackerService) UpdateTitle(ctx context.Context, ownerID, id, title string) (*entry.TimeEntry, error) {
	if strings.TrimSpace(title) == "" {
		return nil, entry.ErrTitleRequired
	}

	return s.updateEntry(ctx, ownerID, id, func(e *entry.TimeEntry) error {
		e.Title = title
		return nil
	})
}

// UpdateStartTime 只更新开始时间
// 已停止的条目需保持结束时间严格晚于新的开始时间
func (s *TrackerService) UpdateStartTime(ctx context.Context, ownerID, id string, start time.Time) (*entry.TimeEntry, error) {
	return s.updateEntry(ctx, ownerID, id, func(e *entry.TimeEntry) error {
		if e.EndTime != nil && !e.EndTime.After(start) {
			return entry.ErrInvalidTimeRange
		}
		e.StartTime = start
		return nil
	})
}

// UpdateEndTime 只更新结束时间
// 活动条目不接受结束时间（不会通过编辑将其停止）
func (s *TrackerService) UpdateEndTime(ctx context.Context, ownerID, id string, end time.Time) (*entry.TimeEntry, error) {
	return s.updateEntry(ctx, ownerID, id, func(e *entry.TimeEntry) error {
		if e.IsActive() {
			return entry.ErrEntryActive
		}
		if !end.After(e.StartTime) {
			return entry.ErrInvalidTimeRange
		}
		e.EndTime = &end
		return nil
	})
}

// updateEntry 在事务内解析条目并应用变更
// 编辑不产生事件：条目状态（活动/停止）不会被编辑改变
func (s *TrackerService) updateEntry(ctx context.Context, ownerID, id string, mutate func(*entry.TimeEntry) error) (*entry.TimeEntry, error) {
	var updated *entry.TimeEntry

	err := storage.WithTx(ctx, s.db, func(ctx context.Context, tx storage.DBTX) error {
		repo := storage.NewEntryRepository(tx)

		e, err := repo.FindByIDAndOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if err := mutate(e); err != nil {
			return err
		}
		if err := repo.Update(ctx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// BulkUpdate 批量重写标题和标签，全部成功或全部不变
// 任何一个 ID 解析失败（不存在或属于他人）都会使整个操作失败回滚；
// 开始/结束时间保持原样
func (s *TrackerService) BulkUpdate(ctx context.Context, ownerID string, ids []string, title string, tags []string) ([]*entry.TimeEntry, error) {
	if len(ids) == 0 {
		return nil, entry.ErrEmptyIDList
	}
	if strings.TrimSpace(title) == "" {
		return nil, entry.ErrTitleRequired
	}

	var updated []*entry.TimeEntry

	err := storage.WithTx(ctx, s.db, func(ctx context.Context, tx storage.DBTX) error {
		repo := storage.NewEntryRepository(tx)
		updated = updated[:0]

		for _, id := range ids {
			e, err := repo.FindByIDAndOwner(ctx, id, ownerID)
			if err != nil {
				return err
			}
			e.Title = title
			e.Tags = tags
			if err := repo.Update(ctx, e); err != nil {
				return err
			}
			updated = append(updated, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete 删除条目，任何状态下都可删除且不可恢复，不产生事件
func (s *TrackerService) Delete(ctx context.Context, ownerID, id string) error {
	return storage.WithTx(ctx, s.db, func(ctx context.Context, tx storage.DBTX) error {
		return storage.NewEntryRepository(tx).Delete(ctx, id, ownerID)
	})
}

// ActiveEntry 查询当前活动条目，没有时返回 (nil, nil)
func (s *TrackerService) ActiveEntry(ctx context.Context, ownerID string) (*entry.TimeEntry, error) {
	return storage.NewEntryRepository(s.db).FindActiveByOwner(ctx, ownerID)
}

// ListByOwner 查询用户的全部条目
func (s *TrackerService) ListByOwner(ctx context.Context, ownerID string) ([]*entry.TimeEntry, error) {
	return storage.NewEntryRepository(s.db).FindByOwner(ctx, ownerID)
}

// publishCommitted 在事务提交确认之后发布挂起事件
// 事务回滚时挂起事件随调用栈丢弃，订阅者不会看到未提交的数据；
// 发布失败（无订阅者、缓冲区满）不影响已提交的变更
func (s *TrackerService) publishCommitted(ownerID string, pending []*events.EntryEvent) {
	for _, ev := range pending {
		s.publisher.Publish(ownerID, ev)
	}
}

// startedEvent 构造条目开始事件
func startedEvent(e *entry.TimeEntry, at time.Time) *events.EntryEvent {
	return &events.EntryEvent{
		EventType: events.EntryStarted,
		EntryID:   e.ID,
		OwnerID:   e.OwnerID,
		Title:     e.Title,
		EventTime: at,
	}
}

// stoppedEvent 构造条目停止事件
func stoppedEvent(e *entry.TimeEntry, at time.Time) *events.EntryEvent {
	return &events.EntryEvent{
		EventType: events.EntryStopped,
		EntryID:   e.ID,
		OwnerID:   e.OwnerID,
		Title:     e.Title,
		EventTime: at,
	}
}
