package tracker

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeflow/backend/internal/domain/entry"
	"github.com/timeflow/backend/internal/domain/events"
	"github.com/timeflow/backend/internal/infrastructure/storage"
)

// recordingPublisher 记录发布事件的测试替身
type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.EntryEvent
}

func (p *recordingPublisher) Publish(ownerID string, ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev.(*events.EntryEvent))
}

func (p *recordingPublisher) published() []*events.EntryEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*events.EntryEvent(nil), p.events...)
}

func newTestService(t *testing.T) (*TrackerService, *recordingPublisher, *sql.DB) {
	t.Helper()

	db, err := storage.OpenDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, storage.InitSchema(db))
	t.Cleanup(func() { db.Close() })

	pub := &recordingPublisher{}
	return NewTrackerService(db, pub), pub, db
}

func TestTrackerService_StartFirstEntry(t *testing.T) {
	svc, pub, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Start(ctx, "user-1", "Design", []string{"work"}, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Started)
	assert.Nil(t, result.Stopped)
	assert.True(t, result.Started.IsActive())

	active, err := svc.ActiveEntry(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "Design", active.Title)

	// 只有一条 STARTED 事件
	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EntryStarted, published[0].EventType)
	assert.Equal(t, result.Started.ID, published[0].EntryID)
}

func TestTrackerService_AutoStopThenStart(t *testing.T) {
	svc, pub, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Start(ctx, "user-1", "Design", nil, nil)
	require.NoError(t, err)

	result, err := svc.Start(ctx, "user-1", "Review", nil, nil)
	require.NoError(t, err)

	// Design 被停止，Review 成为活动条目
	require.NotNil(t, result.Stopped)
	assert.Equal(t, first.Started.ID, result.Stopped.ID)
	require.NotNil(t, result.Stopped.EndTime)
	assert.True(t, result.Started.IsActive())
	// A.endTime <= B.startTime
	assert.LessOrEqual(t, result.Stopped.EndTime.UnixMilli(), result.Started.StartTime.UnixMilli())

	// 事件顺序：STOPPED(Design) 然后 STARTED(Review)
	published := pub.published()
	require.Len(t, published, 3)
	assert.Equal(t, events.EntryStopped, published[1].EventType)
	assert.Equal(t, "Design", published[1].Title)
	assert.Equal(t, events.EntryStarted, published[2].EventType)
	assert.Equal(t, "Review", published[2].Title)
}

func TestTrackerService_SingleActiveInvariant(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	// 任意已提交的操作序列之后活动条目至多一条
	_, err := svc.Start(ctx, "user-1", "A", nil, nil)
	require.NoError(t, err)
	_, err = svc.Start(ctx, "user-1", "B", nil, nil)
	require.NoError(t, err)
	_, err = svc.StopActive(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.Start(ctx, "user-1", "C", nil, nil)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM time_entries WHERE owner_id = ? AND end_time IS NULL`,
		"user-1").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestTrackerService_CreateWithoutAutoStop(t *testing.T) {
	svc, pub, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, "user-1", "Design", nil, nil)
	require.NoError(t, err)
	eventCount := len(pub.published())

	// 未显式选择 auto-stop 时冲突，且无任何变更、无事件
	_, err = svc.Create(ctx, "user-1", "Review", nil, nil, false)
	assert.ErrorIs(t, err, entry.ErrActiveExists)

	active, err := svc.ActiveEntry(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Design", active.Title)
	assert.Len(t, pub.published(), eventCount)
}

func TestTrackerService_StopActiveNoop(t *testing.T) {
	svc, pub, _ := newTestService(t)
	ctx := context.Background()

	// 没有活动条目时是幂等的 no-op，不是错误
	stopped, err := svc.StopActive(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, stopped)
	assert.Empty(t, pub.published())
}

func TestTrackerService_StopActive(t *testing.T) {
	svc, pub, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Start(ctx, "user-1", "Design", nil, nil)
	require.NoError(t, err)

	stopped, err := svc.StopActive(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, stopped)
	assert.Equal(t, result.Started.ID, stopped.ID)
	require.NotNil(t, stopped.EndTime)

	published := pub.published()
	require.Len(t, published, 2)
	assert.Equal(t, events.EntryStopped, published[1].EventType)
}

func TestTrackerService_BlankTitle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, "user-1", "  ", nil, nil)
	assert.ErrorIs(t, err, entry.ErrTitleRequired)
}

func TestTrackerService_Update_Ownership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Start(ctx, "user-1", "Design", nil, nil)
	require.NoError(t, err)

	// 他人条目不可解析
	_, err = svc.UpdateTitle(ctx, "user-2", result.Started.ID, "Stolen")
	assert.ErrorIs(t, err, entry.ErrEntryNotFound)
}

func TestTrackerService_Update_ActiveRejectsEndTime(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Start(ctx, "user-1", "Design", nil, nil)
	require.NoError(t, err)

	end := time.Now().Add(time.Hour)
	_, err = svc.Update(ctx, "user-1", result.Started.ID, "Design", result.Started.StartTime, &end, nil)
	assert.ErrorIs(t, err, entry.ErrEntryActive)

	_, err = svc.UpdateEndTime(ctx, "user-1", result.Started.ID, end)
	assert.ErrorIs(t, err, entry.ErrEntryActive)
}

func TestTrackerService_Update_StoppedRequiresEndTime(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, "user-1", "Design", nil, nil)
	require.NoError(t, err)
	stopped, err := svc.StopActive(ctx, "user-1")
	require.NoError(t, err)

	// 已停止的条目必须有结束时间
	_, err = svc.Update(ctx, "user-1", stopped.ID, "Design", stopped.StartTime, nil, nil)
	assert.ErrorIs(t, err, entry.ErrEndTimeRequired)

	// 结束时间必须严格晚于开始时间
	badEnd := stopped.StartTime.Add(-time.Minute)
	_, err = svc.Update(ctx, "user-1", stopped.ID, "Design", stopped.StartTime, &badEnd, nil)
	assert.ErrorIs(t, err, entry.ErrInvalidTimeRange)

	// 合法更新
	goodEnd := stopped.StartTime.Add(time.Hour)
	updated, err := svc.Update(ctx, "user-1", stopped.ID, "Design v2", stopped.StartTime, &goodEnd, []string{"ui"})
	require.NoError(t, err)
	assert.Equal(t, "Design v2", updated.Title)
}

func TestTrackerService_UpdateStartTime(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, "user-1", "Design", nil, nil)
	require.NoError(t, err)
	stopped, err := svc.StopActive(ctx, "user-1")
	require.NoError(t, err)

	// 新开始时间晚于结束时间被拒绝
	_, err = svc.UpdateStartTime(ctx, "user-1", stopped.ID, stopped.EndTime.Add(time.Minute))
	assert.ErrorIs(t, err, entry.ErrInvalidTimeRange)

	newStart := stopped.StartTime.Add(-time.Hour)
	updated, err := svc.UpdateStartTime(ctx, "user-1", stopped.ID, newStart)
	require.NoError(t, err)
	assert.Equal(t, newStart.UnixMilli(), updated.StartTime.UnixMilli())
}

func TestTrackerService_BulkUpdate_Atomicity(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	// user-1 的两条已停止条目
	var ids []string
	for _, title := range []string{"A", "B"} {
		r, err := svc.Start(ctx, "user-1", title, nil, nil)
		require.NoError(t, err)
		_, err = svc.StopActive(ctx, "user-1")
		require.NoError(t, err)
		ids = append(ids, r.Started.ID)
	}
	// 第三条属于 user-2
	other, err := svc.Start(ctx, "user-2", "C", nil, nil)
	require.NoError(t, err)
	ids = append(ids, other.Started.ID)

	_, err = svc.BulkUpdate(ctx, "user-1", ids, "Renamed", []string{"bulk"})
	assert.ErrorIs(t, err, entry.ErrEntryNotFound)

	// 全部未变更
	var count int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM time_entries WHERE title = ?`, "Renamed").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestTrackerService_BulkUpdate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	var starts []time.Time
	for _, title := range []string{"A", "B"} {
		r, err := svc.Start(ctx, "user-1", title, nil, nil)
		require.NoError(t, err)
		ids = append(ids, r.Started.ID)
		starts = append(starts, r.Started.StartTime)
		_, err = svc.StopActive(ctx, "user-1")
		require.NoError(t, err)
	}

	updated, err := svc.BulkUpdate(ctx, "user-1", ids, "Renamed", []string{"bulk"})
	require.NoError(t, err)
	require.Len(t, updated, 2)

	for i, e := range updated {
		assert.Equal(t, "Renamed", e.Title)
		assert.Equal(t, []string{"bulk"}, e.Tags)
		// 时间保持原样
		assert.Equal(t, starts[i].UnixMilli(), e.StartTime.UnixMilli())
	}
}

func TestTrackerService_BulkUpdate_EmptyIDList(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.BulkUpdate(context.Background(), "user-1", nil, "Renamed", nil)
	assert.ErrorIs(t, err, entry.ErrEmptyIDList)
}

func TestTrackerService_Delete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Start(ctx, "user-1", "Design", nil, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "user-2", result.Started.ID), entry.ErrEntryNotFound)
	require.NoError(t, svc.Delete(ctx, "user-1", result.Started.ID))

	active, err := svc.ActiveEntry(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestTrackerService_NoEventsOnRollback(t *testing.T) {
	svc, pub, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, "user-1", "Design", nil, nil)
	require.NoError(t, err)
	before := len(pub.published())

	// 冲突导致事务失败，挂起事件被丢弃
	_, err = svc.Create(ctx, "user-1", "Review", nil, nil, false)
	require.Error(t, err)
	assert.Len(t, pub.published(), before)
}
