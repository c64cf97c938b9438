package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeflow/backend/internal/domain/entry"
)

// newTestDB 创建内存数据库
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, InitSchema(db))

	t.Cleanup(func() { db.Close() })
	return db
}

func newActiveEntry(ownerID, title string) *entry.TimeEntry {
	return &entry.TimeEntry{
		OwnerID:   ownerID,
		Title:     title,
		Tags:      []string{"work"},
		StartTime: time.Now(),
	}
}

func TestEntryRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	e := newActiveEntry("user-1", "Design")
	require.NoError(t, repo.Create(ctx, e))
	require.NotEmpty(t, e.ID)

	found, err := repo.FindByIDAndOwner(ctx, e.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Design", found.Title)
	assert.Equal(t, []string{"work"}, found.Tags)
	assert.Nil(t, found.EndTime)
	assert.True(t, found.IsActive())
}

func TestEntryRepository_FindByIDAndOwner_WrongOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	e := newActiveEntry("user-1", "Design")
	require.NoError(t, repo.Create(ctx, e))

	// 他人条目与不存在的条目表现一致
	_, err := repo.FindByIDAndOwner(ctx, e.ID, "user-2")
	assert.ErrorIs(t, err, entry.ErrEntryNotFound)

	_, err = repo.FindByIDAndOwner(ctx, "no-such-id", "user-1")
	assert.ErrorIs(t, err, entry.ErrEntryNotFound)
}

func TestEntryRepository_FindActiveByOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	// 无活动条目时返回 nil, nil
	active, err := repo.FindActiveByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, active)

	e := newActiveEntry("user-1", "Design")
	require.NoError(t, repo.Create(ctx, e))

	active, err = repo.FindActiveByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, e.ID, active.ID)

	// 其他用户不受影响
	active, err = repo.FindActiveByOwner(ctx, "user-2")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestEntryRepository_ActiveUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newActiveEntry("user-1", "Design")))

	// 同一用户的第二条活动条目被部分唯一索引拒绝
	err := repo.Create(ctx, newActiveEntry("user-1", "Review"))
	assert.ErrorIs(t, err, entry.ErrActiveExists)

	// 不同用户不受约束
	require.NoError(t, repo.Create(ctx, newActiveEntry("user-2", "Review")))

	// 已停止的条目不受约束
	stopped := newActiveEntry("user-1", "Old")
	end := time.Now()
	stopped.EndTime = &end
	require.NoError(t, repo.Create(ctx, stopped))
}

func TestEntryRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	e := newActiveEntry("user-1", "Design")
	require.NoError(t, repo.Create(ctx, e))

	end := time.Now().Add(time.Hour)
	e.Title = "Design v2"
	e.Tags = []string{"work", "ui"}
	e.EndTime = &end
	require.NoError(t, repo.Update(ctx, e))

	found, err := repo.FindByIDAndOwner(ctx, e.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Design v2", found.Title)
	assert.Equal(t, []string{"work", "ui"}, found.Tags)
	require.NotNil(t, found.EndTime)
	assert.Equal(t, end.UnixMilli(), found.EndTime.UnixMilli())

	// 他人条目更新不命中
	e.OwnerID = "user-2"
	assert.ErrorIs(t, repo.Update(ctx, e), entry.ErrEntryNotFound)
}

func TestEntryRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	e := newActiveEntry("user-1", "Design")
	require.NoError(t, repo.Create(ctx, e))

	assert.ErrorIs(t, repo.Delete(ctx, e.ID, "user-2"), entry.ErrEntryNotFound)
	require.NoError(t, repo.Delete(ctx, e.ID, "user-1"))

	_, err := repo.FindByIDAndOwner(ctx, e.ID, "user-1")
	assert.ErrorIs(t, err, entry.ErrEntryNotFound)
}

func TestEntryRepository_FindByOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	base := time.Now()
	for i, title := range []string{"A", "B", "C"} {
		e := newActiveEntry("user-1", title)
		e.StartTime = base.Add(time.Duration(i) * time.Minute)
		end := e.StartTime.Add(30 * time.Second)
		e.EndTime = &end
		require.NoError(t, repo.Create(ctx, e))
	}

	entries, err := repo.FindByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// 按开始时间倒序
	assert.Equal(t, "C", entries[0].Title)
	assert.Equal(t, "A", entries[2].Title)
}

func TestWithTx_Rollback(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	e := newActiveEntry("user-1", "Design")
	err := WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		repo := NewEntryRepository(tx)
		if err := repo.Create(ctx, e); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	// 回滚后条目不可见
	repo := NewEntryRepository(db)
	_, err = repo.FindByIDAndOwner(ctx, e.ID, "user-1")
	assert.ErrorIs(t, err, entry.ErrEntryNotFound)
}
