package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timeflow/backend/internal/domain/entry"
)

// EntryRepository 时间条目仓储接口
// 所有按 ID 的查询都以 owner 为范围，他人条目与不存在的条目同样返回 ErrEntryNotFound
type EntryRepository interface {
	Create(ctx context.Context, e *entry.TimeEntry) error
	Update(ctx context.Context, e *entry.TimeEntry) error
	FindActiveByOwner(ctx context.Context, ownerID string) (*entry.TimeEntry, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*entry.TimeEntry, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*entry.TimeEntry, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// entryRepository SQLite 仓储实现
// 持有 DBTX，事务内外共用同一实现
type entryRepository struct {
	q DBTX
}

// NewEntryRepository 创建时间条目仓储实例
// q 传 *sql.DB 用于独立操作，传 *sql.Tx 参与调用方开启的事务
func NewEntryRepository(q DBTX) EntryRepository {
	return &entryRepository{q: q}
}

const entryColumns = `id, owner_id, title, tags, metadata, start_time, end_time, created_at, updated_at`

// Create 创建条目
// 违反单活动唯一索引时返回 entry.ErrActiveExists
func (r *entryRepository) Create(ctx context.Context, e *entry.TimeEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	tags, metadata, err := encodeTagsMetadata(e)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO time_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.q.ExecContext(ctx, query,
		e.ID,
		e.OwnerID,
		e.Title,
		tags,
		metadata,
		e.StartTime.UnixMilli(),
		endTimeValue(e),
		e.CreatedAt.UnixMilli(),
		e.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		if isActiveConflict(err) {
			return entry.ErrActiveExists
		}
		return fmt.Errorf("failed to create entry: %w", err)
	}

	return nil
}

// Update 按 ID 和 owner 更新条目，未命中返回 entry.ErrEntryNotFound
func (r *entryRepository) Update(ctx context.Context, e *entry.TimeEntry) error {
	e.UpdatedAt = time.Now()

	tags, metadata, err := encodeTagsMetadata(e)
	if err != nil {
		return err
	}

	query := `
		UPDATE time_entries
		SET title = ?, tags = ?, metadata = ?, start_time = ?, end_time = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`

	result, err := r.q.ExecContext(ctx, query,
		e.Title,
		tags,
		metadata,
		e.StartTime.UnixMilli(),
		endTimeValue(e),
		e.UpdatedAt.UnixMilli(),
		e.ID,
		e.OwnerID,
	)
	if err != nil {
		if isActiveConflict(err) {
			return entry.ErrActiveExists
		}
		return fmt.Errorf("failed to update entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entry.ErrEntryNotFound
	}

	return nil
}

// FindActiveByOwner 查找用户的活动条目，不存在时返回 (nil, nil)
func (r *entryRepository) FindActiveByOwner(ctx context.Context, ownerID string) (*entry.TimeEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM time_entries
		WHERE owner_id = ? AND end_time IS NULL`

	e, err := scanEntry(r.q.QueryRowContext(ctx, query, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// FindByIDAndOwner 按 ID 和 owner 查找条目
func (r *entryRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*entry.TimeEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM time_entries
		WHERE id = ? AND owner_id = ?`

	e, err := scanEntry(r.q.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entry.ErrEntryNotFound
	}
	return e, err
}

// FindByOwner 查找用户的全部条目，按开始时间倒序
func (r *entryRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entry.TimeEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM time_entries
		WHERE owner_id = ?
		ORDER BY start_time DESC, id`

	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*entry.TimeEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Delete 按 ID 和 owner 删除条目
func (r *entryRepository) Delete(ctx context.Context, id, ownerID string) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM time_entries WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entry.ErrEntryNotFound
	}

	return nil
}

// rowScanner *sql.Row 和 *sql.Rows 共有的 Scan
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry 扫描一行条目记录
func scanEntry(row rowScanner) (*entry.TimeEntry, error) {
	var e entry.TimeEntry
	var tags, metadata string
	var startTime, createdAt, updatedAt int64
	var endTime sql.NullInt64

	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Title,
		&tags,
		&metadata,
		&startTime,
		&endTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &e.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	e.StartTime = time.UnixMilli(startTime)
	if endTime.Valid {
		t := time.UnixMilli(endTime.Int64)
		e.EndTime = &t
	}
	e.CreatedAt = time.UnixMilli(createdAt)
	e.UpdatedAt = time.UnixMilli(updatedAt)

	return &e, nil
}

// encodeTagsMetadata 将标签和元数据序列化为 JSON 存储
func encodeTagsMetadata(e *entry.TimeEntry) (string, string, error) {
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.Metadata == nil {
		e.Metadata = map[string]string{}
	}

	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode tags: %w", err)
	}
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode metadata: %w", err)
	}

	return string(tags), string(metadata), nil
}

// endTimeValue 结束时间的存储值，活动条目为 NULL
func endTimeValue(e *entry.TimeEntry) any {
	if e.EndTime == nil {
		return nil
	}
	return e.EndTime.UnixMilli()
}

// isActiveConflict 判断是否违反了单活动条目唯一索引
func isActiveConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
