package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/timeflow/backend/internal/infrastructure/config"

	_ "modernc.org/sqlite"
)

// GetDBPath 获取数据库路径
// 配置未指定时使用 <数据目录>/timeflow.db
func GetDBPath(cfg *config.DatabaseConfig) string {
	if cfg != nil && cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(config.GetDataDir(), "timeflow.db")
}

// OpenDB 打开数据库连接
func OpenDB(dbPath string) (*sql.DB, error) {
	// 确保目录存在
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 内存库的连接各自独立，限制为单连接避免数据丢失
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitSchema 初始化表结构
func InitSchema(db *sql.DB) error {
	// 创建 time_entries 表
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		tags TEXT NOT NULL,
		metadata TEXT NOT NULL,
		start_time INTEGER NOT NULL,
		end_time INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create time_entries table: %w", err)
	}

	// 单活动条目的权威约束：应用层的"查活动再写入"只是快路径，
	// 并发 start 的正确性由此部分唯一索引保证
	createActiveIndexSQL := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_time_entries_active
	ON time_entries(owner_id) WHERE end_time IS NULL;`

	if _, err := db.Exec(createActiveIndexSQL); err != nil {
		return fmt.Errorf("failed to create active entry index: %w", err)
	}

	// 创建查询索引
	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_time_entries_owner_start
	ON time_entries(owner_id, start_time);`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create owner index: %w", err)
	}

	return nil
}

// ProvideDB 提供数据库连接（wire 使用）
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := OpenDB(GetDBPath(cfg))
	if err != nil {
		return nil, err
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
