// Package config 提供应用配置
// 默认值 -> 配置文件（~/.timeflow/config.yaml）-> 环境变量，依次覆盖
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Stream   StreamConfig   `yaml:"stream"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// HTTPPort HTTP 监听端口，形如 ":18080"
	HTTPPort string `yaml:"http_port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Path sqlite 数据库文件路径，留空使用 <数据目录>/timeflow.db
	Path string `yaml:"path"`
}

// StreamConfig 实时推送配置
type StreamConfig struct {
	// HeartbeatSeconds 心跳间隔（秒）
	HeartbeatSeconds int `yaml:"heartbeat_seconds"`
	// EventBufferSize 每个订阅者的事件缓冲区大小
	EventBufferSize int `yaml:"event_buffer_size"`
	// ReadBufferSize WebSocket 读缓冲区
	ReadBufferSize int `yaml:"read_buffer_size"`
	// WriteBufferSize WebSocket 写缓冲区
	WriteBufferSize int `yaml:"write_buffer_size"`
}

// NewConfig 创建配置
// 先取默认值，再尝试读取 <数据目录>/config.yaml 覆盖，
// 最后应用 TIMEFLOW_HTTP_PORT / TIMEFLOW_DB_PATH 环境变量
func NewConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			HTTPPort: ":18080",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Stream: StreamConfig{
			HeartbeatSeconds: 30,
			EventBufferSize:  16,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	}

	loadConfigFile(cfg, filepath.Join(GetDataDir(), "config.yaml"))

	if port := os.Getenv("TIMEFLOW_HTTP_PORT"); port != "" {
		cfg.Server.HTTPPort = port
	}
	if dbPath := os.Getenv("TIMEFLOW_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	return cfg
}

// loadConfigFile 读取 yaml 配置文件，文件不存在时静默跳过
func loadConfigFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	// 解析失败时保留已有配置
	_ = yaml.Unmarshal(data, cfg)
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewStreamConfig 创建实时推送配置
func NewStreamConfig(cfg *Config) *StreamConfig {
	return &cfg.Stream
}
