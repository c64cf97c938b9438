// Package stream 提供实时推送连接的接入能力
// EventSource 这类流式客户端无法携带自定义请求头，主凭证放进 URL
// 又有落入日志和历史记录的风险，因此用 30 秒的专用短时令牌换取连接
package stream

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/timeflow/backend/internal/infrastructure/log"
)

// TokenTTL 令牌有效期，服务端固定，客户端不可配置
const TokenTTL = 30 * time.Second

// tokenBytes 令牌随机字节数（128 位熵，hex 编码后 32 字符）
const tokenBytes = 16

var (
	// ErrTokenInvalid 令牌缺失或不存在
	ErrTokenInvalid = errors.New("stream token is missing or invalid")
	// ErrTokenExpired 令牌已过期
	ErrTokenExpired = errors.New("stream token has expired")
)

// tokenRecord 令牌记录，只存在于进程内存
type tokenRecord struct {
	ownerID   string
	expiresAt time.Time
}

// TokenService 短时令牌服务
type TokenService struct {
	mu     sync.Mutex
	tokens map[string]tokenRecord
	logger *slog.Logger
	// now 可注入时钟（测试用）
	now func() time.Time
}

// NewTokenService 创建令牌服务
func NewTokenService() *TokenService {
	return &TokenService{
		tokens: make(map[string]tokenRecord),
		logger: log.NewModuleLogger("stream", "token_service"),
		now:    time.Now,
	}
}

// Issue 为已认证的用户签发一个流连接令牌
func (s *TokenService) Issue(ownerID string) (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(b)

	s.mu.Lock()
	s.tokens[token] = tokenRecord{
		ownerID:   ownerID,
		expiresAt: s.now().Add(TokenTTL),
	}
	s.mu.Unlock()

	return token, nil
}

// Validate 校验令牌并返回其绑定的用户 ID
// 过期的令牌在此处惰性清除；令牌不是一次性的，TTL 内允许重复
// 使用（容忍重连竞争，与原始行为保持一致）
func (s *TokenService) Validate(token string) (string, error) {
	if token == "" {
		return "", ErrTokenInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tokens[token]
	if !ok {
		return "", ErrTokenInvalid
	}

	if s.now().After(record.expiresAt) {
		delete(s.tokens, token)
		return "", ErrTokenExpired
	}

	return record.ownerID, nil
}
