package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/timeflow/backend/internal/application/stream"
	"github.com/timeflow/backend/internal/domain/events"
	"github.com/timeflow/backend/internal/infrastructure/config"
	"github.com/timeflow/backend/internal/infrastructure/eventbus"
	"github.com/timeflow/backend/internal/infrastructure/log"
	"github.com/timeflow/backend/internal/interfaces/http/response"
)

// writeWait 单次 WebSocket 写操作的超时
const writeWait = 10 * time.Second

// StreamHandler 实时推送处理器
// 提供 SSE 和 WebSocket 两种传输，事件来源都是同一个用户通道
type StreamHandler struct {
	tokens    *stream.TokenService
	bus       *eventbus.Bus
	heartbeat time.Duration
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

// NewStreamHandler 创建实时推送处理器
func NewStreamHandler(tokens *stream.TokenService, bus *eventbus.Bus, cfg *config.StreamConfig) *StreamHandler {
	heartbeat := 30 * time.Second
	readBuffer, writeBuffer := 1024, 1024
	if cfg != nil {
		if cfg.HeartbeatSeconds > 0 {
			heartbeat = time.Duration(cfg.HeartbeatSeconds) * time.Second
		}
		if cfg.ReadBufferSize > 0 {
			readBuffer = cfg.ReadBufferSize
		}
		if cfg.WriteBufferSize > 0 {
			writeBuffer = cfg.WriteBufferSize
		}
	}

	return &StreamHandler{
		tokens:    tokens,
		bus:       bus,
		heartbeat: heartbeat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBuffer,
			WriteBufferSize: writeBuffer,
			CheckOrigin: func(r *http.Request) bool {
				return true // 本地前端允许所有来源
			},
		},
		logger: log.NewModuleLogger("stream", "handler"),
	}
}

// TokenDTO 流连接令牌
type TokenDTO struct {
	Token string `json:"token"`
}

// StreamMessage 推送给客户端的数据消息
type StreamMessage struct {
	Type    string `json:"type"` // STARTED / STOPPED
	EntryID string `json:"entryId"`
	Title   string `json:"title"`
}

// toStreamMessage 将领域事件转换为推送消息
func toStreamMessage(ev events.Event) (*StreamMessage, bool) {
	entryEvent, ok := ev.(*events.EntryEvent)
	if !ok {
		return nil, false
	}

	msgType := "STARTED"
	if entryEvent.EventType == events.EntryStopped {
		msgType = "STOPPED"
	}

	return &StreamMessage{
		Type:    msgType,
		EntryID: entryEvent.EntryID,
		Title:   entryEvent.Title,
	}, true
}

// IssueToken 签发流连接令牌
// TTL 固定为 30 秒，客户端不可配置
// @Summary 签发流连接令牌
// @Tags 实时推送
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /stream/token [post]
func (h *StreamHandler) IssueToken(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	token, err := h.tokens.Issue(owner)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 200500, "failed to issue token")
		return
	}

	response.Success(c, &TokenDTO{Token: token})
}

// authenticate 校验 query 中的令牌
// 流式客户端无法设置自定义请求头，令牌只从 query 参数读取；
// 校验失败时在发送任何数据之前拒绝连接
func (h *StreamHandler) authenticate(c *gin.Context) (string, bool) {
	owner, err := h.tokens.Validate(c.Query("token"))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, 200401, err.Error())
		return "", false
	}
	return owner, true
}

// Events SSE 推送端点
// 将用户事件通道与固定间隔心跳合并为一条有序输出；
// 客户端断开只结束本连接的投递循环，不影响共享的用户通道
// @Summary SSE 事件流
// @Tags 实时推送
// @Produce text/event-stream
// @Param token query string true "流连接令牌"
// @Success 200 {string} string "事件流"
// @Failure 401 {object} response.ErrorResponse
// @Router /stream [get]
func (h *StreamHandler) Events(c *gin.Context) {
	owner, ok := h.authenticate(c)
	if !ok {
		return
	}

	sub := h.bus.Subscribe(owner)
	defer sub.Close()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush() // 先把响应头推给客户端，让连接立即可见

	h.logger.Debug("sse stream opened", "owner_id", owner)

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-sub.Events():
			if !open {
				return false
			}
			msg, valid := toStreamMessage(ev)
			if !valid {
				return true
			}
			c.SSEvent("entry", msg)
			return true
		case <-heartbeat.C:
			// 心跳不携带业务数据，只为保活
			c.SSEvent("heartbeat", "ping")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	h.logger.Debug("sse stream closed", "owner_id", owner)
}

// EventsWS WebSocket 推送端点
// 与 SSE 端点等价的第二种传输：JSON 数据帧 + 协议层 ping 心跳
// @Summary WebSocket 事件流
// @Tags 实时推送
// @Param token query string true "流连接令牌"
// @Success 101 {string} string "协议升级"
// @Failure 401 {object} response.ErrorResponse
// @Router /stream/ws [get]
func (h *StreamHandler) EventsWS(c *gin.Context) {
	owner, ok := h.authenticate(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection",
			"owner_id", owner,
			"error", err,
		)
		return
	}

	sub := h.bus.Subscribe(owner)
	done := make(chan struct{})

	// 读循环只用于发现客户端断开
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go h.writePump(conn, sub, done, owner)
}

// writePump 将事件和心跳写入 WebSocket 连接
// 退出时只关闭本连接的订阅，同一用户的其他连接不受影响
func (h *StreamHandler) writePump(conn *websocket.Conn, sub *eventbus.Subscription, done <-chan struct{}, owner string) {
	heartbeat := time.NewTicker(h.heartbeat)
	defer func() {
		heartbeat.Stop()
		sub.Close()
		_ = conn.Close()
		h.logger.Debug("websocket stream closed", "owner_id", owner)
	}()

	for {
		select {
		case ev, open := <-sub.Events():
			if !open {
				return
			}
			msg, valid := toStreamMessage(ev)
			if !valid {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-heartbeat.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
