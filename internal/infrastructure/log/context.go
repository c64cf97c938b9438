package log

import (
	"context"
	"log/slog"
)

// 上下文键定义
const (
	// RequestContextID HTTP 请求 ID
	RequestContextID = "request_id"

	// OwnerContextID 用户 ID
	OwnerContextID = "owner_id"

	// EntryContextID 时间条目 ID
	EntryContextID = "entry_id"
)

// WithRequestID 在上下文中添加请求 ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestContextID, requestID)
}

// WithOwnerID 在上下文中添加用户 ID
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerContextID, ownerID)
}

// WithEntryID 在上下文中添加条目 ID
func WithEntryID(ctx context.Context, entryID string) context.Context {
	return context.WithValue(ctx, EntryContextID, entryID)
}

// LogCtxFromContext 从上下文中提取日志字段
func LogCtxFromContext(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if requestID := ctx.Value(RequestContextID); requestID != nil {
		attrs = append(attrs, slog.String("request_id", requestID.(string)))
	}
	if ownerID := ctx.Value(OwnerContextID); ownerID != nil {
		attrs = append(attrs, slog.String("owner_id", ownerID.(string)))
	}
	if entryID := ctx.Value(EntryContextID); entryID != nil {
		attrs = append(attrs, slog.String("entry_id", entryID.(string)))
	}

	return attrs
}
