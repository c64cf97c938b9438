package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/timeflow/backend/internal/application/tracker"
	"github.com/timeflow/backend/internal/domain/entry"
	"github.com/timeflow/backend/internal/interfaces/http/response"
)

// HeaderOwnerID 主认证协作方注入的用户标识头
const HeaderOwnerID = "X-Owner-ID"

// EntryHandler 时间条目处理器
type EntryHandler struct {
	service *tracker.TrackerService
}

// NewEntryHandler 创建时间条目处理器
func NewEntryHandler(service *tracker.TrackerService) *EntryHandler {
	return &EntryHandler{service: service}
}

// EntryDTO 时间条目 DTO
type EntryDTO struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Tags      []string          `json:"tags"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	StartTime int64             `json:"startTime"`         // Unix 毫秒时间戳
	EndTime   *int64            `json:"endTime"`           // Unix 毫秒时间戳，null 表示活动条目
	CreatedAt int64             `json:"createdAt"`
	UpdatedAt int64             `json:"updatedAt"`
}

// StartEntryRequest 开始计时请求
type StartEntryRequest struct {
	Title    string            `json:"title" binding:"required"`
	Tags     []string          `json:"tags"`
	Metadata map[string]string `json:"metadata"`
}

// CreateEntryRequest 创建条目请求
type CreateEntryRequest struct {
	Title    string            `json:"title" binding:"required"`
	Tags     []string          `json:"tags"`
	Metadata map[string]string `json:"metadata"`
	// AutoStop 已有活动条目时是否自动停止它，false 时返回冲突
	AutoStop bool `json:"autoStop"`
}

// UpdateEntryRequest 全量更新请求
type UpdateEntryRequest struct {
	Title     string   `json:"title" binding:"required"`
	StartTime int64    `json:"startTime" binding:"required"`
	EndTime   *int64   `json:"endTime"`
	Tags      []string `json:"tags"`
}

// UpdateTitleRequest 标题更新请求
type UpdateTitleRequest struct {
	Title string `json:"title" binding:"required"`
}

// UpdateStartTimeRequest 开始时间更新请求
type UpdateStartTimeRequest struct {
	StartTime int64 `json:"startTime" binding:"required"`
}

// UpdateEndTimeRequest 结束时间更新请求
type UpdateEndTimeRequest struct {
	EndTime int64 `json:"endTime" binding:"required"`
}

// BulkUpdateRequest 批量更新请求
type BulkUpdateRequest struct {
	IDs   []string `json:"ids"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// StartResultDTO 开始计时结果
type StartResultDTO struct {
	Started *EntryDTO `json:"started"`
	Stopped *EntryDTO `json:"stopped,omitempty"`
}

// toEntryDTO 将领域模型转换为 DTO
func toEntryDTO(e *entry.TimeEntry) *EntryDTO {
	if e == nil {
		return nil
	}
	dto := &EntryDTO{
		ID:        e.ID,
		Title:     e.Title,
		Tags:      e.Tags,
		Metadata:  e.Metadata,
		StartTime: e.StartTime.UnixMilli(),
		CreatedAt: e.CreatedAt.UnixMilli(),
		UpdatedAt: e.UpdatedAt.UnixMilli(),
	}
	if e.EndTime != nil {
		ts := e.EndTime.UnixMilli()
		dto.EndTime = &ts
	}
	return dto
}

// ownerID 从请求头提取用户标识，缺失时返回 401
func ownerID(c *gin.Context) (string, bool) {
	id := c.GetHeader(HeaderOwnerID)
	if id == "" {
		response.Error(c, http.StatusUnauthorized, 100401, "missing owner identity")
		return "", false
	}
	return id, true
}

// respondEntryError 将领域错误映射为 HTTP 响应
func respondEntryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entry.ErrTitleRequired),
		errors.Is(err, entry.ErrEmptyIDList),
		errors.Is(err, entry.ErrInvalidTimeRange),
		errors.Is(err, entry.ErrEndTimeRequired),
		errors.Is(err, entry.ErrEntryActive):
		response.Error(c, http.StatusBadRequest, 100400, err.Error())
	case errors.Is(err, entry.ErrActiveExists):
		response.Error(c, http.StatusConflict, 100409, err.Error())
	case errors.Is(err, entry.ErrEntryNotFound):
		response.Error(c, http.StatusNotFound, 100404, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, 100500, "internal error")
	}
}

// Start 开始计时
// 已有活动条目会被自动停止
// @Summary 开始计时
// @Tags 条目
// @Accept json
// @Produce json
// @Param body body StartEntryRequest true "条目内容"
// @Success 200 {object} response.Response
// @Router /entries/start [post]
func (h *EntryHandler) Start(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req StartEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100400, "invalid request body")
		return
	}

	result, err := h.service.Start(c.Request.Context(), owner, req.Title, req.Tags, req.Metadata)
	if err != nil {
		respondEntryError(c, err)
		return
	}

	response.Success(c, &StartResultDTO{
		Started: toEntryDTO(result.Started),
		Stopped: toEntryDTO(result.Stopped),
	})
}

// Create 创建条目，autoStop 控制冲突行为
// @Summary 创建条目
// @Tags 条目
// @Accept json
// @Produce json
// @Param body body CreateEntryRequest true "条目内容"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.ErrorResponse
// @Router /entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100400, "invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), owner, req.Title, req.Tags, req.Metadata, req.AutoStop)
	if err != nil {
		respondEntryError(c, err)
		return
	}

	response.Success(c, &StartResultDTO{
		Started: toEntryDTO(result.Started),
		Stopped: toEntryDTO(result.Stopped),
	})
}

// Stop 停止当前活动条目
// 没有活动条目时 stopped 为 null，不是错误
// @Summary 停止计时
// @Tags 条目
// @Produce json
// @Success 200 {object} response.Response
// @Router /entries/stop [post]
func (h *EntryHandler) Stop(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	stopped, err := h.service.StopActive(c.Request.Context(), owner)
	if err != nil {
		respondEntryError(c, err)
		return
	}

	response.Success(c, gin.H{"stopped": toEntryDTO(stopped)})
}

// List 获取条目列表
// @Summary 获取条目列表
// @Tags 条目
// @Produce json
// @Success 200 {object} response.Response
// @Router /entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	entries, err := h.service.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		respondEntryError(c, err)
		return
	}

	dtos := make([]*EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toEntryDTO(e))
	}

	response.Success(c, dtos)
}

// Active 获取当前活动条目
// @Summary 获取活动条目
// @Tags 条目
// @Produce json
// @Success 200 {object} response.Response
// @Router /entries/active [get]
func (h *EntryHandler) Active(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	active, err := h.service.ActiveEntry(c.Request.Context(), owner)
	if err != nil {
		respondEntryError(c, err)
		return
	}

	response.Success(c, gin.H{"active": toEntryDTO(active)})
}

// Update 全量更新条目
// @Summary 更新条目
// @Tags 条目
// @Accept json
// @Produce json
// @Param id path string true "条目 ID"
// @Param body body UpdateEntryRequest true "更新内容"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /entries/{id} [put]
func (h *EntryHandler) Update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100400, "invalid request body")
		return
	}

	var end *time.Time
	if req.EndTime != nil {
		t := time.UnixMilli(*req.EndTime)
		end = &t
	}

	updated, err := h.service.Update(c.Request.Context(), owner, c.Param("id"),
		req.Title, time.UnixMilli(req.StartTime), end, req.Tags)
	if err != nil {
		respondEntryError(c, err)
		return
	}

	response.Success(c, toEntryDTO(updated))
}

// UpdateTitle 只更新标题
// @Summary 更新条目标题
// @Tags 条目
// @Accept json
// @Produce json
// @Param id path string true "条目 ID"
// @Success 200 {object} response.Response
// @Router /entries/{id}/title [patch]
func (h *EntryHandler) UpdateTitle(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100400, "invalid request body")
		return
	}

	updated, err := h.service.UpdateTitle(c.Request.Context(), owner, c.Param("id"), req.Title)
	if err != nil {
		respondEntryError(c, err)
		return
	}

	response.Success(c, toEntryDTO(updated))
}

// UpdateStartTime 只更新开始时间
// @Summary 更新条目开始时间
// @Tags 条目
// @Accept json
// @Produce json
// @Param id path string true "条目 ID"
// @Success 200 {object} response.Response
// @Router /entries/{id}/start-time [patch]
func (h *EntryHandler) UpdateStartTime(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req UpdateStartTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100400, "invalid request body")
		return
	}

	updated, err := h.service.UpdateStartTime(c.Request.Context(), owner, c.Param("id"), time.UnixMilli(req.StartTime))
	if err != nil {
		respondEntryError(c, err)
		return
	}

	response.Success(c, toEntryDTO(updated))
}

// UpdateEndTime 只更新结束时间
// @Summary 更新条目结束时间
// @Tags 条目
// @Accept json
// @Produce json
// @Param id path string true "条目 ID"
// @Success 200 {object} response.Response
// @Router /entries/{id}/end-time [patch]
func (h *EntryHandler) UpdateEndTime(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req UpdateEndTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100400, "invalid request body")
		return
	}

	updated, err := h.service.UpdateEndTime(c.Request.Context(), owner, c.Param("id"), time.UnixMilli(req.EndTime))
	if err != nil {
		respondEntryError(c, err)
		return
	}

	response.Success(c, toEntryDTO(updated))
}

// BulkUpdate 批量重写标题和标签，全部成功或全部不变
// @Summary 批量更新条目
// @Tags 条目
// @Accept json
// @Produce json
// @Param body body BulkUpdateRequest true "更新内容"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /entries [put]
func (h *EntryHandler) BulkUpdate(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100400, "invalid request body")
		return
	}

	updated, err := h.service.BulkUpdate(c.Request.Context(), owner, req.IDs, req.Title, req.Tags)
	if err != nil {
		respondEntryError(c, err)
		return
	}

	dtos := make([]*EntryDTO, 0, len(updated))
	for _, e := range updated {
		dtos = append(dtos, toEntryDTO(e))
	}

	response.Success(c, dtos)
}

// Delete 删除条目
// @Summary 删除条目
// @Tags 条目
// @Produce json
// @Param id path string true "条目 ID"
// @Success 200 {object} response.Response
// @Router /entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), owner, c.Param("id")); err != nil {
		respondEntryError(c, err)
		return
	}

	response.Success(c, nil)
}
