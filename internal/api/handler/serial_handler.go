package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/service"
	"activity-portal/backend/pkg/response"
)

// SerialHandler Serial code 发放与调整 HTTP 处理器（管理端）
type SerialHandler struct {
	serialSvc     service.SerialService
	adjustmentSvc service.AdjustmentService
}

// NewSerialHandler 创建 SerialHandler
func NewSerialHandler(serialSvc service.SerialService, adjustmentSvc service.AdjustmentService) *SerialHandler {
	return &SerialHandler{serialSvc: serialSvc, adjustmentSvc: adjustmentSvc}
}

// GenerateSerials 为活动批量生成 Serial code
// POST /api/v1/admin/activities/:id/serials
func (h *SerialHandler) GenerateSerials(c *gin.Context) {
	activityID, ok := MustGetUUIDParam(c, "id", "活动ID")
	if !ok {
		return
	}

	var req dto.GenerateSerialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.serialSvc.Generate(c.Request.Context(), activityID, req.Count, callerID)
	if err != nil {
		h.handleSerialError(c, err)
		return
	}

	response.Created(c, gin.H{"list": list})
}

// ListSerials 活动下的 Serial code 列表
// GET /api/v1/admin/activities/:id/serials
func (h *SerialHandler) ListSerials(c *gin.Context) {
	activityID, ok := MustGetUUIDParam(c, "id", "活动ID")
	if !ok {
		return
	}

	list, err := h.serialSvc.ListByActivity(c.Request.Context(), activityID)
	if err != nil {
		h.handleSerialError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// UpdateSerialStatus 变更 Serial code 状态
// PUT /api/v1/admin/serials/:id/status
func (h *SerialHandler) UpdateSerialStatus(c *gin.Context) {
	id, ok := MustGetUUIDParam(c, "id", "Serial ID")
	if !ok {
		return
	}

	var req dto.UpdateSerialStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	serial, err := h.serialSvc.UpdateStatus(c.Request.Context(), id, req.Status, callerID)
	if err != nil {
		h.handleSerialError(c, err)
		return
	}

	response.OK(c, serial)
}

// AdjustHours 管理员修正已评价记录的学时
// POST /api/v1/admin/serial-histories/:id/adjust
func (h *SerialHandler) AdjustHours(c *gin.Context) {
	id, ok := MustGetUUIDParam(c, "id", "兑换记录ID")
	if !ok {
		return
	}

	var req dto.AdjustHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	adj, err := h.adjustmentSvc.AdjustHours(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleSerialError(c, err)
		return
	}

	response.Created(c, adj)
}

// ListAdjustments 学时调整记录
// GET /api/v1/admin/serial-histories/:id/adjustments
func (h *SerialHandler) ListAdjustments(c *gin.Context) {
	id, ok := MustGetUUIDParam(c, "id", "兑换记录ID")
	if !ok {
		return
	}

	list, err := h.adjustmentSvc.ListAdjustments(c.Request.Context(), id)
	if err != nil {
		h.handleSerialError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// handleSerialError 统一处理 Serial 发放与学时调整的业务错误
func (h *SerialHandler) handleSerialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		response.NotFound(c, 32001, "活动不存在")
	case errors.Is(err, service.ErrSerialCountInvalid):
		response.BadRequest(c, 33001, "生成数量必须在 1 到 1000 之间")
	case errors.Is(err, service.ErrSerialStatusTransition):
		response.BadRequest(c, 33002, "当前状态不允许变更为目标状态")
	case errors.Is(err, service.ErrSerialCodeExhausted):
		response.Error(c, http.StatusServiceUnavailable, 33003, "生成唯一 Serial code 失败，请重试")
	case errors.Is(err, service.ErrSerialActivityNotIssued):
		response.BadRequest(c, 33004, "草稿或已取消的活动不能发放 Serial code")
	case errors.Is(err, service.ErrSerialNotFound):
		response.NotFound(c, 33005, "Serial code 不存在")
	case errors.Is(err, service.ErrHistoryNotFound):
		response.NotFound(c, 34001, "兑换记录不存在")
	case errors.Is(err, service.ErrHistoryNotReviewed):
		response.BadRequest(c, 34002, "该兑换记录尚未评价，不能调整学时")
	default:
		response.InternalError(c)
	}
}
