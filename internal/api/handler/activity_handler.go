package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/service"
	"activity-portal/backend/pkg/response"
)

// ActivityHandler 活动模块 HTTP 处理器
type ActivityHandler struct {
	activitySvc service.ActivityService
	calendarSvc service.CalendarService
}

// NewActivityHandler 创建 ActivityHandler
func NewActivityHandler(activitySvc service.ActivityService, calendarSvc service.CalendarService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc, calendarSvc: calendarSvc}
}

// ListPublicActivities 开放中的活动列表
// GET /api/v1/activities
func (h *ActivityHandler) ListPublicActivities(c *gin.Context) {
	var req dto.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.activitySvc.ListPublic(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetActivity 活动详情
// GET /api/v1/activities/:id
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	id, ok := MustGetUUIDParam(c, "id", "活动ID")
	if !ok {
		return
	}

	activity, err := h.activitySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	response.OK(c, activity)
}

// CalendarFeed 开放活动的 iCalendar 订阅源
// GET /api/v1/activities/calendar.ics
func (h *ActivityHandler) CalendarFeed(c *gin.Context) {
	feed, err := h.calendarSvc.BuildFeed(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "inline; filename=activities.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// ListActivities 活动列表（管理端，含全部状态）
// GET /api/v1/admin/activities?created_by=me
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	var req dto.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	switch req.CreatedBy {
	case "":
	case "me":
		callerID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		req.CreatedBy = callerID
	default:
		if _, err := uuid.Parse(req.CreatedBy); err != nil {
			response.BadRequest(c, 10001, "created_by 格式无效")
			return
		}
	}

	list, total, err := h.activitySvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// CreateActivity 创建活动
// POST /api/v1/activities
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	activity, err := h.activitySvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	response.Created(c, activity)
}

// UpdateActivity 更新活动
// PUT /api/v1/activities/:id
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	id, ok := MustGetUUIDParam(c, "id", "活动ID")
	if !ok {
		return
	}

	var req dto.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	activity, err := h.activitySvc.Update(c.Request.Context(), id, &req, callerID, role)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	response.OK(c, activity)
}

// RescheduleActivity 活动改期
// PUT /api/v1/activities/:id/reschedule
func (h *ActivityHandler) RescheduleActivity(c *gin.Context) {
	id, ok := MustGetUUIDParam(c, "id", "活动ID")
	if !ok {
		return
	}

	var req dto.RescheduleActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	activity, err := h.activitySvc.Reschedule(c.Request.Context(), id, &req, callerID, role)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	response.OK(c, activity)
}

// DeleteActivity 删除活动（兑换记录保留）
// DELETE /api/v1/activities/:id
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	id, ok := MustGetUUIDParam(c, "id", "活动ID")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.activitySvc.Delete(c.Request.Context(), id, callerID, role); err != nil {
		h.handleActivityError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListParticipants 活动参与者
// GET /api/v1/admin/activities/:id/participants
func (h *ActivityHandler) ListParticipants(c *gin.Context) {
	id, ok := MustGetUUIDParam(c, "id", "活动ID")
	if !ok {
		return
	}

	list, err := h.activitySvc.ListParticipants(c.Request.Context(), id)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// handleActivityError 统一处理活动模块业务错误
func (h *ActivityHandler) handleActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		response.NotFound(c, 32001, "活动不存在")
	case errors.Is(err, service.ErrActivityDateInvalid):
		response.BadRequest(c, 32002, "活动结束时间必须晚于开始时间")
	case errors.Is(err, service.ErrActivityForbidden):
		response.Forbidden(c, 32003, "只能修改自己创建的活动")
	case errors.Is(err, service.ErrActivityAcademicYearNotFound):
		response.BadRequest(c, 32004, "指定的学年不存在")
	default:
		response.InternalError(c)
	}
}
