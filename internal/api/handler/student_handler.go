package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/service"
	"activity-portal/backend/pkg/response"
)

// StudentHandler 学生端 HTTP 处理器（兑换、评价、进度）
type StudentHandler struct {
	redemptionSvc   service.RedemptionService
	reviewSvc       service.ReviewService
	progressSvc     service.ProgressService
	academicYearSvc service.AcademicYearService
	userSvc         service.UserService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(
	redemptionSvc service.RedemptionService,
	reviewSvc service.ReviewService,
	progressSvc service.ProgressService,
	academicYearSvc service.AcademicYearService,
	userSvc service.UserService,
) *StudentHandler {
	return &StudentHandler{
		redemptionSvc:   redemptionSvc,
		reviewSvc:       reviewSvc,
		progressSvc:     progressSvc,
		academicYearSvc: academicYearSvc,
		userSvc:         userSvc,
	}
}

// RedeemSerial 兑换 Serial code
// POST /api/v1/student/redeem-serial
func (h *StudentHandler) RedeemSerial(c *gin.Context) {
	var req dto.RedeemSerialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.redemptionSvc.RedeemSerial(c.Request.Context(), userID, req.Code)
	if err != nil {
		h.handleRedeemError(c, err)
		return
	}

	response.OKWithMessage(c, result, "兑换成功，请完成活动评价以获得学时")
}

// SubmitReview 提交活动评价
// POST /api/v1/student/submit-review
func (h *StudentHandler) SubmitReview(c *gin.Context) {
	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reviewSvc.SubmitReview(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OKWithMessage(c, result, "评价提交成功，学时已计入")
}

// GetProgress 学时进度
// GET /api/v1/student/progress?academic_year=
func (h *StudentHandler) GetProgress(c *gin.Context) {
	var req dto.ProgressRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.progressSvc.GetProgress(c.Request.Context(), userID, req.AcademicYear)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// GetYearlyProgress 学年学时汇总
// GET /api/v1/student/progress/yearly?academic_year=
func (h *StudentHandler) GetYearlyProgress(c *gin.Context) {
	var req dto.YearlyProgressRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "academic_year 不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.progressSvc.GetYearlyProgress(c.Request.Context(), userID, req.AcademicYear)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListPendingReviews 待评价的兑换记录
// GET /api/v1/student/pending-reviews
func (h *StudentHandler) ListPendingReviews(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.progressSvc.ListPendingReviews(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListHistory 兑换流水（分页）
// GET /api/v1/student/serial-history?page=&limit=&academic_year=
func (h *StudentHandler) ListHistory(c *gin.Context) {
	var req dto.SerialHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, total, err := h.progressSvc.ListHistory(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetLimit())
}

// ListAcademicYears 学年下拉列表
// GET /api/v1/student/academic-years
func (h *StudentHandler) ListAcademicYears(c *gin.Context) {
	list, err := h.academicYearSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListUpcomingActivities 48 小时内开始的活动
// GET /api/v1/student/upcoming-activities
func (h *StudentHandler) ListUpcomingActivities(c *gin.Context) {
	list, err := h.progressSvc.ListUpcomingActivities(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetProfile 个人资料
// GET /api/v1/student/profile
func (h *StudentHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.userSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, profile)
}

// handleRedeemError 统一处理兑换业务错误
func (h *StudentHandler) handleRedeemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSerialCodeRequired):
		response.BadRequest(c, 30001, "请输入 Serial code")
	case errors.Is(err, service.ErrSerialNotFound):
		response.NotFound(c, 30002, "Serial code 不存在")
	case errors.Is(err, service.ErrSerialAlreadyRedeemed):
		response.BadRequest(c, 30003, "该 Serial code 已被使用")
	case errors.Is(err, service.ErrSerialExpired):
		response.BadRequest(c, 30004, "该 Serial code 已过期")
	case errors.Is(err, service.ErrSerialCancelled):
		response.BadRequest(c, 30005, "该 Serial code 已作废")
	case errors.Is(err, service.ErrSerialNotRedeemable):
		response.BadRequest(c, 30006, "该 Serial code 当前不可兑换")
	case errors.Is(err, service.ErrDuplicateRedemption):
		response.Conflict(c, 30007, "您已兑换过该 Serial code")
	case errors.Is(err, service.ErrSerialOwnershipConflict):
		response.Conflict(c, 30008, "该 Serial code 已绑定其他用户")
	default:
		response.InternalError(c)
	}
}

// handleReviewError 统一处理评价业务错误
func (h *StudentHandler) handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReviewRatingRequired):
		response.BadRequest(c, 31001, "请完成全部五项评分")
	case errors.Is(err, service.ErrReviewRatingOutOfRange):
		response.BadRequest(c, 31002, "评分必须在 1 到 5 之间")
	case errors.Is(err, service.ErrHistoryNotFound):
		response.NotFound(c, 31003, "兑换记录不存在")
	case errors.Is(err, service.ErrHistoryForbidden):
		response.Forbidden(c, 31004, "无权评价他人的兑换记录")
	case errors.Is(err, service.ErrAlreadyReviewed):
		response.Conflict(c, 31005, "该活动已评价，不能重复提交")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/student_handler.go
