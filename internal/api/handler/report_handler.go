package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/service"
	"activity-portal/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// MemberReport 学生学时报表
// GET /api/v1/admin/reports/members
func (h *ReportHandler) MemberReport(c *gin.Context) {
	var req dto.MemberReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reportSvc.Members(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ActivityReport 活动汇总报表
// GET /api/v1/admin/reports/activities
func (h *ReportHandler) ActivityReport(c *gin.Context) {
	var req dto.ActivityReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reportSvc.Activities(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// EvaluationReport 活动评价报表
// GET /api/v1/admin/reports/evaluations
func (h *ReportHandler) EvaluationReport(c *gin.Context) {
	var req dto.ActivityReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reportSvc.Evaluations(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ExportMembers 导出学生学时报表
// GET /api/v1/admin/reports/members/export/excel
func (h *ReportHandler) ExportMembers(c *gin.Context) {
	var req dto.MemberReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.reportSvc.ExportMembers(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	writeXLSX(c, buf, filename)
}

// ExportActivities 导出活动汇总报表
// GET /api/v1/admin/reports/activities/export/excel
func (h *ReportHandler) ExportActivities(c *gin.Context) {
	var req dto.ActivityReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.reportSvc.ExportActivities(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	writeXLSX(c, buf, filename)
}

// ExportEvaluations 导出活动评价报表
// GET /api/v1/admin/reports/evaluations/export/excel
func (h *ReportHandler) ExportEvaluations(c *gin.Context) {
	var req dto.ActivityReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.reportSvc.ExportEvaluations(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	writeXLSX(c, buf, filename)
}

// writeXLSX 设置下载响应头并写出文件内容
func writeXLSX(c *gin.Context, buf *bytes.Buffer, filename string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
