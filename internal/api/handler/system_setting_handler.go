package handler

import (
	"github.com/gin-gonic/gin"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/service"
	"activity-portal/backend/pkg/response"
)

// SystemSettingHandler 系统设置模块 HTTP 处理器
type SystemSettingHandler struct {
	settingSvc service.SystemSettingService
}

// NewSystemSettingHandler 创建 SystemSettingHandler
func NewSystemSettingHandler(settingSvc service.SystemSettingService) *SystemSettingHandler {
	return &SystemSettingHandler{settingSvc: settingSvc}
}

// GetSettings 获取系统设置（未配置时返回默认学时要求）
// GET /api/v1/admin/system-settings
func (h *SystemSettingHandler) GetSettings(c *gin.Context) {
	setting, err := h.settingSvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, setting)
}

// UpdateSettings 更新系统设置
// PUT /api/v1/admin/system-settings
func (h *SystemSettingHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSystemSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	setting, err := h.settingSvc.Update(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, setting)
}
