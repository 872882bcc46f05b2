package dto

// ── 系统设置模块 DTO ──

// UpdateSystemSettingRequest 更新系统设置请求
type UpdateSystemSettingRequest struct {
	RequiredHours *int `json:"required_hours" binding:"required,min=1,max=10000"`
}

// SystemSettingResponse 系统设置响应
type SystemSettingResponse struct {
	RequiredHours int    `json:"required_hours"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}
