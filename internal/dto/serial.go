package dto

// ── Serial 发放 / 管理 DTO ──

// GenerateSerialsRequest 批量生成 Serial code 请求
type GenerateSerialsRequest struct {
	Count int `json:"count" binding:"required,min=1,max=1000"`
}

// UpdateSerialStatusRequest 管理员变更 Serial 状态
// 允许 PENDING→SENT，PENDING|SENT→EXPIRED|CANCELLED；REDEEMED 不可由此接口设置
type UpdateSerialStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SENT EXPIRED CANCELLED"`
}

// SerialResponse Serial code 响应
type SerialResponse struct {
	ID         string  `json:"id"`
	Code       string  `json:"code"`
	Status     string  `json:"status"`
	ActivityID string  `json:"activity_id"`
	UserID     *string `json:"user_id,omitempty"`
	RedeemedAt *string `json:"redeemed_at,omitempty"`
}

// AdjustHoursRequest 管理员修正已评价流水的学时
type AdjustHoursRequest struct {
	Hours  *int   `json:"hours"  binding:"required,min=0"`
	Reason string `json:"reason" binding:"required,min=2,max=500"`
}

// HoursAdjustmentResponse 学时调整记录
type HoursAdjustmentResponse struct {
	ID              string `json:"id"`
	SerialHistoryID string `json:"serial_history_id"`
	PreviousHours   int    `json:"previous_hours"`
	NewHours        int    `json:"new_hours"`
	Reason          string `json:"reason"`
	AdjustedBy      string `json:"adjusted_by"`
	CreatedAt       string `json:"created_at"`
}
