package dto

import "time"

// ── 活动模块 DTO ──

// CreateActivityRequest 创建活动请求
// academic_year 与 academic_year_id 任填其一；两者同时提供时以 academic_year_id 为准
type CreateActivityRequest struct {
	Title           string    `json:"title"            binding:"required,max=200"`
	Description     string    `json:"description"      binding:"required"`
	StartDate       time.Time `json:"start_date"       binding:"required"`
	EndDate         time.Time `json:"end_date"         binding:"required"`
	HoursAwarded    int       `json:"hours_awarded"    binding:"required,min=1"`
	Status          string    `json:"status"           binding:"omitempty,oneof=DRAFT OPEN CLOSED CANCELLED"`
	AcademicYear    *string   `json:"academic_year"    binding:"omitempty,max=10"`
	AcademicYearID  *string   `json:"academic_year_id" binding:"omitempty,uuid"`
	Location        *string   `json:"location"         binding:"omitempty,max=255"`
	MaxParticipants *int      `json:"max_participants" binding:"omitempty,min=1"`
}

// UpdateActivityRequest 更新活动请求（仅更新非空字段）
type UpdateActivityRequest struct {
	Title           *string    `json:"title"            binding:"omitempty,min=1,max=200"`
	Description     *string    `json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	HoursAwarded    *int       `json:"hours_awarded"    binding:"omitempty,min=1"`
	Status          *string    `json:"status"           binding:"omitempty,oneof=DRAFT OPEN CLOSED CANCELLED"`
	AcademicYear    *string    `json:"academic_year"    binding:"omitempty,max=10"`
	AcademicYearID  *string    `json:"academic_year_id" binding:"omitempty,uuid"`
	Location        *string    `json:"location"         binding:"omitempty,max=255"`
	MaxParticipants *int       `json:"max_participants" binding:"omitempty,min=1"`
}

// RescheduleActivityRequest 活动改期请求
type RescheduleActivityRequest struct {
	NewStartDate time.Time `json:"new_start_date" binding:"required"`
	NewEndDate   time.Time `json:"new_end_date"   binding:"required"`
	Reason       string    `json:"reason"         binding:"omitempty,max=500"`
}

// ActivityListRequest 活动列表查询参数
type ActivityListRequest struct {
	PaginationRequest
	Status       string `form:"status"        binding:"omitempty,oneof=DRAFT OPEN CLOSED CANCELLED"`
	AcademicYear string `form:"academic_year" binding:"omitempty,max=10"`
	Keyword      string `form:"keyword"       binding:"omitempty,max=50"`
	// CreatedBy 创建者 ID；"me" 表示当前登录用户
	CreatedBy string `form:"created_by" binding:"omitempty,max=36"`
}

// ActivityResponse 活动响应
type ActivityResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	HoursAwarded    int     `json:"hours_awarded"`
	PublicSlug      string  `json:"public_slug"`
	Status          string  `json:"status"`
	AcademicYear    *string `json:"academic_year,omitempty"`
	AcademicYearID  *string `json:"academic_year_id,omitempty"`
	Location        *string `json:"location,omitempty"`
	MaxParticipants *int    `json:"max_participants,omitempty"`
	RescheduledDate *string `json:"rescheduled_date,omitempty"`
	CreatedBy       *string `json:"created_by,omitempty"`
}

// ParticipantResponse 活动参与者
type ParticipantResponse struct {
	SerialHistoryID string `json:"serial_history_id"`
	UserID          string `json:"user_id"`
	StudentID       string `json:"student_id"`
	Name            string `json:"name"`
	Code            string `json:"code"`
	HoursEarned     int    `json:"hours_earned"`
	IsReviewed      bool   `json:"is_reviewed"`
	RedeemedAt      string `json:"redeemed_at"`
}

// [自证通过] internal/dto/activity.go
