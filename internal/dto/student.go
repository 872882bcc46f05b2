package dto

// ── 学生端 DTO：兑换 / 评价 / 进度 ──

// RedeemSerialRequest 兑换 Serial code 请求
// code 为空由 Service 层返回 ErrSerialCodeRequired，保证错误码一致
type RedeemSerialRequest struct {
	Code string `json:"code"`
}

// RedeemSerialResponse 兑换结果；学时需提交评价后才计入
type RedeemSerialResponse struct {
	SerialHistoryID string `json:"serial_history_id"`
	ActivityTitle   string `json:"activity_title"`
	HoursAwarded    int    `json:"hours_awarded"`
	Code            string `json:"code"`
	RequiresReview  bool   `json:"requires_review"`
}

// SubmitReviewRequest 提交活动评价请求
// serial_id 为兑换流水 ID；评分使用指针以区分"未填写"与非法值
type SubmitReviewRequest struct {
	SerialID           string  `json:"serial_id"           binding:"required,uuid"`
	FunRating          *int    `json:"fun_rating"`
	LearningRating     *int    `json:"learning_rating"`
	OrganizationRating *int    `json:"organization_rating"`
	VenueRating        *int    `json:"venue_rating"`
	OverallRating      *int    `json:"overall_rating"`
	Suggestion         *string `json:"suggestion"          binding:"omitempty,max=2000"`
}

// SubmitReviewResponse 评价结果
type SubmitReviewResponse struct {
	SerialHistoryID string `json:"serial_history_id"`
	ActivityTitle   string `json:"activity_title"`
	HoursEarned     int    `json:"hours_earned"`
}

// ProgressRequest 进度查询参数
type ProgressRequest struct {
	AcademicYear string `form:"academic_year" binding:"omitempty,max=10"`
}

// YearlyProgressRequest 学年进度查询参数（academic_year 必填）
type YearlyProgressRequest struct {
	AcademicYear string `form:"academic_year" binding:"required,max=10"`
}

// HistoryItem 兑换流水条目
type HistoryItem struct {
	ID                  string  `json:"id"`
	SerialID            string  `json:"serial_id"`
	ActivityID          string  `json:"activity_id"`
	Code                string  `json:"code,omitempty"`
	SerialStatus        string  `json:"serial_status,omitempty"`
	ActivityTitle       string  `json:"activity_title,omitempty"`
	ActivityDescription string  `json:"activity_description,omitempty"`
	StartDate           string  `json:"start_date,omitempty"`
	EndDate             string  `json:"end_date,omitempty"`
	AcademicYear        *string `json:"academic_year,omitempty"`
	HoursAwarded        int     `json:"hours_awarded"`
	HoursEarned         int     `json:"hours_earned"`
	IsReviewed          bool    `json:"is_reviewed"`
	RedeemedAt          string  `json:"redeemed_at"`
}

// ProgressResponse 学时进度
type ProgressResponse struct {
	AcademicYear       string        `json:"academic_year,omitempty"`
	TotalHours         int           `json:"total_hours"`
	RequiredHours      int           `json:"required_hours"`
	ProgressPercentage float64       `json:"progress_percentage"`
	RemainingHours     int           `json:"remaining_hours"`
	IsCompleted        bool          `json:"is_completed"`
	RecentHistory      []HistoryItem `json:"recent_history"`
}

// YearlyActivityItem 学年内参与的活动
type YearlyActivityItem struct {
	Title        string `json:"title"`
	StartDate    string `json:"start_date"`
	HoursAwarded int    `json:"hours_awarded"`
	HoursEarned  int    `json:"hours_earned"`
	IsReviewed   bool   `json:"is_reviewed"`
	RedeemedAt   string `json:"redeemed_at"`
}

// YearlyProgressResponse 学年进度汇总
type YearlyProgressResponse struct {
	AcademicYear  string               `json:"academic_year"`
	TotalHours    int                  `json:"total_hours"`
	ActivityCount int                  `json:"activity_count"`
	AverageHours  float64              `json:"average_hours"`
	Activities    []YearlyActivityItem `json:"activities"`
}

// SerialHistoryRequest 兑换流水分页查询参数（沿用前端的 page / limit 命名）
type SerialHistoryRequest struct {
	Page         int    `form:"page"          binding:"omitempty,min=1"`
	Limit        int    `form:"limit"         binding:"omitempty,min=1,max=100"`
	AcademicYear string `form:"academic_year" binding:"omitempty,max=10"`
}

// GetPage 获取页码（含默认值）
func (r *SerialHistoryRequest) GetPage() int {
	if r.Page <= 0 {
		return 1
	}
	return r.Page
}

// GetLimit 获取每页数量（含默认值）
func (r *SerialHistoryRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 20
	}
	return r.Limit
}

// GetOffset 计算偏移量
func (r *SerialHistoryRequest) GetOffset() int {
	return (r.GetPage() - 1) * r.GetLimit()
}

// [自证通过] internal/dto/student.go
