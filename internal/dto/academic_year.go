package dto

// ── 学年模块 DTO ──

// CreateAcademicYearRequest 创建学年请求（日期格式 2006-01-02）
type CreateAcademicYearRequest struct {
	Year      string `json:"year"       binding:"required,max=10"`
	YearLabel string `json:"year_label" binding:"required,max=50"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
	IsActive  bool   `json:"is_active"`
}

// UpdateAcademicYearRequest 更新学年请求
type UpdateAcademicYearRequest struct {
	YearLabel *string `json:"year_label" binding:"omitempty,max=50"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

// AcademicYearResponse 学年响应
type AcademicYearResponse struct {
	ID        string `json:"id"`
	Year      string `json:"year"`
	YearLabel string `json:"year_label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}
