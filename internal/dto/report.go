package dto

// ── 报表模块 DTO ──

// MemberReportRequest 学生学时报表过滤参数
type MemberReportRequest struct {
	AcademicYear   string `form:"academic_year"   binding:"omitempty,max=10"`
	Program        string `form:"program"         binding:"omitempty,max=100"`
	EnrollmentYear string `form:"enrollment_year" binding:"omitempty,max=10"`
}

// ActivityReportRequest 活动 / 评价报表过滤参数
type ActivityReportRequest struct {
	AcademicYear string `form:"academic_year" binding:"omitempty,max=10"`
	Status       string `form:"status"        binding:"omitempty,oneof=DRAFT OPEN CLOSED CANCELLED"`
}

// MemberReportItem 单个学生学时汇总
type MemberReportItem struct {
	UserID             string  `json:"user_id"`
	StudentID          string  `json:"student_id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Program            string  `json:"program"`
	EnrollmentYear     string  `json:"enrollment_year"`
	ActivityCount      int64   `json:"activity_count"`
	ReviewedCount      int64   `json:"reviewed_count"`
	TotalHours         int64   `json:"total_hours"`
	ProgressPercentage float64 `json:"progress_percentage"`
	IsCompleted        bool    `json:"is_completed"`
}

// MemberReportResponse 学生学时报表
type MemberReportResponse struct {
	RequiredHours  int                `json:"required_hours"`
	TotalMembers   int                `json:"total_members"`
	CompletedCount int                `json:"completed_count"`
	Members        []MemberReportItem `json:"members"`
}

// ActivityReportItem 单个活动参与汇总
type ActivityReportItem struct {
	ActivityID       string  `json:"activity_id"`
	Title            string  `json:"title"`
	StartDate        string  `json:"start_date"`
	AcademicYear     *string `json:"academic_year,omitempty"`
	Status           string  `json:"status"`
	HoursAwarded     int     `json:"hours_awarded"`
	ParticipantCount int64   `json:"participant_count"`
	ReviewCount      int64   `json:"review_count"`
	AvgOverall       float64 `json:"avg_overall"`
}

// ActivityReportResponse 活动报表
type ActivityReportResponse struct {
	TotalActivities   int                  `json:"total_activities"`
	TotalParticipants int64                `json:"total_participants"`
	Activities        []ActivityReportItem `json:"activities"`
}

// EvaluationReportItem 单个活动评价汇总
type EvaluationReportItem struct {
	ActivityID      string   `json:"activity_id"`
	Title           string   `json:"title"`
	ReviewCount     int64    `json:"review_count"`
	AvgFun          float64  `json:"avg_fun"`
	AvgLearning     float64  `json:"avg_learning"`
	AvgOrganization float64  `json:"avg_organization"`
	AvgVenue        float64  `json:"avg_venue"`
	AvgOverall      float64  `json:"avg_overall"`
	Suggestions     []string `json:"suggestions"`
}

// EvaluationReportResponse 评价报表
type EvaluationReportResponse struct {
	TotalReviews int64                  `json:"total_reviews"`
	Activities   []EvaluationReportItem `json:"activities"`
}
