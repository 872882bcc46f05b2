package dto

// TokenResponse 登录 / 刷新响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // 秒
	User         UserResponse `json:"user"`
}

// UserResponse 用户信息（不含密码哈希）
type UserResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	StudentID      string `json:"student_id"`
	Role           string `json:"role"`
	Program        string `json:"program"`
	EnrollmentYear string `json:"enrollment_year"`
}

// UserDetailResponse GET /auth/me、GET /student/profile
type UserDetailResponse struct {
	UserResponse
	CreatedAt string `json:"created_at"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationRequest 管理端列表通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (p *PaginationRequest) GetPage() int { return max(p.Page, 1) }

func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return defaultPageSize
	}
	return min(p.PageSize, maxPageSize)
}

func (p *PaginationRequest) GetOffset() int { return (p.GetPage() - 1) * p.GetPageSize() }
