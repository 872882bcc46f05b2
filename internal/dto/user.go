package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role           string `form:"role"            binding:"omitempty,oneof=STUDENT ADMIN"`
	Program        string `form:"program"         binding:"omitempty,max=100"`
	EnrollmentYear string `form:"enrollment_year" binding:"omitempty,max=10"`
	Keyword        string `form:"keyword"         binding:"omitempty,max=50"`
}

// CreateUserRequest 管理员创建用户请求
type CreateUserRequest struct {
	Name           string `json:"name"            binding:"required,min=2,max=100"`
	StudentID      string `json:"student_id"      binding:"required,max=20"`
	Email          string `json:"email"           binding:"required,email"`
	Password       string `json:"password"        binding:"required,min=8,max=64"`
	Role           string `json:"role"            binding:"omitempty,oneof=STUDENT ADMIN"`
	Program        string `json:"program"         binding:"omitempty,max=100"`
	EnrollmentYear string `json:"enrollment_year" binding:"omitempty,max=10"`
}

// ImportUserResponse 批量导入用户响应
type ImportUserResponse struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Errors  []ImportUserError `json:"errors,omitempty"`
}

// ImportUserError 导入错误详情
type ImportUserError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
