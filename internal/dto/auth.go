package dto

// LoginRequest 登录请求：学号 + 密码
type LoginRequest struct {
	StudentID  string `json:"student_id" binding:"required,max=20"`
	Password   string `json:"password"   binding:"required,max=72"` // bcrypt 只使用前 72 字节
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest 刷新 / 登出时携带的 Refresh Token
// 请求体未携带时回退到 HttpOnly Cookie
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}
