package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"activity-portal/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// tokenMeta 读取当前 Access Token 的 jti 与剩余有效期（登出拉黑使用）
func tokenMeta(c *gin.Context) (string, time.Duration) {
	jti := c.GetString("token_jti")
	var ttl time.Duration
	if v, ok := c.Get("token_exp"); ok {
		if exp, ok := v.(time.Time); ok {
			ttl = time.Until(exp)
		}
	}
	return jti, ttl
}

// MustGetUUIDParam 读取并校验 UUID 路径参数，非法时写入 400
func MustGetUUIDParam(c *gin.Context, name, label string) (string, bool) {
	id := c.Param(name)
	if id == "" {
		response.BadRequest(c, 10001, label+"不能为空")
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, 10001, label+"格式无效")
		return "", false
	}
	return id, true
}
