package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"activity-portal/backend/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
	ErrTokenType    = errors.New("token 类型不匹配")
)

const (
	issuer = "activity-portal"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims 门户令牌声明；jti 用于注销黑名单
type Claims struct {
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	StudentID  string `json:"student_id"`
	TokenType  string `json:"token_type"`
	RememberMe bool   `json:"remember_me,omitempty"`
	jwtv5.RegisteredClaims
}

// Manager 签发与校验 HS256 令牌
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	rememberTT time.Duration
	parser     *jwtv5.Parser
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTLDefault,
		rememberTT: cfg.RefreshTokenTTLRemember,
		parser: jwtv5.NewParser(
			jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
			jwtv5.WithIssuer(issuer),
			jwtv5.WithExpirationRequired(),
		),
	}
}

// GenerateAccessToken 生成 Access Token
func (m *Manager) GenerateAccessToken(userID, role, studentID string) (string, error) {
	return m.sign(Claims{
		UserID:    userID,
		Role:      role,
		StudentID: studentID,
		TokenType: TokenTypeAccess,
	}, m.accessTTL)
}

// GenerateRefreshToken 生成 Refresh Token；rememberMe 使用较长有效期
func (m *Manager) GenerateRefreshToken(userID, role, studentID string, rememberMe bool) (string, error) {
	ttl := m.refreshTTL
	if rememberMe {
		ttl = m.rememberTT
	}
	return m.sign(Claims{
		UserID:     userID,
		Role:       role,
		StudentID:  studentID,
		TokenType:  TokenTypeRefresh,
		RememberMe: rememberMe,
	}, ttl)
}

func (m *Manager) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwtv5.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken 校验签名、签发方与有效期
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwtv5.Token) (interface{}, error) {
		return m.secret, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenInvalid
	}
}

// ParseTyped 在 ParseToken 基础上要求指定的令牌类型
func (m *Manager) ParseTyped(tokenString, tokenType string) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrTokenType
	}
	return claims, nil
}

// RemainingTTL 距过期的剩余时长，已过期返回 0
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := time.Until(c.ExpiresAt.Time); d > 0 {
		return d
	}
	return 0
}

// AccessTokenTTL 登录响应 expires_in 使用
func (m *Manager) AccessTokenTTL() time.Duration {
	return m.accessTTL
}
