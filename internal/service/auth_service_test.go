package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"activity-portal/backend/config"
	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/model"
	"activity-portal/backend/pkg/jwt"
)

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	mu   sync.Mutex
	jtis map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{jtis: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jtis[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jtis[jti]
	return ok, nil
}

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *mockRepos, *mockBlacklist, *jwt.Manager) {
	cfg := &config.AuthConfig{
		JWTSecret:               "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	}

	repo, m := newMockRepos()
	jwtMgr := jwt.NewManager(cfg)
	blacklist := newMockBlacklist()

	svc := NewAuthService(repo, jwtMgr, blacklist, zap.NewNop())
	return svc, m, blacklist, jwtMgr
}

func createTestUser(m *mockRepos, studentID, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "user-" + studentID,
		Name:         "测试学生",
		StudentID:    studentID,
		Email:        studentID + "@test.com",
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
		Program:      "Computer Science",
	}
	_ = m.users.Create(context.Background(), user)
	return user
}

// ── 登录测试 ──

func TestLogin_Success(t *testing.T) {
	svc, m, _, _ := setupTestAuthService()
	createTestUser(m, "6501001", "password123")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		StudentID: "6501001",
		Password:  "password123",
	})

	if err != nil {
		t.Fatalf("Login 应成功，但返回错误: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("Token 不应为空")
	}
	if result.User.StudentID != "6501001" || result.User.Role != model.RoleStudent {
		t.Errorf("用户信息不符: %+v", result.User)
	}
	if result.ExpiresIn != 900 {
		t.Errorf("期望 ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, m, _, _ := setupTestAuthService()
	createTestUser(m, "6501001", "password123")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		StudentID: "6501001",
		Password:  "wrong_password",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		StudentID: "nonexistent",
		Password:  "password123",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_RememberMe(t *testing.T) {
	svc, m, _, jwtMgr := setupTestAuthService()
	createTestUser(m, "6501001", "password123")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		StudentID:  "6501001",
		Password:   "password123",
		RememberMe: true,
	})
	if err != nil {
		t.Fatalf("Login(RememberMe) 应成功: %v", err)
	}

	claims, err := jwtMgr.ParseToken(result.RefreshToken)
	if err != nil {
		t.Fatalf("解析 RefreshToken 失败: %v", err)
	}
	if !claims.RememberMe || claims.RemainingTTL() < 24*time.Hour {
		t.Errorf("RememberMe 应延长 RefreshToken 有效期，剩余=%v", claims.RemainingTTL())
	}
}

// ── RefreshToken 测试 ──

func TestRefreshToken_RotatesAndRevokesOld(t *testing.T) {
	svc, m, _, _ := setupTestAuthService()
	user := createTestUser(m, "6501001", "password123")

	loginResult, err := svc.Login(context.Background(), &dto.LoginRequest{
		StudentID: "6501001",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}

	result, err := svc.RefreshToken(context.Background(), loginResult.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("新 AccessToken 不应为空")
	}
	if result.User.StudentID != user.StudentID {
		t.Errorf("期望 StudentID=%s，实际=%s", user.StudentID, result.User.StudentID)
	}

	// 旧 Refresh Token 已轮换作废
	if _, err := svc.RefreshToken(context.Background(), loginResult.RefreshToken); !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Errorf("旧 RefreshToken 期望 ErrRefreshTokenInvalid，实际: %v", err)
	}
}

func TestRefreshToken_InvalidToken(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.RefreshToken(context.Background(), "invalid.token.string")
	if !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Errorf("期望 ErrRefreshTokenInvalid，实际: %v", err)
	}
}

func TestRefreshToken_AccessTokenNotAllowed(t *testing.T) {
	svc, m, _, _ := setupTestAuthService()
	createTestUser(m, "6501001", "password123")

	loginResult, _ := svc.Login(context.Background(), &dto.LoginRequest{
		StudentID: "6501001",
		Password:  "password123",
	})

	// 使用 access token 尝试刷新（应拒绝）
	_, err := svc.RefreshToken(context.Background(), loginResult.AccessToken)
	if !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Errorf("期望 ErrRefreshTokenInvalid（access token 不能用于刷新），实际: %v", err)
	}
}

// ── Logout 测试 ──

func TestLogout_RevokesBothTokens(t *testing.T) {
	svc, m, blacklist, jwtMgr := setupTestAuthService()
	createTestUser(m, "6501001", "password123")

	loginResult, _ := svc.Login(context.Background(), &dto.LoginRequest{
		StudentID: "6501001",
		Password:  "password123",
	})
	access, _ := jwtMgr.ParseToken(loginResult.AccessToken)
	refresh, _ := jwtMgr.ParseToken(loginResult.RefreshToken)

	if err := svc.Logout(context.Background(), access.ID, access.RemainingTTL(), loginResult.RefreshToken); err != nil {
		t.Fatalf("Logout 应成功: %v", err)
	}

	for _, jti := range []string{access.ID, refresh.ID} {
		if revoked, _ := blacklist.IsBlacklisted(context.Background(), jti); !revoked {
			t.Errorf("jti=%s 应进入黑名单", jti)
		}
	}
}

func TestLogout_NoBlacklist(t *testing.T) {
	repo, _ := newMockRepos()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
	})
	svc := NewAuthService(repo, jwtMgr, nil, zap.NewNop())

	if err := svc.Logout(context.Background(), "jti", time.Minute, ""); err != nil {
		t.Errorf("无 Redis 时登出应直接成功: %v", err)
	}
}

// ── GetCurrentUser 测试 ──

func TestGetCurrentUser(t *testing.T) {
	svc, m, _, _ := setupTestAuthService()
	user := createTestUser(m, "6501001", "password123")

	result, err := svc.GetCurrentUser(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if result.Program != "Computer Science" {
		t.Errorf("期望 Program=Computer Science，实际=%s", result.Program)
	}

	if _, err := svc.GetCurrentUser(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
