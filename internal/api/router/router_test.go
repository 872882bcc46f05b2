package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"activity-portal/backend/config"
	"activity-portal/backend/internal/api/handler"
	"activity-portal/backend/internal/service"
	"activity-portal/backend/pkg/jwt"
)

func setupTestRouter(t *testing.T) (http.Handler, *jwt.Manager) {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, BaseURL: "http://localhost:8080"},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
		},
	}
	mgr := jwt.NewManager(&cfg.Auth)
	// 此处只验证路由与鉴权链，请求不会到达 Service
	h := handler.NewHandler(cfg, &service.Service{})
	return Setup(cfg, h, Deps{JWT: mgr}, zap.NewNop()), mgr
}

func request(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := request(r, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRouter_AccessControl(t *testing.T) {
	r, mgr := setupTestRouter(t)
	studentToken, _ := mgr.GenerateAccessToken("u-1", "STUDENT", "6501001")
	adminToken, _ := mgr.GenerateAccessToken("u-2", "ADMIN", "A0001")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"StudentRouteWithoutToken", "GET", "/api/v1/student/progress", "", http.StatusUnauthorized},
		{"AdminRouteAsStudent", "GET", "/api/v1/admin/users", studentToken, http.StatusForbidden},
		{"ReportsAsStudent", "GET", "/api/v1/admin/reports/members", studentToken, http.StatusForbidden},
		{"CreateActivityAsStudent", "POST", "/api/v1/activities", studentToken, http.StatusForbidden},
		{"RedeemAsAdmin", "POST", "/api/v1/student/redeem-serial", adminToken, http.StatusForbidden},
		{"AdjustAsStudent", "POST", "/api/v1/admin/serial-histories/x/adjust", studentToken, http.StatusForbidden},
		{"PublicActivityBadID", "GET", "/api/v1/activities/not-a-uuid", "", http.StatusBadRequest},
		{"UnknownRoute", "GET", "/api/v1/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, tt.method, tt.path, tt.token)
			if w.Code != tt.wantStatus {
				t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.wantStatus, w.Code)
			}
		})
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealthCheck_RedisStatus(t *testing.T) {
	tests := []struct {
		name  string
		cache Pinger
		want  string
	}{
		{"Disabled", nil, "disabled"},
		{"Up", fakePinger{}, "up"},
		{"Down", fakePinger{err: errors.New("connection refused")}, "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", healthCheck(nil, tt.cache))

			w := request(r, "GET", "/health", "")
			if w.Code != http.StatusOK {
				t.Fatalf("redis 状态不影响存活检查，期望 200，实际 %d", w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("解析响应失败: %v", err)
			}
			if body["redis"] != tt.want {
				t.Errorf("redis = %q, want %q", body["redis"], tt.want)
			}
		})
	}
}
