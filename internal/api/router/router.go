package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"activity-portal/backend/config"
	"activity-portal/backend/internal/api/handler"
	"activity-portal/backend/internal/api/middleware"
	"activity-portal/backend/internal/model"
	"activity-portal/backend/pkg/jwt"
	"activity-portal/backend/pkg/metrics"
)

// maxBodyBytes 普通请求体上限；导入接口单独放宽
const (
	maxBodyBytes       = 1 << 20
	maxUploadBodyBytes = 6 << 20
)

// Pinger 健康检查探针
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps 路由依赖；Checker / Limiter / Cache 为 nil 时对应能力降级（Redis 不可用）
type Deps struct {
	JWT     *jwt.Manager
	Checker middleware.TokenChecker
	Limiter middleware.RateLimiter
	DB      *gorm.DB
	Cache   Pinger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders(cfg.Auth.Cookie.Secure))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 / 指标 ──
	r.GET("/health", healthCheck(deps.DB, deps.Cache))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	admin := middleware.RoleAuth(model.RoleAdmin)
	student := middleware.RoleAuth(model.RoleStudent)
	bodyLimit := middleware.BodyLimit(maxBodyBytes)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth", bodyLimit)
		{
			auth.POST("/login", middleware.RateLimit(deps.Limiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 公开活动
		v1.GET("/activities", h.Activity.ListPublicActivities)
		v1.GET("/activities/calendar.ics", h.Activity.CalendarFeed)
		v1.GET("/activities/:id", h.Activity.GetActivity)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(deps.JWT, deps.Checker))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 学生端
			stu := authorized.Group("/student", student, bodyLimit)
			{
				stu.POST("/redeem-serial",
					middleware.RateLimit(deps.Limiter, cfg.RateLimit.RedeemLimit, cfg.RateLimit.RedeemWindow),
					h.Student.RedeemSerial)
				stu.POST("/submit-review", h.Student.SubmitReview)
				stu.GET("/progress", h.Student.GetProgress)
				stu.GET("/progress/yearly", h.Student.GetYearlyProgress)
				stu.GET("/pending-reviews", h.Student.ListPendingReviews)
				stu.GET("/serial-history", h.Student.ListHistory)
				stu.GET("/academic-years", h.Student.ListAcademicYears)
				stu.GET("/upcoming-activities", h.Student.ListUpcomingActivities)
				stu.GET("/profile", h.Student.GetProfile)
			}

			// 活动管理（创建者或管理员，Service 层校验归属）
			activities := authorized.Group("/activities", admin, bodyLimit)
			{
				activities.POST("", h.Activity.CreateActivity)
				activities.PUT("/:id", h.Activity.UpdateActivity)
				activities.PUT("/:id/reschedule", h.Activity.RescheduleActivity)
				activities.DELETE("/:id", h.Activity.DeleteActivity)
			}

			// 管理端
			adm := authorized.Group("/admin", admin)
			{
				adm.GET("/academic-years", h.AcademicYear.ListAcademicYears)
				adm.POST("/academic-years", bodyLimit, h.AcademicYear.CreateAcademicYear)
				adm.PUT("/academic-years/:id", bodyLimit, h.AcademicYear.UpdateAcademicYear)
				adm.DELETE("/academic-years/:id", h.AcademicYear.DeleteAcademicYear)

				adm.GET("/activities", h.Activity.ListActivities)
				adm.GET("/activities/:id/participants", h.Activity.ListParticipants)
				adm.POST("/activities/:id/serials", bodyLimit, h.Serial.GenerateSerials)
				adm.GET("/activities/:id/serials", h.Serial.ListSerials)
				adm.PUT("/serials/:id/status", bodyLimit, h.Serial.UpdateSerialStatus)

				adm.POST("/serial-histories/:id/adjust", bodyLimit, h.Serial.AdjustHours)
				adm.GET("/serial-histories/:id/adjustments", h.Serial.ListAdjustments)

				adm.GET("/system-settings", h.SystemSetting.GetSettings)
				adm.PUT("/system-settings", bodyLimit, h.SystemSetting.UpdateSettings)

				adm.GET("/users", h.User.ListUsers)
				adm.POST("/users", bodyLimit, h.User.CreateUser)
				adm.POST("/users/import", middleware.BodyLimit(maxUploadBodyBytes), h.User.ImportUsers)

				reports := adm.Group("/reports")
				{
					reports.GET("/members", h.Report.MemberReport)
					reports.GET("/members/export/excel", h.Report.ExportMembers)
					reports.GET("/activities", h.Report.ActivityReport)
					reports.GET("/activities/export/excel", h.Report.ExportActivities)
					reports.GET("/evaluations", h.Report.EvaluationReport)
					reports.GET("/evaluations/export/excel", h.Report.ExportEvaluations)
				}
			}
		}
	}

	return r
}

// healthCheck 数据库不可达时返回 503；Redis 仅影响降级能力，只做状态展示
func healthCheck(db *gorm.DB, cache Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{"status": "ok", "database": "skipped", "redis": "disabled"}
		status := http.StatusOK

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				body["status"], body["database"] = "degraded", "unreachable"
				status = http.StatusServiceUnavailable
			} else {
				body["database"] = "up"
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				body["redis"] = "unreachable"
			} else {
				body["redis"] = "up"
			}
		}

		c.JSON(status, body)
	}
}
