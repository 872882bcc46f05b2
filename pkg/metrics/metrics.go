package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ── 业务指标 ──

var (
	once sync.Once

	serialRedemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_serial_redemptions_total",
			Help: "Serial code 兑换次数（按结果分类）",
		},
		[]string{"result"},
	)

	activityReviews = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_activity_reviews_total",
			Help: "活动评价提交次数（按结果分类）",
		},
		[]string{"result"},
	)

	hoursAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_hours_awarded_total",
			Help: "评价完成后累计发放的活动学时",
		},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "登录尝试次数（success / invalid_credentials / error）",
		},
		[]string{"result"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP 请求耗时分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// MustRegister 向默认 Registry 注册全部指标（幂等）
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(serialRedemptions, activityReviews, hoursAwarded, logins, httpDuration)
	})
}

// Handler /metrics 暴露端点
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncRedemption 记录一次兑换结果（success / not_found / invalid_state / duplicate / ...）
func IncRedemption(result string) {
	serialRedemptions.WithLabelValues(result).Inc()
}

// IncReview 记录一次评价结果
func IncReview(result string) {
	activityReviews.WithLabelValues(result).Inc()
}

// AddHoursAwarded 累加发放学时
func AddHoursAwarded(hours int) {
	if hours > 0 {
		hoursAwarded.Add(float64(hours))
	}
}

// IncLogin 记录一次登录结果
func IncLogin(result string) {
	logins.WithLabelValues(result).Inc()
}

// ObserveHTTP 记录请求耗时；route 使用 gin 的 FullPath 以避免高基数
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
