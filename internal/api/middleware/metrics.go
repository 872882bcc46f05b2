package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"activity-portal/backend/pkg/metrics"
)

// Metrics 请求耗时指标中间件
// 未匹配路由统一记为 "unmatched"，避免原始路径撑爆标签基数
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
