package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gophermatch.com/pkg/common"
	"gophermatch.com/pkg/logger"
	"gophermatch.com/pkg/metrics"
	"gophermatch.com/pkg/ratelimit"
)

type RateLimitConfig struct {
	Rate  rate.Limit
	Burst int
	TTL   time.Duration
}

func RateLimit(store *ratelimit.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := c.ClientIP() + ":" + route

		if !store.Allow(key) {
			// 限流属于“可控拒绝”，不要打堆栈（压测会炸日志）
			logger.Warn(c, "http rate limited",
				zap.String("request_id", common.RequestIDFromGin(c)),
				zap.String("ip", c.ClientIP()),
				zap.String("route", route),
			)
			metrics.RateLimitBlockTotal.WithLabelValues(route).Inc()
			common.Fail(c, http.StatusTooManyRequests, 1003001, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
