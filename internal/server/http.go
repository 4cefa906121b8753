package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprom "github.com/zsais/go-gin-prometheus"

	"gophermatch.com/internal/engine"
	"gophermatch.com/pkg/middleware"
	"gophermatch.com/pkg/ratelimit"
)

// NewRouter 组装引擎服务的 HTTP 入口。这里只是 book API 外面的一层薄壳：
// 鉴权没有、协议没有花样，撮合语义全部在 internal/book。
func NewRouter(ctx context.Context, act *engine.Actor, addr string) *http.Server {
	// 限流
	store := ratelimit.NewStore(1000, 2000, 10*time.Minute)
	store.StartJanitor(ctx, time.Minute)

	// 监控
	r := gin.New()
	p := ginprom.NewPrometheus("gophermatch")
	p.Use(r)
	r.Use(
		middleware.ReqId(),
		cors.Default(),
		middleware.Recover(),
		middleware.RateLimit(store),
	)

	registerRoutes(r, NewHandler(act, 2*time.Second))

	s := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	return s
}

func registerRoutes(r gin.IRouter, h *Handler) {
	api := r.Group("/api")
	{
		api.POST("/orders", h.Submit)
		api.POST("/orders/rest", h.Rest)
		api.PATCH("/orders/:id", h.Modify)
		api.DELETE("/orders/:id", h.Cancel)
		api.GET("/book", h.Book)
	}
}
