package app

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gophermatch.com/internal/book"
	"gophermatch.com/internal/engine"
	"gophermatch.com/internal/render"
	"gophermatch.com/internal/server"
	"gophermatch.com/pkg/config"
	"gophermatch.com/pkg/logger"
	"gophermatch.com/pkg/metrics"
	"gophermatch.com/pkg/safe"
)

type Config struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`

	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`

	Metrics struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"metrics"`

	Engine struct {
		PoolCapacity int  `mapstructure:"pool_capacity"`
		MailboxSize  int  `mapstructure:"mailbox_size"`
		BusSize      int  `mapstructure:"bus_size"`
		SeedDemo     bool `mapstructure:"seed_demo"`
	} `mapstructure:"engine"`
}

// App 把配置、日志、指标、撮合 actor 和 HTTP 入口拼到一起
type App struct {
	Cfg   Config
	Book  *book.Book
	Actor *engine.Actor
}

func New(service string) (*App, error) {
	var cfg Config
	if _, err := config.LoadAndWatch(service, &cfg); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = service
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Engine.PoolCapacity <= 0 {
		cfg.Engine.PoolCapacity = 1_000_000 // 原型同款：百万单的池
	}

	logger.Init(cfg.Name, cfg.LogLevel)
	metrics.MustRegister()

	b := book.New(cfg.Engine.PoolCapacity)
	if cfg.Engine.SeedDemo {
		if err := b.SeedDemo(); err != nil {
			return nil, err
		}
		// 演示模式：启动时把簿画出来
		render.Ladder(os.Stdout, b)
	}

	act := engine.NewActor(b, engine.Config{
		MailboxSize: cfg.Engine.MailboxSize,
		BusSize:     cfg.Engine.BusSize,
	})

	return &App{Cfg: cfg, Book: b, Actor: act}, nil
}

// Start 启动 actor 和观测入口，返回业务 HTTP server（由调用方 Serve/Shutdown）
func (a *App) Start(ctx context.Context) *http.Server {
	safe.GoCtx(ctx, a.Actor.Run)

	if a.Cfg.Metrics.Addr != "" {
		startMetrics(a.Cfg.Metrics.Addr)
	}

	return server.NewRouter(ctx, a.Actor, a.Cfg.HTTP.Addr)
}

func startMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	safe.Go(func() {
		log.Printf("metrics listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	})
}
