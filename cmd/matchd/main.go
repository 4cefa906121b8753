package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"gophermatch.com/internal/app"
	"gophermatch.com/pkg/logger"
)

func main() {
	// 支持 Ctrl+C / kubernetes 停止信号的 context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New("matchd")
	if err != nil {
		log.Fatalf("init matchd error: %v", err)
	}
	defer logger.Sync()

	srv := a.Start(ctx)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Fatalf("matchd ListenAndServe error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("matchd shutdown error: %v", err)
	}
	log.Println("matchd exit")
}
