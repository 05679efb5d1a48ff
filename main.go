package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snakeroom/server"
)

// snakeroom 入口：启动 HTTP + WebSocket 服务，并初始化房间注册表
func main() {
	cfg, err := server.LoadConfig(".env", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel, cfg.LogStderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer server.SyncLogger()

	rm := server.NewRoomManager(cfg.Room)
	gw := server.NewGateway(rm, cfg)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(gw, cfg.StaticDir),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		server.Log.Infof("snakeroom listening on %s (tick=%s heartbeat=%s/%s)",
			cfg.Addr, cfg.Room.TickInterval, cfg.HeartbeatInterval, cfg.HeartbeatTimeout)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）：停止接入，再关闭所有房间的定时器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Warnf("http shutdown: %v", err)
	}
	rm.Shutdown()
}
