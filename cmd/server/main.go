package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/user/geppu/internal/config"
	"github.com/user/geppu/internal/handler"
	"github.com/user/geppu/internal/repository"
	"github.com/user/geppu/internal/router"
	"github.com/user/geppu/internal/utils"
)

// version 构建时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Info("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()
	utils.InitLogger(cfg.Env, cfg.LogLevel, cfg.LogFile)

	if err := utils.InitSentry(cfg.SentryDSN, cfg.Env, version); err != nil {
		log.WithError(err).Warn("Sentry 初始化失败，继续运行")
	}
	defer sentry.Flush(2 * time.Second)

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := repository.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化仓库与 Handler
	repos := repository.NewRepositories(db)
	h := handler.NewHandler(handler.StoresFrom(repos), cfg)
	r := router.NewEngine(cfg, h)

	// 配置 HTTP 服务器
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Infof("%s 启动于 :%s，对外地址 %s (env=%s, version=%s)", cfg.SiteName, cfg.Port, cfg.SiteUrl, cfg.Env, version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("服务器强制关闭: %v", err)
		return
	}

	log.Info("服务器已退出")
}
