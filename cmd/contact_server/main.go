package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact_server/internal/config"
	"contact_server/internal/dao/database"
	myredis "contact_server/internal/dao/redis"
	"contact_server/internal/handler"
	"contact_server/internal/https_server"
	"contact_server/internal/infrastructure/logger"
	"contact_server/internal/infrastructure/storage"
	"contact_server/internal/service"
	"contact_server/pkg/util/jwt"
	"contact_server/pkg/util/snowflake"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.Default()
	if err := config.LoadConfig(conf); err != nil {
		log.Printf("load config: %v, falling back to defaults and environment", err)
	}
	gin.SetMode(conf.MainConfig.Mode)

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功")

	if conf.JWTConfig.Secret == "" {
		zap.L().Fatal("jwtConfig.secret is empty, set it in the config file or JWT_SECRET")
	}

	// 3. 初始化雪花 ID 节点
	snowflake.Init(conf.SnowflakeConfig.MachineID)

	// 4. 初始化数据库
	database.Init(&conf.DatabaseConfig)
	zap.L().Info("数据库初始化成功", zap.String("driver", conf.DatabaseConfig.Driver))

	// 5. 初始化 Redis
	cache := myredis.Init(&conf.RedisConfig)
	defer func() { _ = cache.Close() }()

	// 6. 初始化 JWT 与参数校验翻译
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	if err := handler.InitTrans(conf.AuthConfig.Locale); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}

	// 7. 照片存储
	photos, err := storage.NewLocalPhotoStorage(conf.StaticSrcConfig.StaticPhotoPath, conf.StaticSrcConfig.PhotoURLPrefix, conf.StaticSrcConfig.MaxPhotoSize)
	if err != nil {
		zap.L().Fatal("init photo storage failed", zap.Error(err))
	}

	// 8. 依赖注入：Repository -> Service -> Handler
	svcs := service.NewServices(database.Repos, cache, photos, conf)
	engine := https_server.Init(handler.NewHandlers(svcs), conf)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown failed", zap.Error(err))
	}
	if sqlDB, err := database.GormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zap.L().Info("服务器已关闭")
}
