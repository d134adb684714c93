// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件、静态资源和路由
package https_server

import (
	"strings"

	"contact_server/internal/config"
	"contact_server/internal/handler"
	"contact_server/internal/infrastructure/logger"
	"contact_server/internal/infrastructure/middleware"
	"contact_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 创建并配置 Gin 引擎
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志、恢复与安全头中间件
//  3. 配置 CORS 跨域规则
//  4. 映射照片静态目录
//  5. 注册业务路由
func Init(handlers *handler.Handlers, conf *config.Config) *gin.Engine {
	engine := gin.New()

	engine.Use(logger.GinLogger())
	// 参数 true 表示在日志中包含堆栈信息
	engine.Use(logger.GinRecovery(true))
	engine.Use(middleware.SecureHeaders(
		conf.MainConfig.Host,
		conf.MainConfig.Port,
		conf.MainConfig.SSLRedirect,
		conf.MainConfig.Mode != gin.ReleaseMode,
	))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // 生产环境应指定具体域名
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// multipart 解析的内存上限，超出部分写入临时文件
	engine.MaxMultipartMemory = conf.StaticSrcConfig.MaxPhotoSize + 1<<20

	// /uploads -> 联系人照片目录
	engine.Static("/"+strings.Trim(conf.StaticSrcConfig.PhotoURLPrefix, "/"), conf.StaticSrcConfig.StaticPhotoPath)

	router.NewRouter(handlers).RegisterRoutes(engine)
	return engine
}
