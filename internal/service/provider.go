// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"contact_server/internal/config"
	"contact_server/internal/dao/database/repository"
	myredis "contact_server/internal/dao/redis"
	"contact_server/internal/infrastructure/storage"
	"contact_server/internal/service/auth"
	"contact_server/internal/service/contact"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	Contact ContactService // 联系人 Service
	Auth    AuthService    // 认证 Service
}

// NewServices 创建并注入所有 Service 实例
//
// repos: Repository 层聚合实例
// cache: 存放 Refresh Token ID 的缓存
// photos: 联系人照片存储
func NewServices(repos *repository.Repositories, cache myredis.CacheService, photos storage.PhotoStorage, conf *config.Config) *Services {
	return &Services{
		Contact: contact.NewContactService(repos, photos, conf.PageConfig),
		Auth:    auth.NewAuthService(repos, cache, conf.AuthConfig.AdminEmails),
	}
}
