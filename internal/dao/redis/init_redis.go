package redis

import (
	"context"
	"net"
	"strconv"
	"time"

	"contact_server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Init 按配置创建 Redis 客户端并探测连通性
// 连接失败只记录告警：Redis 仅承载刷新令牌，联系人接口不依赖它
func Init(conf *config.RedisConfig) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port)),
		Password: conf.Password,
		DB:       conf.Db,
		// 连接池配置
		PoolSize:     20,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis ping failed", zap.String("addr", client.Options().Addr), zap.Error(err))
	} else {
		zap.L().Info("redis connected", zap.String("addr", client.Options().Addr))
	}
	return NewRedisCache(client)
}
