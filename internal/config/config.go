// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找；敏感项可通过环境变量（或 .env）覆盖
package config

import (
	"fmt"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
	"github.com/caarlos0/env/v6"  // 环境变量覆盖
	"github.com/joho/godotenv"    // .env 文件加载
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName     string `toml:"appName"`                        // 应用名称，用于日志标识等
	Host        string `toml:"host" env:"SERVER_HOST"`         // 服务器监听地址，如 "0.0.0.0"
	Port        int    `toml:"port" env:"SERVER_PORT"`         // 服务器监听端口，如 8000
	Mode        string `toml:"mode" env:"GIN_MODE"`            // 运行模式：debug / release
	SSLRedirect bool   `toml:"sslRedirect" env:"SSL_REDIRECT"` // 是否将 HTTP 请求重定向到 HTTPS（由 Nginx 终止 TLS 时关闭）
}

// DatabaseConfig 数据库连接配置
// Driver 支持 mysql（默认）、postgres、sqlite
type DatabaseConfig struct {
	Driver       string `toml:"driver" env:"DB_DRIVER"`
	Host         string `toml:"host" env:"DB_HOST"`
	Port         int    `toml:"port" env:"DB_PORT"`
	User         string `toml:"user" env:"DB_USER"`
	Password     string `toml:"password" env:"DB_PASSWORD"`
	DatabaseName string `toml:"databaseName" env:"DB_NAME"`
	SSLMode      string `toml:"sslMode"`    // 仅 postgres 使用
	SqlitePath   string `toml:"sqlitePath"` // 仅 sqlite 使用，如 "data/contacts.db"
	MaxIdleConns int    `toml:"maxIdleConns"`
	MaxOpenConns int    `toml:"maxOpenConns"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host" env:"REDIS_HOST"`         // Redis 服务器地址
	Port     int    `toml:"port" env:"REDIS_PORT"`         // Redis 端口，默认 6379
	Password string `toml:"password" env:"REDIS_PASSWORD"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`                            // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// StaticSrcConfig 静态资源路径配置
type StaticSrcConfig struct {
	StaticPhotoPath string `toml:"staticPhotoPath" env:"PHOTO_PATH"` // 联系人照片存储目录
	PhotoURLPrefix  string `toml:"photoUrlPrefix"`                   // 照片访问路径前缀，默认 /uploads
	MaxPhotoSize    int64  `toml:"maxPhotoSize"`                     // 单张照片最大字节数
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret" env:"JWT_SECRET"` // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`       // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"`      // Refresh Token 有效期（小时）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId" env:"SNOWFLAKE_MACHINE_ID"` // 节点 ID，范围 0-1023，分布式部署时每台机器需唯一
}

// AuthConfig 账号相关配置
type AuthConfig struct {
	AdminEmails []string `toml:"adminEmails" env:"ADMIN_EMAILS" envSeparator:","` // 注册时授予 admin 角色的邮箱
	Locale      string   `toml:"locale"`                                          // 参数校验提示语言：en / zh
}

// PageConfig 列表分页配置
type PageConfig struct {
	DefaultLimit int `toml:"defaultLimit"` // 默认每页条数
	MaxLimit     int `toml:"maxLimit"`     // 每页条数上限
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	DatabaseConfig  `toml:"databaseConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	StaticSrcConfig `toml:"staticSrcConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	AuthConfig      `toml:"authConfig"`
	PageConfig      `toml:"pageConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// Default 返回带默认值的配置，配置文件中缺失的项保持默认
func Default() *Config {
	return &Config{
		MainConfig: MainConfig{
			AppName: "contact_server",
			Host:    "0.0.0.0",
			Port:    8000,
			Mode:    "debug",
		},
		DatabaseConfig: DatabaseConfig{
			Driver:       "mysql",
			Host:         "127.0.0.1",
			Port:         3306,
			User:         "root",
			DatabaseName: "contact_server",
			SSLMode:      "disable",
			SqlitePath:   "data/contacts.db",
			MaxIdleConns: 10,
			MaxOpenConns: 100,
		},
		RedisConfig: RedisConfig{
			Host: "127.0.0.1",
			Port: 6379,
		},
		LogConfig: LogConfig{
			LogPath: "logs",
			Level:   "info",
		},
		StaticSrcConfig: StaticSrcConfig{
			StaticPhotoPath: "static/uploads",
			PhotoURLPrefix:  "/uploads",
			MaxPhotoSize:    5 << 20,
		},
		JWTConfig: JWTConfig{
			AccessTokenExpiry:  15,
			RefreshTokenExpiry: 168,
		},
		SnowflakeConfig: SnowflakeConfig{MachineID: 1},
		AuthConfig:      AuthConfig{Locale: "en"},
		PageConfig: PageConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
	}
}

// LoadConfig 从多个候选路径加载配置文件，再应用环境变量覆盖
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig(cfg *Config) error {
	// 候选配置文件路径（优先加载本地配置）
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",
	}

	var fileErr error = fmt.Errorf("could not find configuration file in any of the search paths")
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, cfg); err == nil {
			fileErr = nil
			break
		}
	}

	// .env 不存在是正常情况
	_ = godotenv.Load()
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env overrides: %w", err)
	}
	return fileErr
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，找不到文件时使用默认值
func GetConfig() *Config {
	if config == nil {
		config = Default()
		_ = LoadConfig(config)
	}
	return config
}
