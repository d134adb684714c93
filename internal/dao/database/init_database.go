// Package database 提供数据访问层的初始化
// 负责按配置选择驱动建立连接、自动迁移表结构、初始化 Repository 层
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"contact_server/internal/config"
	"contact_server/internal/dao/database/dialect"
	"contact_server/internal/dao/database/repository"
	"contact_server/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormDB 全局 GORM 数据库实例
var GormDB *gorm.DB

// Repos 全局 Repository 实例集合，供 Service 层通过依赖注入使用
var Repos *repository.Repositories

// Init 初始化数据库连接和 Repository 层
// 连接或迁移失败直接退出进程
func Init(conf *config.DatabaseConfig) {
	db, err := Open(conf)
	if err != nil {
		zap.L().Fatal("open database failed", zap.String("driver", conf.Driver), zap.Error(err))
	}
	if err := Migrate(db); err != nil {
		zap.L().Fatal("auto migrate failed", zap.Error(err))
	}
	GormDB = db
	Repos = repository.NewRepositories(db)
}

// Open 按 Driver 选择方言并建立连接
func Open(conf *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(conf)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true, // 将唯一键冲突等驱动错误翻译为 gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if conf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	}
	if conf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	}
	return db, nil
}

// Migrate 自动迁移表结构，不会删除已有字段或数据
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},    // 账号表
		&model.Contact{}, // 联系人表
	)
}

func dialectorFor(conf *config.DatabaseConfig) (gorm.Dialector, error) {
	switch conf.Driver {
	case "", "mysql":
		// 格式：user:password@tcp(host:port)/database?params
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			conf.User, conf.Password, conf.Host, conf.Port, conf.DatabaseName)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			conf.Host, conf.Port, conf.User, conf.Password, conf.DatabaseName, conf.SSLMode)
		return postgres.Open(dsn), nil
	case "sqlite":
		if dir := filepath.Dir(conf.SqlitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return dialect.SQLite(conf.SqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
	}
}
