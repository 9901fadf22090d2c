package database

import (
	"fmt"
	"time"

	"seichi/cms/config"
	"seichi/cms/internal/model"
	"seichi/cms/packages/database"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const serviceName = "seichi-cms"

// Open 按配置的驱动打开数据库并迁移表结构
func Open(conf config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	logLevel := conf.LogLevel
	if logLevel == "" {
		logLevel = "warn"
	}

	var (
		db  *gorm.DB
		err error
	)
	switch conf.Driver {
	case "postgres":
		db, err = database.InitPostgres(&database.PostgresConfig{
			ServiceName:     serviceName,
			Username:        conf.Username,
			Password:        conf.Password,
			Host:            conf.Host,
			Port:            conf.Port,
			Database:        conf.Database,
			SSLMode:         conf.SSLMode,
			LogLevel:        logLevel,
			MaxIdleConns:    conf.MaxIdleConns,
			MaxOpenConns:    conf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(conf.MaxLifetime) * time.Second,
		}, log)
	case "sqlite":
		db, err = database.InitSQLite(&database.SQLiteConfig{
			ServiceName: serviceName,
			Path:        conf.Path,
			LogLevel:    logLevel,
		}, log)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", conf.Driver)
	}
	if err != nil {
		return nil, err
	}

	// 初始化数据库表
	if err := model.InitTable(db); err != nil {
		return nil, fmt.Errorf("初始化数据库表失败: %w", err)
	}
	return db, nil
}

// OpenRedis 未启用时返回 nil，调用方据此退化为无缓存
func OpenRedis(conf config.RedisConfig, log zerolog.Logger) (*database.RedisClient, error) {
	if !conf.Enabled {
		log.Info().Msg("Redis 未启用，公开页面不缓存")
		return nil, nil
	}
	return database.InitRedis(&database.RedisConfig{
		ServiceName: serviceName,
		Host:        conf.Host,
		Port:        conf.Port,
		Password:    conf.Password,
		DB:          conf.DB,
		PoolSize:    conf.PoolSize,
	}, log)
}
