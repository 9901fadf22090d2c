package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SQLiteConfig 本地开发与测试用的 SQLite 配置
type SQLiteConfig struct {
	ServiceName string
	// 数据库文件路径，或 "file:xxx?mode=memory&cache=shared" 形式的内存库
	Path     string
	LogLevel string
}

// InitSQLite 初始化 SQLite 连接
// SQLite 同一时刻只允许一个写者，连接池固定为 1，事务之间天然串行
func InitSQLite(config *SQLiteConfig, log zerolog.Logger) (*gorm.DB, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("sqlite 路径不能为空")
	}

	db, err := gorm.Open(sqlite.Open(config.Path), GormConfig(config.LogLevel, log))
	if err != nil {
		return nil, fmt.Errorf("打开 sqlite 失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("service", config.ServiceName).Str("path", config.Path).Msg("sqlite 已打开")
	return db, nil
}
