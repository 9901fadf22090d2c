// config/config.go - 配置管理文件
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"seichi/cms/packages/email"
	"seichi/cms/packages/logger"
	"seichi/cms/packages/telemetry"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server    ServerConfig     `koanf:"server"`
	Database  DatabaseConfig   `koanf:"database"`
	Redis     RedisConfig      `koanf:"redis"`
	Log       logger.Config    `koanf:"log"`
	JWT       JWTConfig        `koanf:"jwt"`
	Email     email.Config     `koanf:"email"`
	Asset     AssetConfig      `koanf:"asset"`
	Content   ContentConfig    `koanf:"content"`
	Telemetry telemetry.Config `koanf:"telemetry"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	GRPCPort        int           `koanf:"grpc_port"`
	Mode            string        `koanf:"mode"` // debug, release, test
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	FrontendURL     string        `koanf:"frontend_url"`
	// 对外可访问的站点地址，用于通知邮件中的链接
	PublicURL string `koanf:"public_url"`
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver"` // postgres, sqlite
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	Path         string `koanf:"path"`      // sqlite 文件路径
	LogLevel     string `koanf:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
	// 公开页面缓存时长，如 5m
	PageTTL time.Duration `koanf:"page_ttl"`
}

type JWTConfig struct {
	Secret string `koanf:"secret"`
}

type AssetConfig struct {
	Dir          string   `koanf:"dir"`
	MaxSize      int64    `koanf:"max_size"` // 字节
	AllowedTypes []string `koanf:"allowed_types"`
}

type ContentConfig struct {
	Dir string `koanf:"dir"` // MDX 攻略目录
}

// Load 加载配置文件，环境变量覆盖同名配置（SERVER_PORT -> server.port）
func Load(configPath string) (*AppConfig, error) {
	// 首先加载 .env 文件到环境变量
	if err := godotenv.Load(); err != nil {
		log.Printf("警告: 无法加载 .env 文件: %v", err)
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("加载配置文件失败: %w", err)
	}

	// 加载环境变量（会覆盖配置文件）
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("加载环境变量失败: %w", err)
	}

	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	normalize(conf)
	return conf, nil
}

// MustLoad 加载配置，失败则退出
func MustLoad(configPath string) *AppConfig {
	conf, err := Load(configPath)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	return conf
}

// envKey 环境变量名映射为配置键，仅识别已知的顶层段
func envKey(s string) string {
	key := strings.ToLower(s)
	for _, section := range []string{"server_", "database_", "redis_", "log_", "jwt_", "email_", "asset_", "content_", "telemetry_"} {
		if strings.HasPrefix(key, section) {
			return strings.TrimSuffix(section, "_") + "." + key[len(section):]
		}
	}
	return ""
}

// normalize 补齐默认值；时长字段按 time.ParseDuration 格式书写（15s、5m）
func normalize(conf *AppConfig) {
	if conf.Server.Port == 0 {
		conf.Server.Port = 8080
	}
	if conf.Server.ShutdownTimeout == 0 {
		conf.Server.ShutdownTimeout = 10 * time.Second
	}
	if conf.Database.Driver == "" {
		conf.Database.Driver = "postgres"
	}
	if conf.Redis.PageTTL == 0 {
		conf.Redis.PageTTL = 5 * time.Minute
	}
	if conf.Asset.Dir == "" {
		conf.Asset.Dir = "uploads"
	}
	if conf.Asset.MaxSize == 0 {
		conf.Asset.MaxSize = 10 << 20
	}
	if len(conf.Asset.AllowedTypes) == 0 {
		conf.Asset.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if conf.Content.Dir == "" {
		conf.Content.Dir = "content/guides"
	}
	if conf.Telemetry.ServiceName == "" {
		conf.Telemetry.ServiceName = "seichi-cms"
	}
	conf.Log.Service = conf.Telemetry.ServiceName
}
