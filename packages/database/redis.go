package database

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig Redis 配置
type RedisConfig struct {
	ServiceName  string
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	// 建连与单条命令的超时；页面缓存宁可回源也不要长时间阻塞请求
	DialTimeout time.Duration
	IOTimeout   time.Duration
}

// RedisClient Redis 客户端封装
type RedisClient struct {
	*redis.Client
}

// Healthy 供健康检查使用
func (c *RedisClient) Healthy(ctx context.Context) bool {
	return c != nil && c.Ping(ctx).Err() == nil
}

// InitRedis 建立连接并 Ping 一次，失败时关闭客户端
func InitRedis(config *RedisConfig, log zerolog.Logger) (*RedisClient, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	opts := config.options()
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout+opts.ReadTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}

	log.Info().
		Str("service", config.ServiceName).
		Str("addr", opts.Addr).
		Int("db", opts.DB).
		Msg("Redis 连接成功")
	return &RedisClient{Client: client}, nil
}

func (c RedisConfig) options() *redis.Options {
	host, port := c.Host, c.Port
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 6379
	}
	opts := &redis.Options{
		Addr:            net.JoinHostPort(host, strconv.Itoa(port)),
		Password:        c.Password,
		DB:              c.DB,
		PoolSize:        c.PoolSize,
		MinIdleConns:    c.MinIdleConns,
		DialTimeout:     c.DialTimeout,
		ReadTimeout:     c.IOTimeout,
		WriteTimeout:    c.IOTimeout,
		ConnMaxLifetime: time.Hour,
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = 10
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 2 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 500 * time.Millisecond
		opts.WriteTimeout = 500 * time.Millisecond
	}
	return opts
}
