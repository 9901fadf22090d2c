// Package cache 公开页面的 Redis 缓存与失效
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "page:"
	genPrefix = "page-gen:"
)

// setIfCurrent 仅当路径的失效代数未变化时写入缓存
var setIfCurrent = redis.NewScript(`
local gen = redis.call("GET", KEYS[1]) or "0"
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[2], ARGV[2])
end
return 1
`)

// PageCache 以请求路径（含查询串）为键缓存公开接口的 JSON 响应
type PageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPageCache(rdb *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{rdb: rdb, ttl: ttl}
}

// Key 由路径和原始查询串组成缓存键
func Key(path, rawQuery string) string {
	if rawQuery == "" {
		return keyPrefix + path
	}
	return keyPrefix + path + "?" + rawQuery
}

// Get 命中返回 (body, true, nil)
func (p *PageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := p.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (p *PageCache) Set(ctx context.Context, key string, body []byte) error {
	return p.rdb.Set(ctx, key, body, p.ttl).Err()
}

// Generation 返回路径当前的失效代数，从未失效过为 0
func (p *PageCache) Generation(ctx context.Context, path string) (int64, error) {
	gen, err := p.rdb.Get(ctx, genPrefix+path).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetIfCurrent 回源前记下代数，回源后只在期间没有失效时写入
// 避免读到旧数据的请求在失效之后把旧响应写回缓存
func (p *PageCache) SetIfCurrent(ctx context.Context, path string, gen int64, key string, body []byte) (bool, error) {
	n, err := setIfCurrent.Run(ctx, p.rdb,
		[]string{genPrefix + path, key},
		strconv.FormatInt(gen, 10), body, p.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// InvalidatePath 删除该路径本身以及带任意查询串的所有缓存
// 先递增代数再删除，进行中的回源请求不会再写回
func (p *PageCache) InvalidatePath(ctx context.Context, path string) error {
	if err := p.rdb.Incr(ctx, genPrefix+path).Err(); err != nil {
		return fmt.Errorf("更新缓存代数失败: %w", err)
	}
	if p.ttl > 0 {
		// 代数只需活得比一次回源久
		p.rdb.Expire(ctx, genPrefix+path, p.ttl+time.Hour)
	}

	keys := []string{Key(path, "")}

	// "?" 在 SCAN 模式里是通配符，需要转义
	iter := p.rdb.Scan(ctx, 0, keyPrefix+path+`\?*`, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("扫描缓存键失败: %w", err)
	}

	if err := p.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}
