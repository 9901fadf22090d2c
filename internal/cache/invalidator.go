package cache

import (
	"context"
	"errors"
	"strconv"

	"seichi/cms/internal/background"
)

// Invalidator 缓存失效原语
type Invalidator interface {
	InvalidatePath(ctx context.Context, path string) error
}

// NopInvalidator 未启用 Redis 时使用
type NopInvalidator struct{}

func (NopInvalidator) InvalidatePath(context.Context, string) error { return nil }

// 公开页面路径
const ArticleListPath = "/api/articles"

func ArticlePath(id uint) string {
	return ArticleListPath + "/" + strconv.FormatUint(uint64(id), 10)
}

func ArticleSlugPath(slug string) string {
	return ArticleListPath + "/slug/" + slug
}

// Refresher 尽力而为的缓存失效：异步执行，错误只记日志，从不返回给调用方
type Refresher struct {
	inv    Invalidator
	runner *background.Runner
}

func NewRefresher(inv Invalidator, runner *background.Runner) *Refresher {
	if inv == nil {
		inv = NopInvalidator{}
	}
	return &Refresher{inv: inv, runner: runner}
}

// Refresh 提交失效任务后立即返回
func (r *Refresher) Refresh(paths ...string) {
	if r == nil || len(paths) == 0 {
		return
	}
	r.runner.Go("cache.invalidate", func(ctx context.Context) error {
		var errs []error
		for _, p := range paths {
			if err := r.inv.InvalidatePath(ctx, p); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
