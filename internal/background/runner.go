// Package background 请求之外的尽力而为任务（缓存刷新、通知邮件）
package background

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Runner 以独立 context 执行后台任务，失败只记日志，不影响主流程
type Runner struct {
	log     zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(log zerolog.Logger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Runner{log: log, timeout: timeout}
}

// Go 异步执行 fn；任务与请求的生命周期脱钩，只受 Runner 的超时约束
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.log.Error().Str("task", name).Interface("panic", p).Msg("后台任务 panic")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			r.log.Warn().Err(err).Str("task", name).Dur("duration", time.Since(start)).Msg("后台任务失败")
			return
		}
		r.log.Debug().Str("task", name).Dur("duration", time.Since(start)).Msg("后台任务完成")
	}()
}

// Wait 等待所有已提交任务结束，用于优雅退出
func (r *Runner) Wait() {
	r.wg.Wait()
}

// WaitContext 与 Wait 相同，但在 ctx 结束时放弃等待
func (r *Runner) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
