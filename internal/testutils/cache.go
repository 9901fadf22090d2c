package testutils

import (
	"context"
	"sync"
	"time"

	"seichi/cms/internal/background"
	"seichi/cms/internal/cache"

	"github.com/rs/zerolog"
)

// RecordingInvalidator 记录失效路径，Err 非空时每次都返回该错误
type RecordingInvalidator struct {
	Err error

	mu    sync.Mutex
	paths []string
}

func (r *RecordingInvalidator) InvalidatePath(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.Err
}

// Paths 已记录的路径副本
func (r *RecordingInvalidator) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// NewTestRefresher 返回 Refresher 及其 Runner，断言前先调用 runner.Wait()
func NewTestRefresher(inv cache.Invalidator) (*cache.Refresher, *background.Runner) {
	runner := background.NewRunner(zerolog.Nop(), time.Second)
	return cache.NewRefresher(inv, runner), runner
}
