package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"seichi/cms/internal/background"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (r *recordingInvalidator) InvalidatePath(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.err
}

func TestRefresher_InvalidatesAllPaths(t *testing.T) {
	inv := &recordingInvalidator{}
	runner := background.NewRunner(zerolog.Nop(), time.Second)
	r := NewRefresher(inv, runner)

	r.Refresh(ArticleListPath, ArticlePath(7), ArticleSlugPath("washinomiya"))
	runner.Wait()

	assert.Equal(t, []string{"/api/articles", "/api/articles/7", "/api/articles/slug/washinomiya"}, inv.paths)
}

func TestRefresher_SwallowsErrors(t *testing.T) {
	inv := &recordingInvalidator{err: errors.New("redis: connection refused")}
	runner := background.NewRunner(zerolog.Nop(), time.Second)
	r := NewRefresher(inv, runner)

	assert.NotPanics(t, func() { r.Refresh(ArticleListPath) })
	runner.Wait()
	assert.Len(t, inv.paths, 1)
}

func TestRefresher_NilSafe(t *testing.T) {
	var r *Refresher
	assert.NotPanics(t, func() { r.Refresh(ArticleListPath) })

	runner := background.NewRunner(zerolog.Nop(), time.Second)
	assert.NotPanics(t, func() { NewRefresher(nil, runner).Refresh(ArticleListPath) })
	runner.Wait()
}

func TestKey(t *testing.T) {
	assert.Equal(t, "page:/api/articles", Key("/api/articles", ""))
	assert.Equal(t, "page:/api/articles?page=2", Key("/api/articles", "page=2"))
}
