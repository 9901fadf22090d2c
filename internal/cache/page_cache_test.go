package cache_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seichi/cms/internal/cache"
	"seichi/cms/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPageCache(t *testing.T) *cache.PageCache {
	t.Helper()
	rdb := testutils.SetupTestRedis(t)
	if rdb == nil {
		t.Skip("Redis 不可用，跳过")
	}
	return cache.NewPageCache(rdb.Client, time.Minute)
}

func TestPageCache_InvalidatePath(t *testing.T) {
	pc := setupPageCache(t)
	ctx := context.Background()

	require.NoError(t, pc.Set(ctx, cache.Key("/api/articles", ""), []byte(`[1]`)))
	require.NoError(t, pc.Set(ctx, cache.Key("/api/articles", "page=2"), []byte(`[2]`)))
	require.NoError(t, pc.Set(ctx, cache.Key("/api/articles/1", ""), []byte(`{}`)))

	require.NoError(t, pc.InvalidatePath(ctx, "/api/articles"))

	_, ok, err := pc.Get(ctx, cache.Key("/api/articles", ""))
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = pc.Get(ctx, cache.Key("/api/articles", "page=2"))
	require.NoError(t, err)
	assert.False(t, ok)

	// 其他路径不受影响
	body, ok, err := pc.Get(ctx, cache.Key("/api/articles/1", ""))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{}`, string(body))
}

func TestCached_HitAfterMiss(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pc := setupPageCache(t)

	calls := 0
	r := gin.New()
	r.GET("/api/articles", cache.Cached(pc), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	get := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := get("")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get("")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	// 带会话的请求不读缓存
	get("Bearer x")
	assert.Equal(t, 2, calls)
}

// 回源过程中文章被审核通过并失效，旧响应不能写回缓存
func TestCached_InvalidatedDuringRequestNotStored(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pc := setupPageCache(t)

	calls := 0
	r := gin.New()
	r.GET("/api/articles", cache.Cached(pc), func(c *gin.Context) {
		calls++
		if calls == 1 {
			require.NoError(t, pc.InvalidatePath(c.Request.Context(), "/api/articles"))
		}
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
		return w
	}

	assert.Equal(t, "MISS", get().Header().Get("X-Cache"))
	_, ok, err := pc.Get(context.Background(), cache.Key("/api/articles", ""))
	require.NoError(t, err)
	assert.False(t, ok)

	// 代数稳定后的回源正常写入
	assert.Equal(t, "MISS", get().Header().Get("X-Cache"))
	third := get()
	assert.Equal(t, "HIT", third.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":2}`, third.Body.String())
}

func TestPageCache_SetIfCurrent(t *testing.T) {
	pc := setupPageCache(t)
	ctx := context.Background()
	key := cache.Key("/api/articles/1", "")

	gen, err := pc.Generation(ctx, "/api/articles/1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, pc.InvalidatePath(ctx, "/api/articles/1"))
	stored, err := pc.SetIfCurrent(ctx, "/api/articles/1", gen, key, []byte(`{"old":true}`))
	require.NoError(t, err)
	assert.False(t, stored)

	gen, err = pc.Generation(ctx, "/api/articles/1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	stored, err = pc.SetIfCurrent(ctx, "/api/articles/1", gen, key, []byte(`{"new":true}`))
	require.NoError(t, err)
	assert.True(t, stored)

	body, ok, err := pc.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"new":true}`, string(body))
}

func TestCached_NilPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", cache.Cached(nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))
}
