package cache

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Cached 缓存公开 GET 接口的 200 响应；带会话的请求不走缓存
// Redis 不可用时直接回源；回源期间该路径被失效则不写入
func Cached(pc *PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pc == nil || c.Request.Method != http.MethodGet || hasCredentials(c) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := Key(c.Request.URL.Path, c.Request.URL.RawQuery)
		if body, ok, err := pc.Get(ctx, key); err == nil && ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		} else if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("读取页面缓存失败")
		}

		gen, genErr := pc.Generation(ctx, c.Request.URL.Path)
		if genErr != nil {
			zerolog.Ctx(ctx).Warn().Err(genErr).Str("key", key).Msg("读取缓存代数失败")
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header("X-Cache", "MISS")
		c.Next()

		if genErr != nil || rec.Status() != http.StatusOK || rec.buf.Len() == 0 {
			return
		}
		if _, err := pc.SetIfCurrent(ctx, c.Request.URL.Path, gen, key, rec.buf.Bytes()); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("写入页面缓存失败")
		}
	}
}

func hasCredentials(c *gin.Context) bool {
	if c.GetHeader("Authorization") != "" {
		return true
	}
	_, err := c.Cookie("access_token")
	return err == nil
}
