package middleware

import (
	"net/http"
	"time"

	"seichi/cms/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger 为每个请求生成 request id，把带 request id 的 logger 放进请求 context，
// 请求结束后按状态码分级记录
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		reqLog := log.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))

		c.Next()

		statusCode := c.Writer.Status()
		event := reqLog.Info()
		if statusCode >= 400 {
			event = reqLog.Warn()
		}
		if statusCode >= 500 {
			event = reqLog.Error()
		}

		if s := GetSession(c); s != nil {
			event = event.Uint("user_id", s.UserID)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// Recovery 捕获 panic，返回统一的 500 响应
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("path", c.Request.URL.Path).
					Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					response.ErrorResponse(response.Internal, "internal server error"))
			}
		}()
		c.Next()
	}
}
