package middleware

import (
	"errors"
	"strings"

	"seichi/cms/internal/dto"
	"seichi/cms/internal/permission"
	"seichi/cms/packages/response"
	"seichi/cms/packages/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// extractToken 优先从 cookie 中获取 access_token，其次是 Authorization: Bearer
func extractToken(c *gin.Context) (string, error) {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", session.ErrNoToken
	}
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && token != "" {
		return token, nil
	}
	return "", errors.New("认证格式错误")
}

func parseSession(c *gin.Context, secret string) (*session.Session, error) {
	token, err := extractToken(c)
	if err != nil {
		return nil, err
	}
	return session.ParseToken(token, secret)
}

func setSession(c *gin.Context, s *session.Session) {
	c.Set(sessionKey, s)
	c.Set("user_id", s.UserID)
	c.Set("username", s.Username)
	c.Set("email", s.Email)
	c.Set("user_role", s.Role)
}

// JWTAuth JWT 认证中间件（必需认证）
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := parseSession(c, secret)
		if err != nil {
			msg := "无效的认证令牌"
			switch {
			case errors.Is(err, session.ErrNoToken):
				msg = "未提供认证令牌"
			case errors.Is(err, session.ErrExpiredToken):
				msg = "认证令牌已过期"
			}
			dto.ErrorResponse(c, response.New(response.Unauthorized, msg))
			c.Abort()
			return
		}

		setSession(c, s)
		c.Next()
	}
}

// OptionalJWTAuth 可选的 JWT 认证中间件（不强制要求认证，但如果有token则解析）
func OptionalJWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, err := parseSession(c, secret); err == nil {
			setSession(c, s)
		}
		c.Next()
	}
}

// RequireAdmin 需挂在 JWTAuth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := permission.RequireAdmin(GetSession(c)); err != nil {
			dto.HandleError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession 取出当前请求的会话，未登录返回 nil
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}
