package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seichi/cms/packages/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		s := GetSession(c)
		if s == nil {
			c.JSON(http.StatusOK, gin.H{"user_id": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": s.UserID, "role": s.Role})
	})
	r.GET("/", handlers...)
	return r
}

func token(t *testing.T, s session.Session) string {
	t.Helper()
	tok, err := session.IssueToken(s, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestJWTAuth(t *testing.T) {
	r := newRouter(JWTAuth(testSecret))

	tests := []struct {
		name       string
		setup      func(req *http.Request)
		wantStatus int
	}{
		{"no token", func(req *http.Request) {}, http.StatusUnauthorized},
		{"bad scheme", func(req *http.Request) { req.Header.Set("Authorization", "Basic abc") }, http.StatusUnauthorized},
		{"bad signature", func(req *http.Request) {
			tok, _ := session.IssueToken(session.Session{UserID: 1}, "other", time.Hour)
			req.Header.Set("Authorization", "Bearer "+tok)
		}, http.StatusUnauthorized},
		{"bearer ok", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token(t, session.Session{UserID: 7}))
		}, http.StatusOK},
		{"cookie ok", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "access_token", Value: token(t, session.Session{UserID: 7})})
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), `"error"`)
			}
		})
	}
}

func TestOptionalJWTAuth_PassesThrough(t *testing.T) {
	r := newRouter(OptionalJWTAuth(testSecret))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(JWTAuth(testSecret), RequireAdmin())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, session.Session{UserID: 2, Role: "user"}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, session.Session{UserID: 3, Role: session.RoleAdmin}))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	assert.Contains(t, buf.String(), "Panic recovered")
	assert.Contains(t, buf.String(), `"status":500`)
}
