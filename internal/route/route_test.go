package route

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seichi/cms/config"
	"seichi/cms/internal/asset"
	"seichi/cms/internal/background"
	"seichi/cms/internal/content"
	"seichi/cms/internal/testutils"
	"seichi/cms/packages/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	author string
	admin  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerInMode(t, gin.DebugMode)
}

func newTestServerInMode(t *testing.T, mode string) *testServer {
	t.Helper()
	db := testutils.SetupTestDB(t)

	guides, err := content.NewReader(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	storage, err := asset.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	runner := background.NewRunner(zerolog.Nop(), time.Second)
	t.Cleanup(runner.Wait)

	conf := &config.AppConfig{
		Server: config.ServerConfig{Mode: mode},
		JWT:    config.JWTConfig{Secret: testutils.TestJWTSecret},
		Asset:  config.AssetConfig{MaxSize: 1 << 20, AllowedTypes: []string{"image/png"}},
	}

	router := SetupRouter(Deps{
		Config:  conf,
		DB:      db,
		Runner:  runner,
		Guides:  guides,
		Storage: storage,
		Log:     zerolog.Nop(),
	})

	author := testutils.CreateTestUser(db)
	admin := testutils.CreateTestUser(db, testutils.WithRole(session.RoleAdmin))
	return &testServer{
		router: router,
		author: testutils.IssueTestToken(t, *testutils.SessionOf(author)),
		admin:  testutils.IssueTestToken(t, *testutils.SessionOf(admin)),
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// 作者创建并提交，管理员在待审列表中看到并通过，之后再次提交返回 409
func TestArticleLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/articles", s.author, map[string]string{
		"title": "鷲宮神社",
		"slug":  "washinomiya",
		"body":  "久喜駅から東武伊勢崎線で一駅。\n",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}](t, w)
	assert.Equal(t, "draft", created.Status)

	// 草稿对匿名用户不可见
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/articles/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/articles/%d/submit", created.ID), s.author, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "pending", decode[map[string]string](t, w)["status"])

	w = s.do(t, http.MethodGet, "/api/admin/review/articles", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	items := decode[[]struct {
		Type string `json:"type"`
		ID   uint   `json:"id"`
	}](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "article", items[0].Type)

	// 非管理员不能访问审核接口
	w = s.do(t, http.MethodGet, "/api/admin/review/articles", s.author, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/admin/review/articles/%d/approve", created.ID), s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "published", decode[map[string]string](t, w)["status"])

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/articles/%d/submit", created.ID), s.author, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/articles/slug/washinomiya", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, created.ID, decode[struct {
		ID uint `json:"id"`
	}](t, w).ID)
}

func TestReviewPatch_InvalidDecision(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPatch, "/api/admin/review/articles/1", s.admin, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavorites(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/favorites", "", map[string]any{"source": "db", "articleId": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 取消从未收藏过的文章也返回 ok
	w = s.do(t, http.MethodDelete, "/api/favorites/12345", s.author, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode[map[string]bool](t, w)["ok"])

	w = s.do(t, http.MethodDelete, "/api/favorites/mdx/washinomiya", s.author, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/favorites", s.author, map[string]any{"source": "mdx", "slug": "nowhere"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/favorites", s.author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSwagger(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want int
	}{
		{"debug 模式开放文档", gin.DebugMode, http.StatusOK},
		{"release 模式不注册", gin.ReleaseMode, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServerInMode(t, tt.mode)

			w := s.do(t, http.MethodGet, "/swagger/index.html", "", nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
