package content

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"seichi/cms/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ReloadRefreshesRemovedGuides(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	writeGuide(t, dir, "washinomiya.mdx", "---\ntitle: 鷲宮神社\n---\nA")

	reader, err := NewReader(dir, zerolog.Nop())
	require.NoError(t, err)

	inv := &testutils.RecordingInvalidator{}
	refresher, runner := testutils.NewTestRefresher(inv)

	noop := func(c *gin.Context) { c.Next() }
	r := gin.New()
	SetupGuideRoutes(r.Group("/api"), NewHandler(reader, refresher), noop, noop)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/guides/washinomiya", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, os.Remove(filepath.Join(dir, "washinomiya.mdx")))
	writeGuide(t, dir, "oarai.mdx", "---\ntitle: 大洗\n---\nC")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/guides/reload", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/guides/washinomiya", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	runner.Wait()
	assert.ElementsMatch(t,
		[]string{GuideListPath, GuideListPath + "/washinomiya", GuideListPath + "/oarai"},
		inv.Paths())
}
