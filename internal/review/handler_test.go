package review

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seichi/cms/internal/middleware"
	"seichi/cms/internal/model/article"
	"seichi/cms/internal/testutils"
	"seichi/cms/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveArticle_Body(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		body         string
		chunked      bool
		wantCode     int
		wantFeedback string
	}{
		{name: "无请求体", wantCode: http.StatusOK},
		{name: "带意见", body: `{"feedback":"写得很好"}`, wantCode: http.StatusOK, wantFeedback: "写得很好"},
		{name: "chunked 带意见", body: `{"feedback":"照片很清楚"}`, chunked: true, wantCode: http.StatusOK, wantFeedback: "照片很清楚"},
		{name: "chunked 空请求体", chunked: true, wantCode: http.StatusOK},
		{name: "非法 JSON", body: `{"feedback":`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			author := testutils.CreateTestUser(f.db)
			art := testutils.CreateTestArticle(f.db, author.ID, testutils.WithStatus(workflow.StatusPending))

			r := gin.New()
			SetupReviewRoutes(r.Group("/api"), NewReviewHandler(f.svc), middleware.JWTAuth(testutils.TestJWTSecret))

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/admin/review/articles/%d/approve", art.ID), body)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+testutils.IssueTestToken(t, *f.admin))
			if tt.chunked {
				if body == nil {
					req.Body = io.NopCloser(strings.NewReader(""))
				}
				req.ContentLength = -1
				req.TransferEncoding = []string{"chunked"}
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())

			var stored article.Article
			require.NoError(t, f.db.First(&stored, art.ID).Error)
			if tt.wantCode != http.StatusOK {
				assert.Equal(t, workflow.StatusPending, stored.Status)
				return
			}
			assert.Equal(t, workflow.StatusPublished, stored.Status)
			assert.Equal(t, tt.wantFeedback, stored.Feedback)
		})
	}
}
