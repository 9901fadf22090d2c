package asset

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetHandler_GetContentDisposition(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		fileName string
	}{
		{"普通文件名", "scene.png"},
		{"含引号", `say "hi".png`},
		{"含分号", "a; filename=evil.png"},
		{"日文文件名", "鷲宮神社.png"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupAssets(t, 1024)
			a, err := f.svc.Upload(context.Background(), f.sess, UploadInput{
				PostID:   f.postID,
				FileName: tt.fileName,
				Content:  bytes.NewReader(pngWith(fmt.Sprintf("scene-%d", i))),
			})
			require.NoError(t, err)

			r := gin.New()
			SetupAssetRoutes(r.Group("/api"), NewAssetHandler(f.svc), func(c *gin.Context) { c.Next() })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/assets/%d", a.ID), nil))
			require.Equal(t, http.StatusOK, w.Code)

			disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, "inline", disposition)
			assert.Equal(t, tt.fileName, params["filename"])
		})
	}
}
