package asset

import (
	"github.com/gin-gonic/gin"
)

// SetupAssetRoutes 上传需要登录，读取公开
func SetupAssetRoutes(r *gin.RouterGroup, h *AssetHandler, auth gin.HandlerFunc) {
	assets := r.Group("/assets")
	{
		assets.GET("/:id", h.Get)
		assets.POST("", auth, h.Upload)
	}

	r.GET("/articles/:id/assets", h.ListByPost)
}
