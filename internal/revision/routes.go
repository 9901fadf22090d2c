package revision

import (
	"github.com/gin-gonic/gin"
)

// SetupRevisionRoutes 设置修正案相关路由，全部需要认证
func SetupRevisionRoutes(r *gin.RouterGroup, h *RevisionHandler, auth gin.HandlerFunc) {
	articles := r.Group("/articles")
	articles.Use(auth)
	{
		articles.GET("/:id/revisions", h.ListArticleRevisions)
		articles.POST("/:id/revisions", h.CreateRevision)
	}

	revisions := r.Group("/revisions")
	revisions.Use(auth)
	{
		revisions.GET("/:id", h.GetRevision)
		revisions.PUT("/:id", h.UpdateRevision)
		revisions.POST("/:id/submit", h.SubmitRevision)
		revisions.POST("/:id/withdraw", h.WithdrawRevision)
	}

	me := r.Group("/me")
	me.Use(auth)
	{
		me.GET("/revisions", h.ListMyRevisions)
	}
}
