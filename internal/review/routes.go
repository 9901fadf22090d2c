package review

import (
	"seichi/cms/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupReviewRoutes 设置审核路由，全部需要管理员
func SetupReviewRoutes(r *gin.RouterGroup, h *ReviewHandler, auth gin.HandlerFunc) {
	admin := r.Group("/admin/review")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.GET("/articles", h.ListPending)
		admin.POST("/articles/:id/approve", h.ApproveArticle)
		admin.PATCH("/articles/:id", h.PatchArticle)

		admin.GET("/revisions", h.ListPendingRevisions)
		admin.GET("/revisions/:id", h.GetRevisionDetail)
		admin.POST("/revisions/:id/approve", h.ApproveRevision)
		admin.PATCH("/revisions/:id", h.PatchRevision)
	}
}
