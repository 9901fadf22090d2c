package article

import (
	"github.com/gin-gonic/gin"
)

// SetupArticleRoutes 设置文章相关路由
func SetupArticleRoutes(r *gin.RouterGroup, h *ArticleHandler, auth, optionalAuth, cached gin.HandlerFunc) {
	// 公开路由，走页面缓存
	public := r.Group("/articles")
	public.Use(cached)
	{
		public.GET("", h.ListArticles)                // 已发布文章列表
		public.GET("/slug/:slug", h.GetArticleBySlug) // 按 slug 获取
	}

	// 可选认证：作者和管理员可以看到未发布文章
	articlesOptional := r.Group("/articles")
	articlesOptional.Use(optionalAuth, cached)
	{
		articlesOptional.GET("/:id", h.GetArticle)
	}

	// 需要认证
	articlesAuth := r.Group("/articles")
	articlesAuth.Use(auth)
	{
		articlesAuth.POST("", h.CreateArticle)            // 创建草稿
		articlesAuth.PUT("/:id", h.UpdateArticle)         // 修改草稿
		articlesAuth.DELETE("/:id", h.DeleteArticle)      // 删除
		articlesAuth.POST("/:id/submit", h.SubmitArticle) // 提交审核
	}

	me := r.Group("/me")
	me.Use(auth)
	{
		me.GET("/articles", h.ListMyArticles)
	}
}
