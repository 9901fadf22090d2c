package favorite

import (
	"github.com/gin-gonic/gin"
)

func SetupFavoriteRoutes(r *gin.RouterGroup, h *FavoriteHandler, auth gin.HandlerFunc) {
	favorites := r.Group("/favorites")
	favorites.Use(auth)
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("", h.AddFavorite)
		favorites.DELETE("/:articleId", h.RemoveArticleFavorite)
		favorites.DELETE("/mdx/:slug", h.RemoveGuideFavorite)
	}
}
