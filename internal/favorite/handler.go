package favorite

import (
	articlepkg "seichi/cms/internal/article"
	"seichi/cms/internal/dto"
	"seichi/cms/internal/middleware"
	"seichi/cms/packages/response"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteService *FavoriteService
}

func NewFavoriteHandler(favoriteService *FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// ListFavorites 我的收藏
// @Summary 当前用户的收藏（文章与攻略）
// @Tags Favorite
// @Produce json
// @Success 200 {array} dto.FavoriteResponse
// @Failure 401 {object} response.ErrorBody
// @Router /favorites [get]
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	items, err := h.favoriteService.List(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, items)
}

// AddFavorite 添加收藏
// @Summary 添加收藏，重复添加返回已有记录
// @Tags Favorite
// @Accept json
// @Produce json
// @Param request body dto.AddFavoriteRequest true "收藏目标"
// @Success 200 {object} dto.FavoriteResponse
// @Failure 404 {object} response.ErrorBody
// @Router /favorites [post]
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var req dto.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	target, err := ParseTarget(req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	fav, err := h.favoriteService.Add(c.Request.Context(), middleware.GetSession(c), target)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, fav)
}

// RemoveArticleFavorite 取消收藏文章
// @Summary 取消收藏数据库文章
// @Tags Favorite
// @Produce json
// @Param articleId path int true "文章ID"
// @Success 200 {object} response.OK
// @Router /favorites/{articleId} [delete]
func (h *FavoriteHandler) RemoveArticleFavorite(c *gin.Context) {
	articleID, ok := articlepkg.ParseID(c, "articleId")
	if !ok {
		return
	}
	h.remove(c, DBTarget{ArticleID: articleID})
}

// RemoveGuideFavorite 取消收藏攻略
// @Summary 取消收藏文件型攻略
// @Tags Favorite
// @Produce json
// @Param slug path string true "攻略 slug"
// @Success 200 {object} response.OK
// @Router /favorites/mdx/{slug} [delete]
func (h *FavoriteHandler) RemoveGuideFavorite(c *gin.Context) {
	h.remove(c, MDXTarget{Slug: c.Param("slug")})
}

func (h *FavoriteHandler) remove(c *gin.Context, target Target) {
	if err := h.favoriteService.Remove(c.Request.Context(), middleware.GetSession(c), target); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, response.OK{OK: true})
}
