package article

import (
	"strconv"

	"seichi/cms/internal/dto"
	"seichi/cms/internal/middleware"
	"seichi/cms/packages/response"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService *ArticleService
}

func NewArticleHandler(articleService *ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// ParseID 解析路径中的数字 ID
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		dto.ErrorResponse(c, response.New(response.ParseError, "无效的ID"))
		return 0, false
	}
	return uint(id), true
}

// ListArticles 公开文章列表
// @Summary 获取已发布文章列表（分页）
// @Tags Article
// @Produce json
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} dto.PageResult[article.Article]
// @Router /articles [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	page, pageSize := dto.Pagination(c)

	result, err := h.articleService.ListPublished(c.Request.Context(), page, pageSize)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// GetArticle 获取文章详情
// @Summary 获取文章详情，未发布文章仅作者和管理员可见
// @Tags Article
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} article.Article
// @Failure 404 {object} response.ErrorBody
// @Router /articles/{id} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}

	art, err := h.articleService.GetArticle(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, art)
}

// GetArticleBySlug 按 slug 获取已发布文章
// @Summary 按 slug 获取已发布文章
// @Tags Article
// @Produce json
// @Param slug path string true "slug"
// @Success 200 {object} article.Article
// @Router /articles/slug/{slug} [get]
func (h *ArticleHandler) GetArticleBySlug(c *gin.Context) {
	art, err := h.articleService.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, art)
}

// CreateArticle 创建文章
// @Summary 创建文章草稿
// @Tags Article
// @Accept json
// @Produce json
// @Param request body dto.CreateArticleRequest true "创建文章请求"
// @Success 200 {object} article.Article
// @Router /articles [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req dto.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	art, err := h.articleService.CreateArticle(c.Request.Context(), middleware.GetSession(c), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, art)
}

// UpdateArticle 修改草稿
// @Summary 修改文章草稿（仅作者，草稿或已驳回状态）
// @Tags Article
// @Accept json
// @Produce json
// @Param id path int true "文章ID"
// @Param request body dto.UpdateArticleRequest true "修改内容"
// @Success 200 {object} article.Article
// @Failure 409 {object} response.ErrorBody
// @Router /articles/{id} [put]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	art, err := h.articleService.UpdateArticle(c.Request.Context(), middleware.GetSession(c), id, req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, art)
}

// SubmitArticle 提交审核
// @Summary 提交文章审核 draft -> pending
// @Tags Article
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} response.StatusBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /articles/{id}/submit [post]
func (h *ArticleHandler) SubmitArticle(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}

	status, err := h.articleService.SubmitArticle(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, response.StatusResponse(string(status)))
}

// DeleteArticle 删除文章
// @Summary 删除文章
// @Tags Article
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} response.OK
// @Router /articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(c.Request.Context(), middleware.GetSession(c), id); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, response.OK{OK: true})
}

// ListMyArticles 我的文章
// @Summary 当前用户的全部文章
// @Tags Article
// @Produce json
// @Success 200 {array} article.Article
// @Router /me/articles [get]
func (h *ArticleHandler) ListMyArticles(c *gin.Context) {
	articles, err := h.articleService.ListMine(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, articles)
}
