package revision

import (
	articlepkg "seichi/cms/internal/article"
	"seichi/cms/internal/dto"
	"seichi/cms/internal/middleware"
	"seichi/cms/packages/response"

	"github.com/gin-gonic/gin"
)

type RevisionHandler struct {
	revisionService *RevisionService
}

func NewRevisionHandler(revisionService *RevisionService) *RevisionHandler {
	return &RevisionHandler{revisionService: revisionService}
}

// CreateRevision 创建修正案
// @Summary 针对已发布文章创建修正案草稿
// @Tags Revision
// @Accept json
// @Produce json
// @Param id path int true "文章ID"
// @Param request body dto.CreateRevisionRequest true "修正内容"
// @Success 200 {object} article.Revision
// @Failure 409 {object} response.ErrorBody
// @Router /articles/{id}/revisions [post]
func (h *RevisionHandler) CreateRevision(c *gin.Context) {
	articleID, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	rev, err := h.revisionService.CreateRevision(c.Request.Context(), middleware.GetSession(c), articleID, req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, rev)
}

// GetRevision 修正案详情
// @Summary 修正案详情（作者或管理员）
// @Tags Revision
// @Produce json
// @Param id path int true "修正案ID"
// @Success 200 {object} article.Revision
// @Router /revisions/{id} [get]
func (h *RevisionHandler) GetRevision(c *gin.Context) {
	id, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	rev, err := h.revisionService.GetRevision(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, rev)
}

// UpdateRevision 修改修正案草稿
// @Summary 修改修正案草稿（仅作者）
// @Tags Revision
// @Accept json
// @Produce json
// @Param id path int true "修正案ID"
// @Param request body dto.UpdateRevisionRequest true "修改内容"
// @Success 200 {object} article.Revision
// @Router /revisions/{id} [put]
func (h *RevisionHandler) UpdateRevision(c *gin.Context) {
	id, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	rev, err := h.revisionService.UpdateRevision(c.Request.Context(), middleware.GetSession(c), id, req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, rev)
}

// SubmitRevision 提交修正案
// @Summary 提交修正案审核 draft -> pending
// @Tags Revision
// @Produce json
// @Param id path int true "修正案ID"
// @Success 200 {object} response.StatusBody
// @Failure 403 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /revisions/{id}/submit [post]
func (h *RevisionHandler) SubmitRevision(c *gin.Context) {
	id, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	status, err := h.revisionService.SubmitRevision(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, response.StatusResponse(string(status)))
}

// WithdrawRevision 撤回修正案
// @Summary 撤回待审修正案 pending -> withdrawn
// @Tags Revision
// @Produce json
// @Param id path int true "修正案ID"
// @Success 200 {object} response.StatusBody
// @Failure 409 {object} response.ErrorBody
// @Router /revisions/{id}/withdraw [post]
func (h *RevisionHandler) WithdrawRevision(c *gin.Context) {
	id, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	status, err := h.revisionService.WithdrawRevision(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, response.StatusResponse(string(status)))
}

// ListMyRevisions 我的修正案
// @Summary 当前用户的全部修正案
// @Tags Revision
// @Produce json
// @Success 200 {array} article.Revision
// @Router /me/revisions [get]
func (h *RevisionHandler) ListMyRevisions(c *gin.Context) {
	revisions, err := h.revisionService.ListMine(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, revisions)
}

// ListArticleRevisions 文章的修正历史
// @Summary 文章的修正案列表（管理员看到全部，其他用户只看到自己的）
// @Tags Revision
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {array} article.Revision
// @Failure 404 {object} response.ErrorBody
// @Router /articles/{id}/revisions [get]
func (h *RevisionHandler) ListArticleRevisions(c *gin.Context) {
	articleID, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	revisions, err := h.revisionService.ListByArticle(c.Request.Context(), middleware.GetSession(c), articleID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, revisions)
}
