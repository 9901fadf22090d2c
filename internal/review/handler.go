package review

import (
	"context"
	"errors"
	"io"

	articlepkg "seichi/cms/internal/article"
	"seichi/cms/internal/dto"
	"seichi/cms/internal/middleware"
	"seichi/cms/internal/workflow"
	"seichi/cms/packages/response"
	"seichi/cms/packages/session"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *ReviewService
}

func NewReviewHandler(reviewService *ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type resolveFunc func(ctx context.Context, sess *session.Session, id uint, action workflow.Action, feedback string) (workflow.Status, error)

// ListPending 待审列表
// @Summary 审核队列（管理员）
// @Tags Review
// @Produce json
// @Param type query string false "article / revision，缺省为全部"
// @Param status query string false "状态过滤" default(pending)
// @Success 200 {array} dto.ReviewItem
// @Failure 403 {object} response.ErrorBody
// @Router /admin/review/articles [get]
func (h *ReviewHandler) ListPending(c *gin.Context) {
	h.list(c, ListFilter{
		Type:   c.Query("type"),
		Status: workflow.Status(c.Query("status")),
	})
}

// ListPendingRevisions 待审修正案
// @Summary 修正案审核队列（管理员）
// @Tags Review
// @Produce json
// @Param status query string false "状态过滤" default(pending)
// @Success 200 {array} dto.ReviewItem
// @Router /admin/review/revisions [get]
func (h *ReviewHandler) ListPendingRevisions(c *gin.Context) {
	h.list(c, ListFilter{
		Type:   KindRevision,
		Status: workflow.Status(c.Query("status")),
	})
}

func (h *ReviewHandler) list(c *gin.Context, filter ListFilter) {
	items, err := h.reviewService.ListPending(c.Request.Context(), middleware.GetSession(c), filter)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, items)
}

// ApproveArticle 通过文章
// @Summary 通过文章审核 pending -> published
// @Tags Review
// @Accept json
// @Produce json
// @Param id path int true "文章ID"
// @Param request body dto.ReviewApproveRequest false "审核意见"
// @Success 200 {object} response.StatusBody
// @Failure 409 {object} response.ErrorBody
// @Router /admin/review/articles/{id}/approve [post]
func (h *ReviewHandler) ApproveArticle(c *gin.Context) {
	h.approve(c, h.reviewService.ResolveArticle)
}

// ApproveRevision 通过修正案
// @Summary 通过修正案并合并进文章正文
// @Tags Review
// @Accept json
// @Produce json
// @Param id path int true "修正案ID"
// @Param request body dto.ReviewApproveRequest false "审核意见"
// @Success 200 {object} response.StatusBody
// @Failure 409 {object} response.ErrorBody
// @Router /admin/review/revisions/{id}/approve [post]
func (h *ReviewHandler) ApproveRevision(c *gin.Context) {
	h.approve(c, h.reviewService.ResolveRevision)
}

// PatchArticle 审核文章
// @Summary 修改文章审核状态：驳回 / 退回修改 / 通过
// @Tags Review
// @Accept json
// @Produce json
// @Param id path int true "文章ID"
// @Param request body dto.ReviewPatchRequest true "审核操作"
// @Success 200 {object} response.StatusBody
// @Failure 409 {object} response.ErrorBody
// @Router /admin/review/articles/{id} [patch]
func (h *ReviewHandler) PatchArticle(c *gin.Context) {
	h.patch(c, h.reviewService.ResolveArticle)
}

// PatchRevision 审核修正案
// @Summary 修改修正案审核状态：驳回 / 退回修改 / 通过
// @Tags Review
// @Accept json
// @Produce json
// @Param id path int true "修正案ID"
// @Param request body dto.ReviewPatchRequest true "审核操作"
// @Success 200 {object} response.StatusBody
// @Router /admin/review/revisions/{id} [patch]
func (h *ReviewHandler) PatchRevision(c *gin.Context) {
	h.patch(c, h.reviewService.ResolveRevision)
}

func (h *ReviewHandler) approve(c *gin.Context, resolve resolveFunc) {
	id, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	// 请求体可选；chunked 请求没有 ContentLength，只能读了才知道是否为空
	var req dto.ReviewApproveRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			dto.ValidationErrorResponse(c, err)
			return
		}
	}

	h.resolve(c, resolve, id, workflow.ActionApprove, req.Feedback)
}

func (h *ReviewHandler) patch(c *gin.Context, resolve resolveFunc) {
	id, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	decision := req.Action
	if decision == "" {
		decision = req.Status
	}
	action, ok := workflow.ParseDecision(decision)
	if !ok {
		dto.ErrorResponse(c, response.New(response.InvalidParameter, "无效的审核操作: "+decision))
		return
	}

	h.resolve(c, resolve, id, action, req.Feedback)
}

func (h *ReviewHandler) resolve(c *gin.Context, resolve resolveFunc, id uint, action workflow.Action, feedback string) {
	status, err := resolve(c.Request.Context(), middleware.GetSession(c), id, action, feedback)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, response.StatusResponse(string(status)))
}

// GetRevisionDetail 修正案详情
// @Summary 修正案详情及差异预览（管理员）
// @Tags Review
// @Produce json
// @Param id path int true "修正案ID"
// @Success 200 {object} RevisionDetail
// @Router /admin/review/revisions/{id} [get]
func (h *ReviewHandler) GetRevisionDetail(c *gin.Context) {
	id, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.reviewService.GetRevisionDetail(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, detail)
}
