package content

import (
	"seichi/cms/internal/cache"
	"seichi/cms/internal/dto"
	"seichi/cms/packages/response"

	"github.com/gin-gonic/gin"
)

// GuideListPath 攻略列表的公开路径
const GuideListPath = "/api/guides"

type Handler struct {
	reader    *Reader
	refresher *cache.Refresher
}

func NewHandler(reader *Reader, refresher *cache.Refresher) *Handler {
	return &Handler{reader: reader, refresher: refresher}
}

// ListGuides 攻略列表
// @Summary 获取 MDX 攻略列表
// @Tags Guide
// @Produce json
// @Success 200 {array} content.Guide
// @Router /guides [get]
func (h *Handler) ListGuides(c *gin.Context) {
	dto.SuccessResponse(c, h.reader.List())
}

// GetGuide 攻略详情
// @Summary 获取 MDX 攻略详情
// @Tags Guide
// @Produce json
// @Param slug path string true "攻略 slug"
// @Success 200 {object} content.Guide
// @Router /guides/{slug} [get]
func (h *Handler) GetGuide(c *gin.Context) {
	g, ok := h.reader.Get(c.Param("slug"))
	if !ok {
		dto.ErrorResponse(c, response.New(response.NotFound, "攻略不存在"))
		return
	}
	dto.SuccessResponse(c, g)
}

// ReloadGuides 重新扫描攻略目录
// @Summary 重新加载 MDX 攻略（管理员）
// @Tags Guide
// @Produce json
// @Success 200 {object} response.OK
// @Router /admin/guides/reload [post]
func (h *Handler) ReloadGuides(c *gin.Context) {
	before := h.reader.List()
	if err := h.reader.Reload(); err != nil {
		dto.HandleError(c, err)
		return
	}

	paths := []string{GuideListPath}
	for _, g := range append(before, h.reader.List()...) {
		paths = append(paths, GuideListPath+"/"+g.Slug)
	}
	h.refresher.Refresh(paths...)
	dto.SuccessResponse(c, response.OK{OK: true})
}

// SetupGuideRoutes 列表和详情公开，重新加载需要管理员
func SetupGuideRoutes(r *gin.RouterGroup, h *Handler, cached gin.HandlerFunc, admin ...gin.HandlerFunc) {
	guides := r.Group("/guides")
	guides.Use(cached)
	{
		guides.GET("", h.ListGuides)
		guides.GET("/:slug", h.GetGuide)
	}

	reload := append(admin, h.ReloadGuides)
	r.POST("/admin/guides/reload", reload...)
}
