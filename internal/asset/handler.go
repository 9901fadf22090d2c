package asset

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	articlepkg "seichi/cms/internal/article"
	"seichi/cms/internal/dto"
	"seichi/cms/internal/middleware"
	"seichi/cms/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AssetHandler struct {
	assetService *AssetService
}

func NewAssetHandler(assetService *AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// Upload 上传资源
// @Summary 上传文章配图
// @Tags Asset
// @Accept multipart/form-data
// @Produce json
// @Param post_id formData int true "文章ID"
// @Param file formData file true "文件"
// @Success 200 {object} asset.Asset
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /assets [post]
func (h *AssetHandler) Upload(c *gin.Context) {
	postID, err := strconv.ParseUint(c.PostForm("post_id"), 10, 64)
	if err != nil || postID == 0 {
		dto.ErrorResponse(c, response.New(response.ParseError, "无效的 post_id"))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		dto.ErrorResponse(c, response.New(response.ParseError, "缺少上传文件"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	defer f.Close()

	a, err := h.assetService.Upload(c.Request.Context(), middleware.GetSession(c), UploadInput{
		PostID:   uint(postID),
		FileName: fh.Filename,
		Content:  f,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, a)
}

// Get 读取资源
// @Summary 获取资源内容（公开）
// @Tags Asset
// @Produce octet-stream
// @Param id path int true "资源ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorBody
// @Router /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	id, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	a, rc, err := h.assetService.Open(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	defer rc.Close()

	etag := `"` + a.FileHash + `"`
	// 内容按哈希寻址，不会改变，可以长期缓存
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("Content-Type", a.MimeType)
	if disposition := mime.FormatMediaType("inline", map[string]string{"filename": a.FileName}); disposition != "" {
		c.Header("Content-Disposition", disposition)
	} else {
		c.Header("Content-Disposition", "inline")
	}
	c.Header("Content-Length", strconv.FormatInt(a.Size, 10))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Uint("asset_id", id).Msg("资源传输中断")
	}
}

// ListByPost 文章的资源列表
// @Summary 文章下的全部资源
// @Tags Asset
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {array} asset.Asset
// @Router /articles/{id}/assets [get]
func (h *AssetHandler) ListByPost(c *gin.Context) {
	id, ok := articlepkg.ParseID(c, "id")
	if !ok {
		return
	}

	assets, err := h.assetService.ListByPost(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, assets)
}
