package dto

// CreateArticleRequest 创建文章草稿
type CreateArticleRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Slug     string `json:"slug" binding:"required,max=255"`
	Body     string `json:"body" binding:"required"`
	Excerpt  string `json:"excerpt" binding:"max=500"`
	Anime    string `json:"anime" binding:"max=255"`
	Location string `json:"location" binding:"max=255"`
}

// UpdateArticleRequest 修改草稿，未提供的字段保持不变
type UpdateArticleRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=255"`
	Slug     *string `json:"slug" binding:"omitempty,max=255"`
	Body     *string `json:"body"`
	Excerpt  *string `json:"excerpt" binding:"omitempty,max=500"`
	Anime    *string `json:"anime" binding:"omitempty,max=255"`
	Location *string `json:"location" binding:"omitempty,max=255"`
}

// CreateRevisionRequest 针对已发布文章创建修正案
type CreateRevisionRequest struct {
	Body    string `json:"body" binding:"required"`
	Summary string `json:"summary" binding:"max=255"`
}

// UpdateRevisionRequest 修改修正案草稿
type UpdateRevisionRequest struct {
	Body    *string `json:"body"`
	Summary *string `json:"summary" binding:"omitempty,max=255"`
}
