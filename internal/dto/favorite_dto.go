package dto

import "time"

// AddFavoriteRequest 添加收藏
// {"source":"db","articleId":1} 或 {"source":"mdx","slug":"washinomiya"}
type AddFavoriteRequest struct {
	Source    string `json:"source" binding:"required,oneof=db mdx"`
	ArticleID uint   `json:"articleId"`
	Slug      string `json:"slug" binding:"max=255"`
}

// FavoriteResponse 收藏条目
type FavoriteResponse struct {
	Source    string    `json:"source"`
	ArticleID uint      `json:"articleId,omitempty"`
	Slug      string    `json:"slug,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
