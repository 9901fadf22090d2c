// Package favorite 收藏模型
package favorite

import "time"

// Favorite 收藏数据库文章
type Favorite struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	ArticleID uint      `gorm:"primaryKey;index" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// MdxFavorite 收藏文件型攻略（按 slug）
type MdxFavorite struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	Slug      string    `gorm:"primaryKey;type:varchar(255)" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func (MdxFavorite) TableName() string {
	return "mdx_favorites"
}
