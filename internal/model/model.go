package model

import (
	"fmt"

	"seichi/cms/internal/model/article"
	"seichi/cms/internal/model/asset"
	"seichi/cms/internal/model/favorite"
	"seichi/cms/internal/model/user"

	"gorm.io/gorm"
)

// partialIndexes 审核流程依赖的部分唯一索引，postgres 与 sqlite 语法一致
var partialIndexes = []string{
	// 同一 slug 只能有一篇已发布文章
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_published_slug ON articles (slug) WHERE status = 'published'`,
	// 每篇文章最多一个待审修正案
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_revisions_pending_article ON revisions (article_id) WHERE status = 'pending'`,
}

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构
	err := db.AutoMigrate(
		// 用户模型
		&user.User{},
		// 文章与修正案
		&article.Article{},
		&article.Revision{},
		// 收藏
		&favorite.Favorite{},
		&favorite.MdxFavorite{},
		// 资源
		&asset.Asset{},
	)
	if err != nil {
		return err
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("创建索引失败: %w", err)
		}
	}
	return nil
}
