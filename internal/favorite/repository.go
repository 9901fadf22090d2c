package favorite

import (
	"context"
	"fmt"
	"sort"

	"seichi/cms/internal/dto"
	"seichi/cms/internal/model/favorite"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository 按目标类型分派到对应的表
type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add 幂等添加：已存在时返回原记录
func (r *FavoriteRepository) Add(ctx context.Context, userID uint, target Target) (*dto.FavoriteResponse, error) {
	db := r.db.WithContext(ctx)

	switch t := target.(type) {
	case DBTarget:
		row := favorite.Favorite{UserID: userID, ArticleID: t.ArticleID}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return nil, err
		}
		if err := db.Where("user_id = ? AND article_id = ?", userID, t.ArticleID).First(&row).Error; err != nil {
			return nil, err
		}
		return fromDB(row), nil
	case MDXTarget:
		row := favorite.MdxFavorite{UserID: userID, Slug: t.Slug}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return nil, err
		}
		if err := db.Where("user_id = ? AND slug = ?", userID, t.Slug).First(&row).Error; err != nil {
			return nil, err
		}
		return fromMDX(row), nil
	default:
		return nil, fmt.Errorf("unsupported favorite target %T", target)
	}
}

// Remove 删除收藏，不存在时同样视为成功
func (r *FavoriteRepository) Remove(ctx context.Context, userID uint, target Target) error {
	db := r.db.WithContext(ctx)

	switch t := target.(type) {
	case DBTarget:
		return db.Where("user_id = ? AND article_id = ?", userID, t.ArticleID).
			Delete(&favorite.Favorite{}).Error
	case MDXTarget:
		return db.Where("user_id = ? AND slug = ?", userID, t.Slug).
			Delete(&favorite.MdxFavorite{}).Error
	default:
		return fmt.Errorf("unsupported favorite target %T", target)
	}
}

// List 用户的全部收藏，两种来源合并后按收藏时间倒序
func (r *FavoriteRepository) List(ctx context.Context, userID uint) ([]dto.FavoriteResponse, error) {
	var dbRows []favorite.Favorite
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&dbRows).Error; err != nil {
		return nil, err
	}
	var mdxRows []favorite.MdxFavorite
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&mdxRows).Error; err != nil {
		return nil, err
	}

	items := make([]dto.FavoriteResponse, 0, len(dbRows)+len(mdxRows))
	for _, row := range dbRows {
		items = append(items, *fromDB(row))
	}
	for _, row := range mdxRows {
		items = append(items, *fromMDX(row))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func fromDB(row favorite.Favorite) *dto.FavoriteResponse {
	return &dto.FavoriteResponse{Source: SourceDB, ArticleID: row.ArticleID, CreatedAt: row.CreatedAt}
}

func fromMDX(row favorite.MdxFavorite) *dto.FavoriteResponse {
	return &dto.FavoriteResponse{Source: SourceMDX, Slug: row.Slug, CreatedAt: row.CreatedAt}
}
