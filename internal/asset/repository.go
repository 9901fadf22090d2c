package asset

import (
	"context"
	"errors"

	"seichi/cms/internal/database"
	"seichi/cms/internal/model/asset"

	"gorm.io/gorm"
)

type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) GetByID(ctx context.Context, id uint) (*asset.Asset, error) {
	var a asset.Asset
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, database.NotFoundOr(err, "资源不存在")
	}
	return &a, nil
}

// FindByPostAndHash 同一文章下的相同文件，不存在时返回 nil
func (r *AssetRepository) FindByPostAndHash(ctx context.Context, postID uint, hash string) (*asset.Asset, error) {
	var a asset.Asset
	err := r.db.WithContext(ctx).Where("post_id = ? AND file_hash = ?", postID, hash).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByHash 任意文章下的相同文件，用于复用已落盘的内容
func (r *AssetRepository) FindByHash(ctx context.Context, hash string) (*asset.Asset, error) {
	var a asset.Asset
	err := r.db.WithContext(ctx).Where("file_hash = ?", hash).Order("id ASC").First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) Create(ctx context.Context, a *asset.Asset) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AssetRepository) ListByPost(ctx context.Context, postID uint) ([]asset.Asset, error) {
	var assets []asset.Asset
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&assets).Error
	return assets, err
}
