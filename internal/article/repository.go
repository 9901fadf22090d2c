package article

import (
	"context"
	"fmt"

	"seichi/cms/internal/database"
	"seichi/cms/internal/model/article"
	"seichi/cms/internal/workflow"
	"seichi/cms/packages/response"

	"gorm.io/gorm"
)

// ArticleRepository 文章仓储层
type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// WithTx 绑定到事务
func (r *ArticleRepository) WithTx(tx *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: tx}
}

// ===== Article 基础操作 =====

func (r *ArticleRepository) GetByID(ctx context.Context, id uint) (*article.Article, error) {
	var art article.Article
	if err := r.db.WithContext(ctx).First(&art, id).Error; err != nil {
		return nil, database.NotFoundOr(err, "文章不存在")
	}
	return &art, nil
}

// GetPublishedBySlug 按 slug 查询已发布文章
func (r *ArticleRepository) GetPublishedBySlug(ctx context.Context, slug string) (*article.Article, error) {
	var art article.Article
	err := r.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, workflow.StatusPublished).
		First(&art).Error
	if err != nil {
		return nil, database.NotFoundOr(err, "文章不存在")
	}
	return &art, nil
}

// PublishedSlugTaken slug 是否已被其他已发布文章占用
func (r *ArticleRepository) PublishedSlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&article.Article{}).
		Where("slug = ? AND status = ? AND id <> ?", slug, workflow.StatusPublished, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *ArticleRepository) Create(ctx context.Context, art *article.Article) error {
	return r.db.WithContext(ctx).Create(art).Error
}

// Transition 条件更新：仅当当前状态仍为 from 时写入 to 和附带字段
// 没有行被更新时重新读取，区分 NotFound 与 InvalidState
func (r *ArticleRepository) Transition(ctx context.Context, id uint, from, to workflow.Status, fields map[string]any) error {
	updates := map[string]any{"status": to}
	for k, v := range fields {
		updates[k] = v
	}

	result := r.db.WithContext(ctx).Model(&article.Article{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		if database.IsDuplicateKey(result.Error) {
			return response.NewBusinessError(
				response.WithErrorCode(response.InvalidState),
				response.WithErrorMessage("该 slug 已被其他已发布文章占用"),
				response.WithError(result.Error),
			)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.staleState(ctx, id, from)
	}
	return nil
}

func (r *ArticleRepository) staleState(ctx context.Context, id uint, expected workflow.Status) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return response.New(response.InvalidState,
		fmt.Sprintf("文章状态已变为 %s（期望 %s）", current.Status, expected))
}

// DeleteIfStatus 条件删除
func (r *ArticleRepository) DeleteIfStatus(ctx context.Context, id uint, status workflow.Status) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, status).
		Delete(&article.Article{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.staleState(ctx, id, status)
	}
	return nil
}

// ListPublished 公开列表，最近发布的在前
func (r *ArticleRepository) ListPublished(ctx context.Context, offset, limit int) ([]article.Article, int64, error) {
	var articles []article.Article
	var total int64

	query := r.db.WithContext(ctx).Model(&article.Article{}).Where("status = ?", workflow.StatusPublished)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("published_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&articles).Error
	return articles, total, err
}

// ListByAuthor 作者自己的文章，最近修改的在前
func (r *ArticleRepository) ListByAuthor(ctx context.Context, authorID uint) ([]article.Article, error) {
	var articles []article.Article
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("updated_at DESC").Order("id DESC").
		Find(&articles).Error
	return articles, err
}

// ListByStatus 审核队列：提交时间早的在前，id 作为次序键保证稳定
func (r *ArticleRepository) ListByStatus(ctx context.Context, status workflow.Status) ([]article.Article, error) {
	var articles []article.Article
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("submitted_at ASC").Order("id ASC").
		Find(&articles).Error
	return articles, err
}
