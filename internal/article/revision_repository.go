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

// RevisionRepository 修正案仓储层
type RevisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

func (r *RevisionRepository) WithTx(tx *gorm.DB) *RevisionRepository {
	return &RevisionRepository{db: tx}
}

func (r *RevisionRepository) GetByID(ctx context.Context, id uint) (*article.Revision, error) {
	var rev article.Revision
	if err := r.db.WithContext(ctx).First(&rev, id).Error; err != nil {
		return nil, database.NotFoundOr(err, "修正案不存在")
	}
	return &rev, nil
}

func (r *RevisionRepository) Create(ctx context.Context, rev *article.Revision) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

// Transition 条件更新，语义同 ArticleRepository.Transition
// 提交时撞上部分唯一索引（同一文章已有待审修正案）返回 InvalidState
func (r *RevisionRepository) Transition(ctx context.Context, id uint, from, to workflow.Status, fields map[string]any) error {
	updates := map[string]any{"status": to}
	for k, v := range fields {
		updates[k] = v
	}

	result := r.db.WithContext(ctx).Model(&article.Revision{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		if database.IsDuplicateKey(result.Error) {
			return response.NewBusinessError(
				response.WithErrorCode(response.InvalidState),
				response.WithErrorMessage("该文章已有待审核的修正案"),
				response.WithError(result.Error),
			)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return response.New(response.InvalidState,
			fmt.Sprintf("修正案状态已变为 %s（期望 %s）", current.Status, from))
	}
	return nil
}

// HasPending 文章是否已有待审修正案
func (r *RevisionRepository) HasPending(ctx context.Context, articleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&article.Revision{}).
		Where("article_id = ? AND status = ?", articleID, workflow.StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *RevisionRepository) ListByAuthor(ctx context.Context, authorID uint) ([]article.Revision, error) {
	var revisions []article.Revision
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("updated_at DESC").Order("id DESC").
		Find(&revisions).Error
	return revisions, err
}

func (r *RevisionRepository) ListByArticle(ctx context.Context, articleID uint) ([]article.Revision, error) {
	var revisions []article.Revision
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at DESC").Order("id DESC").
		Find(&revisions).Error
	return revisions, err
}

// ListByStatus 审核队列：提交时间早的在前，id 作为次序键保证稳定
func (r *RevisionRepository) ListByStatus(ctx context.Context, status workflow.Status) ([]article.Revision, error) {
	var revisions []article.Revision
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("submitted_at ASC").Order("id ASC").
		Find(&revisions).Error
	return revisions, err
}
