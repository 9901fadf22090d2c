// Package revision 已发布文章的修正案：创建、修改、提交、撤回
package revision

import (
	"context"
	"time"

	articlepkg "seichi/cms/internal/article"
	"seichi/cms/internal/cache"
	"seichi/cms/internal/dto"
	"seichi/cms/internal/model/article"
	"seichi/cms/internal/permission"
	"seichi/cms/internal/workflow"
	"seichi/cms/packages/response"
	"seichi/cms/packages/session"

	"github.com/rs/zerolog"
)

type RevisionService struct {
	articleRepo  *articlepkg.ArticleRepository
	revisionRepo *articlepkg.RevisionRepository
	refresher    *cache.Refresher
	log          zerolog.Logger
}

func NewRevisionService(
	articleRepo *articlepkg.ArticleRepository,
	revisionRepo *articlepkg.RevisionRepository,
	refresher *cache.Refresher,
	log zerolog.Logger,
) *RevisionService {
	return &RevisionService{
		articleRepo:  articleRepo,
		revisionRepo: revisionRepo,
		refresher:    refresher,
		log:          log.With().Str("component", "revision").Logger(),
	}
}

// CreateRevision 针对已发布文章创建修正案草稿，记录当前正文作为合并基准
func (s *RevisionService) CreateRevision(ctx context.Context, sess *session.Session, articleID uint, req dto.CreateRevisionRequest) (*article.Revision, error) {
	if err := permission.RequireSession(sess); err != nil {
		return nil, err
	}

	art, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if art.Status != workflow.StatusPublished {
		return nil, response.New(response.InvalidState, "只能对已发布的文章提出修正案")
	}

	rev := &article.Revision{
		ArticleID:    art.ID,
		AuthorID:     sess.UserID,
		BaseBody:     art.Body,
		ProposedBody: req.Body,
		Summary:      req.Summary,
		Status:       workflow.StatusDraft,
	}
	if err := s.revisionRepo.Create(ctx, rev); err != nil {
		return nil, err
	}

	s.log.Info().Uint("revision_id", rev.ID).Uint("article_id", art.ID).Uint("user_id", sess.UserID).Msg("创建修正案")
	return rev, nil
}

// UpdateRevision 修改修正案草稿
func (s *RevisionService) UpdateRevision(ctx context.Context, sess *session.Session, id uint, req dto.UpdateRevisionRequest) (*article.Revision, error) {
	rev, err := s.revisionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permission.RequireAuthor(sess, rev.AuthorID); err != nil {
		return nil, err
	}
	next, err := workflow.Revision.Next(rev.Status, workflow.ActionEdit)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Body != nil {
		fields["proposed_body"] = *req.Body
	}
	if req.Summary != nil {
		fields["summary"] = *req.Summary
	}
	if err := s.revisionRepo.Transition(ctx, id, rev.Status, next, fields); err != nil {
		return nil, err
	}
	return s.revisionRepo.GetByID(ctx, id)
}

// SubmitRevision 提交审核 draft -> pending，每篇文章同时只能有一个待审修正案
func (s *RevisionService) SubmitRevision(ctx context.Context, sess *session.Session, id uint) (workflow.Status, error) {
	rev, err := s.revisionRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := permission.RequireAuthor(sess, rev.AuthorID); err != nil {
		return "", err
	}
	next, err := workflow.Revision.Next(rev.Status, workflow.ActionSubmit)
	if err != nil {
		return "", err
	}

	pending, err := s.revisionRepo.HasPending(ctx, rev.ArticleID)
	if err != nil {
		return "", err
	}
	if pending {
		return "", response.New(response.InvalidState, "该文章已有待审核的修正案")
	}

	if err := s.revisionRepo.Transition(ctx, id, rev.Status, next, map[string]any{
		"submitted_at": time.Now(),
	}); err != nil {
		return "", err
	}

	s.log.Info().Uint("revision_id", id).Uint("article_id", rev.ArticleID).Uint("user_id", sess.UserID).Msg("修正案已提交审核")
	s.refresher.Refresh(cache.ArticlePath(rev.ArticleID))
	return next, nil
}

// WithdrawRevision 作者撤回待审修正案 pending -> withdrawn
func (s *RevisionService) WithdrawRevision(ctx context.Context, sess *session.Session, id uint) (workflow.Status, error) {
	rev, err := s.revisionRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := permission.RequireAuthor(sess, rev.AuthorID); err != nil {
		return "", err
	}
	next, err := workflow.Revision.Next(rev.Status, workflow.ActionWithdraw)
	if err != nil {
		return "", err
	}

	if err := s.revisionRepo.Transition(ctx, id, rev.Status, next, nil); err != nil {
		return "", err
	}

	s.log.Info().Uint("revision_id", id).Uint("user_id", sess.UserID).Msg("修正案已撤回")
	return next, nil
}

// GetRevision 作者或管理员可见
func (s *RevisionService) GetRevision(ctx context.Context, sess *session.Session, id uint) (*article.Revision, error) {
	rev, err := s.revisionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permission.RequireAuthorOrAdmin(sess, rev.AuthorID); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *RevisionService) ListMine(ctx context.Context, sess *session.Session) ([]article.Revision, error) {
	if err := permission.RequireSession(sess); err != nil {
		return nil, err
	}
	return s.revisionRepo.ListByAuthor(ctx, sess.UserID)
}

// ListByArticle 文章的修正历史；管理员看到全部，其他用户只看到自己提交的
func (s *RevisionService) ListByArticle(ctx context.Context, sess *session.Session, articleID uint) ([]article.Revision, error) {
	if err := permission.RequireSession(sess); err != nil {
		return nil, err
	}
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}

	revisions, err := s.revisionRepo.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if sess.IsAdmin() {
		return revisions, nil
	}
	own := revisions[:0]
	for _, r := range revisions {
		if r.AuthorID == sess.UserID {
			own = append(own, r)
		}
	}
	return own, nil
}
