// Package review 管理员审核：待审列表、通过、驳回、退回修改
package review

import (
	"context"
	"slices"
	"sort"
	"time"

	articlepkg "seichi/cms/internal/article"
	"seichi/cms/internal/background"
	"seichi/cms/internal/cache"
	"seichi/cms/internal/dto"
	"seichi/cms/internal/model/article"
	"seichi/cms/internal/permission"
	"seichi/cms/internal/workflow"
	"seichi/cms/packages/response"
	"seichi/cms/packages/session"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

const (
	KindArticle  = "article"
	KindRevision = "revision"
)

var tracer = otel.Tracer("seichi/cms/review")

type ReviewService struct {
	db           *gorm.DB
	articleRepo  *articlepkg.ArticleRepository
	revisionRepo *articlepkg.RevisionRepository
	merge        *articlepkg.MergeService
	refresher    *cache.Refresher
	runner       *background.Runner
	notifier     Notifier
	log          zerolog.Logger
}

func NewReviewService(
	db *gorm.DB,
	articleRepo *articlepkg.ArticleRepository,
	revisionRepo *articlepkg.RevisionRepository,
	merge *articlepkg.MergeService,
	refresher *cache.Refresher,
	runner *background.Runner,
	notifier Notifier,
	log zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		db:           db,
		articleRepo:  articleRepo,
		revisionRepo: revisionRepo,
		merge:        merge,
		refresher:    refresher,
		runner:       runner,
		notifier:     notifier,
		log:          log.With().Str("component", "review").Logger(),
	}
}

// ListFilter 待审列表过滤条件，零值表示全部类型的 pending 条目
type ListFilter struct {
	Type   string
	Status workflow.Status
}

// ListPending 审核队列，按提交时间升序，id 作为次序键
func (s *ReviewService) ListPending(ctx context.Context, sess *session.Session, filter ListFilter) ([]dto.ReviewItem, error) {
	if err := permission.RequireAdmin(sess); err != nil {
		return nil, err
	}
	if filter.Status == "" {
		filter.Status = workflow.StatusPending
	}
	if filter.Type != "" && filter.Type != KindArticle && filter.Type != KindRevision {
		return nil, response.New(response.InvalidParameter, "type 只能是 article 或 revision")
	}

	items := make([]dto.ReviewItem, 0)

	if filter.Type == "" || filter.Type == KindArticle {
		articles, err := s.articleRepo.ListByStatus(ctx, filter.Status)
		if err != nil {
			return nil, err
		}
		for _, a := range articles {
			items = append(items, dto.ReviewItem{
				Type:        KindArticle,
				ID:          a.ID,
				ArticleID:   a.ID,
				Title:       a.Title,
				AuthorID:    a.AuthorID,
				Status:      string(a.Status),
				SubmittedAt: a.SubmittedAt,
			})
		}
	}

	if filter.Type == "" || filter.Type == KindRevision {
		revisions, err := s.revisionRepo.ListByStatus(ctx, filter.Status)
		if err != nil {
			return nil, err
		}
		titles := make(map[uint]string)
		for _, r := range revisions {
			if _, ok := titles[r.ArticleID]; ok {
				continue
			}
			// 文章可能已被删除，此时标题留空
			if art, err := s.articleRepo.GetByID(ctx, r.ArticleID); err == nil {
				titles[r.ArticleID] = art.Title
			} else if !response.IsCode(err, response.NotFound) {
				return nil, err
			}
		}
		for _, r := range revisions {
			items = append(items, dto.ReviewItem{
				Type:        KindRevision,
				ID:          r.ID,
				ArticleID:   r.ArticleID,
				Title:       titles[r.ArticleID],
				AuthorID:    r.AuthorID,
				Status:      string(r.Status),
				Summary:     r.Summary,
				SubmittedAt: r.SubmittedAt,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return submittedBefore(items[i], items[j])
	})
	return items, nil
}

func submittedBefore(a, b dto.ReviewItem) bool {
	switch {
	case a.SubmittedAt == nil && b.SubmittedAt == nil:
	case a.SubmittedAt == nil:
		return false
	case b.SubmittedAt == nil:
		return true
	case !a.SubmittedAt.Equal(*b.SubmittedAt):
		return a.SubmittedAt.Before(*b.SubmittedAt)
	}
	if a.Type != b.Type {
		return a.Type == KindArticle
	}
	return a.ID < b.ID
}

func reviewFields(adminID uint, feedback string) map[string]any {
	return map[string]any{
		"reviewed_by": adminID,
		"reviewed_at": time.Now(),
		"feedback":    feedback,
	}
}

// ResolveArticle 审核文章：通过发布、驳回或退回草稿
// 状态更新以 status = pending 为条件，并发的两次审核只有一次成功
func (s *ReviewService) ResolveArticle(ctx context.Context, sess *session.Session, id uint, action workflow.Action, feedback string) (workflow.Status, error) {
	if err := permission.RequireAdmin(sess); err != nil {
		return "", err
	}

	ctx, span := tracer.Start(ctx, "review.resolve_article")
	defer span.End()
	span.SetAttributes(attribute.Int64("article.id", int64(id)), attribute.String("review.action", string(action)))

	var (
		art  *article.Article
		next workflow.Status
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.articleRepo.WithTx(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next, err = workflow.Article.Next(current.Status, action)
		if err != nil {
			return err
		}

		fields := reviewFields(sess.UserID, feedback)
		if next == workflow.StatusPublished {
			taken, err := repo.PublishedSlugTaken(ctx, current.Slug, current.ID)
			if err != nil {
				return err
			}
			if taken {
				return response.New(response.InvalidState, "该 slug 已被其他已发布文章占用")
			}
			fields["published_at"] = time.Now()
		}

		art = current
		return repo.Transition(ctx, id, current.Status, next, fields)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	s.log.Info().
		Uint("article_id", id).
		Uint("user_id", sess.UserID).
		Str("action", string(action)).
		Str("status", string(next)).
		Msg("文章审核完成")

	if next == workflow.StatusPublished {
		s.refresher.Refresh(cache.ArticleListPath, cache.ArticlePath(id), cache.ArticleSlugPath(art.Slug))
	} else {
		s.refresher.Refresh(cache.ArticlePath(id))
	}
	s.notify(Outcome{
		Kind:      KindArticle,
		TargetID:  id,
		ArticleID: id,
		Title:     art.Title,
		AuthorID:  art.AuthorID,
		Status:    next,
		Feedback:  feedback,
	})
	return next, nil
}

// ResolveRevision 审核修正案；通过时在同一事务内把修正合并进文章正文
// 合并冲突、文章已删除或未发布都返回 InvalidState，且不改变任何数据
func (s *ReviewService) ResolveRevision(ctx context.Context, sess *session.Session, id uint, action workflow.Action, feedback string) (workflow.Status, error) {
	if err := permission.RequireAdmin(sess); err != nil {
		return "", err
	}

	ctx, span := tracer.Start(ctx, "review.resolve_revision")
	defer span.End()
	span.SetAttributes(attribute.Int64("revision.id", int64(id)), attribute.String("review.action", string(action)))

	var (
		rev   *article.Revision
		title string
		slug  string
		next  workflow.Status
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		revRepo := s.revisionRepo.WithTx(tx)
		artRepo := s.articleRepo.WithTx(tx)

		current, err := revRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next, err = workflow.Revision.Next(current.Status, action)
		if err != nil {
			return err
		}

		// 先抢占修正案状态，失败者在这里就得到 InvalidState，不会重复合并
		if err := revRepo.Transition(ctx, id, current.Status, next, reviewFields(sess.UserID, feedback)); err != nil {
			return err
		}
		rev = current

		art, err := artRepo.GetByID(ctx, current.ArticleID)
		switch {
		case err == nil:
			title, slug = art.Title, art.Slug
		case !response.IsCode(err, response.NotFound):
			return err
		case next == workflow.StatusApproved:
			return response.New(response.InvalidState, "修正案对应的文章已不存在")
		default:
			// 驳回或退回不依赖文章
			return nil
		}
		if next != workflow.StatusApproved {
			return nil
		}

		if art.Status != workflow.StatusPublished {
			return response.New(response.InvalidState, "修正案对应的文章未处于发布状态")
		}
		merged := s.merge.ThreeWayMerge(current.BaseBody, current.ProposedBody, art.Body)
		if merged.HasConflict {
			return response.New(response.InvalidState, "修正案与当前正文冲突，无法自动合并")
		}
		return artRepo.Transition(ctx, art.ID, art.Status, art.Status, map[string]any{
			"body": merged.MergedContent,
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	s.log.Info().
		Uint("revision_id", id).
		Uint("article_id", rev.ArticleID).
		Uint("user_id", sess.UserID).
		Str("action", string(action)).
		Str("status", string(next)).
		Msg("修正案审核完成")

	if next == workflow.StatusApproved {
		s.refresher.Refresh(cache.ArticleListPath, cache.ArticlePath(rev.ArticleID), cache.ArticleSlugPath(slug))
	}
	s.notify(Outcome{
		Kind:      KindRevision,
		TargetID:  id,
		ArticleID: rev.ArticleID,
		Title:     title,
		AuthorID:  rev.AuthorID,
		Status:    next,
		Feedback:  feedback,
	})
	return next, nil
}

// RevisionDetail 修正案详情及与当前正文的差异
type RevisionDetail struct {
	Revision *article.Revision      `json:"revision"`
	Article  *article.Article       `json:"article"`
	Diff     []dto.DiffSegment      `json:"diff"`
	Merge    articlepkg.MergeResult `json:"merge"`
	// 当前可执行的审核动作，合并冲突时不含 approve
	Actions []workflow.Action `json:"actions"`
}

// GetRevisionDetail 供管理员审核前预览
func (s *ReviewService) GetRevisionDetail(ctx context.Context, sess *session.Session, id uint) (*RevisionDetail, error) {
	if err := permission.RequireAdmin(sess); err != nil {
		return nil, err
	}

	rev, err := s.revisionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	art, err := s.articleRepo.GetByID(ctx, rev.ArticleID)
	if err != nil {
		return nil, err
	}

	merged := s.merge.ThreeWayMerge(rev.BaseBody, rev.ProposedBody, art.Body)
	actions := workflow.Revision.ReviewActions(rev.Status)
	if merged.HasConflict || art.Status != workflow.StatusPublished {
		actions = slices.DeleteFunc(actions, func(a workflow.Action) bool { return a == workflow.ActionApprove })
	}

	return &RevisionDetail{
		Revision: rev,
		Article:  art,
		Diff:     s.merge.Diff(art.Body, rev.ProposedBody),
		Merge:    merged,
		Actions:  actions,
	}, nil
}

func (s *ReviewService) notify(o Outcome) {
	if s.notifier == nil || s.runner == nil {
		return
	}
	s.runner.Go("review.notify", func(ctx context.Context) error {
		return s.notifier.Notify(ctx, o)
	})
}
