package article

import (
	"context"
	"regexp"
	"time"

	"seichi/cms/internal/cache"
	"seichi/cms/internal/dto"
	"seichi/cms/internal/model/article"
	"seichi/cms/internal/permission"
	"seichi/cms/internal/workflow"
	"seichi/cms/packages/response"
	"seichi/cms/packages/session"

	"github.com/rs/zerolog"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type ArticleService struct {
	articleRepo *ArticleRepository
	refresher   *cache.Refresher
	log         zerolog.Logger
}

func NewArticleService(articleRepo *ArticleRepository, refresher *cache.Refresher, log zerolog.Logger) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		refresher:   refresher,
		log:         log.With().Str("component", "article").Logger(),
	}
}

func validateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return response.New(response.InvalidParameter, "slug 只能包含小写字母、数字和连字符")
	}
	return nil
}

// CreateArticle 创建草稿
func (s *ArticleService) CreateArticle(ctx context.Context, sess *session.Session, req dto.CreateArticleRequest) (*article.Article, error) {
	if err := permission.RequireSession(sess); err != nil {
		return nil, err
	}
	if err := validateSlug(req.Slug); err != nil {
		return nil, err
	}

	taken, err := s.articleRepo.PublishedSlugTaken(ctx, req.Slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, response.New(response.InvalidState, "该 slug 已被其他已发布文章占用")
	}

	art := &article.Article{
		Title:    req.Title,
		Slug:     req.Slug,
		Body:     req.Body,
		Excerpt:  req.Excerpt,
		Anime:    req.Anime,
		Location: req.Location,
		AuthorID: sess.UserID,
		Status:   workflow.StatusDraft,
	}
	if err := s.articleRepo.Create(ctx, art); err != nil {
		return nil, err
	}

	s.log.Info().Uint("article_id", art.ID).Uint("user_id", sess.UserID).Msg("创建文章草稿")
	return art, nil
}

// UpdateArticle 作者修改草稿；被驳回的文章修改后回到草稿
func (s *ArticleService) UpdateArticle(ctx context.Context, sess *session.Session, id uint, req dto.UpdateArticleRequest) (*article.Article, error) {
	art, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permission.RequireAuthor(sess, art.AuthorID); err != nil {
		return nil, err
	}
	next, err := workflow.Article.Next(art.Status, workflow.ActionEdit)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Slug != nil {
		if err := validateSlug(*req.Slug); err != nil {
			return nil, err
		}
		fields["slug"] = *req.Slug
	}
	if req.Body != nil {
		fields["body"] = *req.Body
	}
	if req.Excerpt != nil {
		fields["excerpt"] = *req.Excerpt
	}
	if req.Anime != nil {
		fields["anime"] = *req.Anime
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}

	if err := s.articleRepo.Transition(ctx, id, art.Status, next, fields); err != nil {
		return nil, err
	}
	return s.articleRepo.GetByID(ctx, id)
}

// SubmitArticle 作者提交审核 draft -> pending
func (s *ArticleService) SubmitArticle(ctx context.Context, sess *session.Session, id uint) (workflow.Status, error) {
	art, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := permission.RequireAuthor(sess, art.AuthorID); err != nil {
		return "", err
	}
	next, err := workflow.Article.Next(art.Status, workflow.ActionSubmit)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if err := s.articleRepo.Transition(ctx, id, art.Status, next, map[string]any{
		"submitted_at": &now,
	}); err != nil {
		return "", err
	}

	s.log.Info().Uint("article_id", id).Uint("user_id", sess.UserID).Msg("文章已提交审核")
	s.refresher.Refresh(cache.ArticleListPath, cache.ArticlePath(id))
	return next, nil
}

// GetArticle 已发布文章公开；其余状态仅作者和管理员可见，其他人看到 NotFound
func (s *ArticleService) GetArticle(ctx context.Context, sess *session.Session, id uint) (*article.Article, error) {
	art, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if art.Status == workflow.StatusPublished {
		return art, nil
	}
	if permission.RequireAuthorOrAdmin(sess, art.AuthorID) != nil {
		return nil, response.New(response.NotFound, "文章不存在")
	}
	return art, nil
}

func (s *ArticleService) GetPublishedBySlug(ctx context.Context, slug string) (*article.Article, error) {
	return s.articleRepo.GetPublishedBySlug(ctx, slug)
}

// ListPublished 公开文章分页列表
func (s *ArticleService) ListPublished(ctx context.Context, page, pageSize int) (*dto.PageResult[article.Article], error) {
	items, total, err := s.articleRepo.ListPublished(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &dto.PageResult[article.Article]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *ArticleService) ListMine(ctx context.Context, sess *session.Session) ([]article.Article, error) {
	if err := permission.RequireSession(sess); err != nil {
		return nil, err
	}
	return s.articleRepo.ListByAuthor(ctx, sess.UserID)
}

// DeleteArticle 作者可删除自己未发布的文章，管理员可删除任意文章
// 文章下的资源不随之删除
func (s *ArticleService) DeleteArticle(ctx context.Context, sess *session.Session, id uint) error {
	art, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch permission.Resolve(sess, art.AuthorID).EffectiveRole {
	case "admin":
	case "author":
		if art.Status == workflow.StatusPublished && !sess.IsAdmin() {
			return response.New(response.InvalidState, "已发布的文章需由管理员删除")
		}
	default:
		if err := permission.RequireSession(sess); err != nil {
			return err
		}
		return response.New(response.Forbidden, "无权删除该文章")
	}

	if err := s.articleRepo.DeleteIfStatus(ctx, id, art.Status); err != nil {
		return err
	}

	s.log.Info().Uint("article_id", id).Uint("user_id", sess.UserID).Str("status", string(art.Status)).Msg("文章已删除")
	if art.Status == workflow.StatusPublished {
		s.refresher.Refresh(cache.ArticleListPath, cache.ArticlePath(id), cache.ArticleSlugPath(art.Slug))
	}
	return nil
}
