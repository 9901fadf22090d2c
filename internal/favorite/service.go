package favorite

import (
	"context"

	articlepkg "seichi/cms/internal/article"
	"seichi/cms/internal/dto"
	"seichi/cms/internal/permission"
	"seichi/cms/internal/workflow"
	"seichi/cms/packages/response"
	"seichi/cms/packages/session"

	"github.com/rs/zerolog"
)

// GuideIndex 判断文件型攻略是否存在
type GuideIndex interface {
	Exists(slug string) bool
}

type FavoriteService struct {
	repo        *FavoriteRepository
	articleRepo *articlepkg.ArticleRepository
	guides      GuideIndex
	log         zerolog.Logger
}

func NewFavoriteService(repo *FavoriteRepository, articleRepo *articlepkg.ArticleRepository, guides GuideIndex, log zerolog.Logger) *FavoriteService {
	return &FavoriteService{
		repo:        repo,
		articleRepo: articleRepo,
		guides:      guides,
		log:         log.With().Str("component", "favorite").Logger(),
	}
}

// Add 添加收藏；目标必须是已发布文章或存在的攻略
func (s *FavoriteService) Add(ctx context.Context, sess *session.Session, target Target) (*dto.FavoriteResponse, error) {
	if err := permission.RequireSession(sess); err != nil {
		return nil, err
	}
	if err := s.checkTarget(ctx, target); err != nil {
		return nil, err
	}

	fav, err := s.repo.Add(ctx, sess.UserID, target)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Uint("user_id", sess.UserID).Str("source", target.Source()).Msg("添加收藏")
	return fav, nil
}

func (s *FavoriteService) checkTarget(ctx context.Context, target Target) error {
	switch t := target.(type) {
	case DBTarget:
		art, err := s.articleRepo.GetByID(ctx, t.ArticleID)
		if err != nil {
			return err
		}
		if art.Status != workflow.StatusPublished {
			return response.New(response.NotFound, "文章不存在")
		}
	case MDXTarget:
		if s.guides == nil || !s.guides.Exists(t.Slug) {
			return response.New(response.NotFound, "攻略不存在")
		}
	}
	return nil
}

// Remove 取消收藏，目标是否存在都返回成功
func (s *FavoriteService) Remove(ctx context.Context, sess *session.Session, target Target) error {
	if err := permission.RequireSession(sess); err != nil {
		return err
	}
	return s.repo.Remove(ctx, sess.UserID, target)
}

func (s *FavoriteService) List(ctx context.Context, sess *session.Session) ([]dto.FavoriteResponse, error) {
	if err := permission.RequireSession(sess); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, sess.UserID)
}
