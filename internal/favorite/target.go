// Package favorite 收藏：数据库文章与文件型攻略两种来源共用一套接口
package favorite

import (
	"strings"

	"seichi/cms/internal/dto"
	"seichi/cms/packages/response"
)

const (
	SourceDB  = "db"
	SourceMDX = "mdx"
)

// Target 收藏目标，只有 DBTarget 和 MDXTarget 两种
type Target interface {
	Source() string
	isTarget()
}

// DBTarget 数据库中的文章
type DBTarget struct {
	ArticleID uint
}

func (DBTarget) Source() string { return SourceDB }
func (DBTarget) isTarget() {}

// MDXTarget 内容目录中的攻略
type MDXTarget struct {
	Slug string
}

func (MDXTarget) Source() string { return SourceMDX }
func (MDXTarget) isTarget() {}

// ParseTarget 把请求体转换成收藏目标
func ParseTarget(req dto.AddFavoriteRequest) (Target, error) {
	switch req.Source {
	case SourceDB:
		if req.ArticleID == 0 {
			return nil, response.New(response.InvalidParameter, "source 为 db 时 articleId 必填")
		}
		return DBTarget{ArticleID: req.ArticleID}, nil
	case SourceMDX:
		slug := strings.TrimSpace(req.Slug)
		if slug == "" {
			return nil, response.New(response.InvalidParameter, "source 为 mdx 时 slug 必填")
		}
		return MDXTarget{Slug: slug}, nil
	default:
		return nil, response.New(response.InvalidParameter, "未知的收藏来源: "+req.Source)
	}
}
