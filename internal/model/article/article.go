// Package article 文章与修正案模型
package article

import (
	"time"

	"seichi/cms/internal/workflow"
)

// Article 文章表
// 同一 slug 只能被一篇已发布文章占用（见 model.InitTable 中的部分唯一索引）
type Article struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Title    string          `gorm:"type:varchar(255);not null" json:"title"`
	Slug     string          `gorm:"type:varchar(255);not null;index" json:"slug"`
	Body     string          `gorm:"type:text;not null" json:"body"`
	Excerpt  string          `gorm:"type:varchar(500)" json:"excerpt"`
	Anime    string          `gorm:"type:varchar(255);index" json:"anime"`
	Location string          `gorm:"type:varchar(255)" json:"location"`
	AuthorID uint            `gorm:"not null;index" json:"author_id"`
	Status   workflow.Status `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	// 管理员退回或驳回时附带的意见
	Feedback    string     `gorm:"type:text" json:"feedback,omitempty"`
	SubmittedAt *time.Time `gorm:"index" json:"submitted_at,omitempty"`
	ReviewedBy  *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Article) TableName() string {
	return "articles"
}

// Revision 修正案：针对已发布文章的正文修改，独立审核
// 每篇文章同一时刻最多一个 pending 修正案
type Revision struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ArticleID uint `gorm:"not null;index" json:"article_id"`
	AuthorID  uint `gorm:"not null;index" json:"author_id"`
	// 创建修正案时文章的正文，作为三路合并的 base
	BaseBody     string          `gorm:"type:text;not null" json:"base_body"`
	ProposedBody string          `gorm:"type:text;not null" json:"proposed_body"`
	Summary      string          `gorm:"type:varchar(255)" json:"summary"`
	Status       workflow.Status `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Feedback     string          `gorm:"type:text" json:"feedback,omitempty"`
	SubmittedAt  *time.Time      `gorm:"index" json:"submitted_at,omitempty"`
	ReviewedBy   *uint           `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Revision) TableName() string {
	return "revisions"
}
