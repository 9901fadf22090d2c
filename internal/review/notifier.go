package review

import (
	"context"
	"fmt"

	"seichi/cms/internal/model/user"
	"seichi/cms/internal/workflow"
	"seichi/cms/packages/email"

	"gorm.io/gorm"
)

// Outcome 一次审核的结果，用于通知作者
type Outcome struct {
	Kind      string // article / revision
	TargetID  uint
	ArticleID uint
	Title     string
	AuthorID  uint
	Status    workflow.Status
	Feedback  string
}

// Notifier 审核结果通知，失败不影响审核本身
type Notifier interface {
	Notify(ctx context.Context, o Outcome) error
}

// EmailNotifier 通过邮件通知作者
type EmailNotifier struct {
	db        *gorm.DB
	client    *email.Client
	publicURL string
}

func NewEmailNotifier(db *gorm.DB, client *email.Client, publicURL string) *EmailNotifier {
	return &EmailNotifier{db: db, client: client, publicURL: publicURL}
}

func (n *EmailNotifier) Notify(ctx context.Context, o Outcome) error {
	if n.client == nil || !n.client.Enabled() {
		return nil
	}

	var author user.User
	if err := n.db.WithContext(ctx).First(&author, o.AuthorID).Error; err != nil {
		return fmt.Errorf("查询作者失败: %w", err)
	}
	if author.Email == "" {
		return nil
	}

	return n.client.SendReviewResult(ctx, author.Email, n.render(o, author.Username))
}

func (n *EmailNotifier) render(o Outcome, username string) email.ReviewResultData {
	data := email.ReviewResultData{
		Username: username,
		Title:    o.Title,
		Kind:     "記事",
		Feedback: o.Feedback,
	}
	if o.Kind == KindRevision {
		data.Kind = "修正案"
	}
	if n.publicURL != "" {
		data.Link = fmt.Sprintf("%s/articles/%d", n.publicURL, o.ArticleID)
	}

	switch o.Status {
	case workflow.StatusPublished, workflow.StatusApproved:
		data.Headline = "審査に合格しました"
		data.Decision = "承認"
		data.Color = "#4CAF50"
	case workflow.StatusRejected:
		data.Headline = "審査の結果をお知らせします"
		data.Decision = "却下"
		data.Color = "#F44336"
	default:
		data.Headline = "修正のお願い"
		data.Decision = "差し戻し"
		data.Color = "#FF9800"
	}
	return data
}
