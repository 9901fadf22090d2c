package testutils

import (
	"fmt"
	"time"

	"seichi/cms/internal/model/article"
	"seichi/cms/internal/model/user"
	"seichi/cms/internal/workflow"
	"seichi/cms/packages/session"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTestUser creates a test user with unique username/email
func CreateTestUser(db *gorm.DB, opts ...UserOption) *user.User {
	uniqueID := uuid.New().String()

	testUser := &user.User{
		Username:  fmt.Sprintf("test_user_%s", uniqueID),
		Email:     fmt.Sprintf("test_%s@example.com", uniqueID),
		Role:      "user",
		CreatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}

	return testUser
}

// UserOption configures test user
type UserOption func(*user.User)

// WithEmail sets the email
func WithEmail(email string) UserOption {
	return func(u *user.User) {
		u.Email = email
	}
}

// WithRole sets the role
func WithRole(role string) UserOption {
	return func(u *user.User) {
		u.Role = role
	}
}

// SessionOf 用户对应的会话
func SessionOf(u *user.User) *session.Session {
	return &session.Session{UserID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// CreateTestArticle creates a test article
func CreateTestArticle(db *gorm.DB, authorID uint, opts ...ArticleOption) *article.Article {
	uniqueID := uuid.New().String()

	testArticle := &article.Article{
		Title:    fmt.Sprintf("Test Article %s", uniqueID),
		Slug:     "test-" + uniqueID,
		Body:     "line one\nline two\nline three\n",
		AuthorID: authorID,
		Status:   workflow.StatusDraft,
	}

	for _, opt := range opts {
		opt(testArticle)
	}

	if err := db.Create(testArticle).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test article: %v", err))
	}

	return testArticle
}

// ArticleOption configures test article
type ArticleOption func(*article.Article)

// WithStatus sets the article status; published articles get a publish time
func WithStatus(status workflow.Status) ArticleOption {
	return func(a *article.Article) {
		a.Status = status
		now := time.Now()
		switch status {
		case workflow.StatusPending:
			a.SubmittedAt = &now
		case workflow.StatusPublished:
			a.PublishedAt = &now
		}
	}
}

// WithSlug sets the slug
func WithSlug(slug string) ArticleOption {
	return func(a *article.Article) {
		a.Slug = slug
	}
}

// WithBody sets the body
func WithBody(body string) ArticleOption {
	return func(a *article.Article) {
		a.Body = body
	}
}

// WithSubmittedAt sets the submission time
func WithSubmittedAt(at time.Time) ArticleOption {
	return func(a *article.Article) {
		a.SubmittedAt = &at
	}
}

// CreateTestRevision creates a revision against the article's current body
func CreateTestRevision(db *gorm.DB, art *article.Article, authorID uint, opts ...RevisionOption) *article.Revision {
	testRevision := &article.Revision{
		ArticleID:    art.ID,
		AuthorID:     authorID,
		BaseBody:     art.Body,
		ProposedBody: art.Body + "added line\n",
		Summary:      "test revision",
		Status:       workflow.StatusDraft,
	}

	for _, opt := range opts {
		opt(testRevision)
	}

	if err := db.Create(testRevision).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test revision: %v", err))
	}

	return testRevision
}

// RevisionOption configures test revision
type RevisionOption func(*article.Revision)

// WithRevisionStatus sets the revision status
func WithRevisionStatus(status workflow.Status) RevisionOption {
	return func(r *article.Revision) {
		r.Status = status
		if status == workflow.StatusPending {
			now := time.Now()
			r.SubmittedAt = &now
		}
	}
}

// WithProposedBody sets the proposed body
func WithProposedBody(body string) RevisionOption {
	return func(r *article.Revision) {
		r.ProposedBody = body
	}
}
