package article

import (
	"context"
	"errors"
	"testing"

	"seichi/cms/internal/cache"
	"seichi/cms/internal/dto"
	"seichi/cms/internal/testutils"
	"seichi/cms/internal/workflow"
	"seichi/cms/packages/response"
	"seichi/cms/packages/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, inv cache.Invalidator) (*ArticleService, *gorm.DB, func()) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	refresher, runner := testutils.NewTestRefresher(inv)
	return NewArticleService(NewArticleRepository(db), refresher, zerolog.Nop()), db, runner.Wait
}

func TestSubmitArticle(t *testing.T) {
	tests := []struct {
		name       string
		status     workflow.Status
		asAuthor   bool
		noSession  bool
		wantCode   *response.ResponseCode
		wantStatus workflow.Status
	}{
		{name: "作者提交草稿", status: workflow.StatusDraft, asAuthor: true, wantStatus: workflow.StatusPending},
		{name: "非作者提交", status: workflow.StatusDraft, wantCode: codePtr(response.Forbidden), wantStatus: workflow.StatusDraft},
		{name: "未登录", status: workflow.StatusDraft, noSession: true, wantCode: codePtr(response.Unauthorized), wantStatus: workflow.StatusDraft},
		{name: "已在审核中", status: workflow.StatusPending, asAuthor: true, wantCode: codePtr(response.InvalidState), wantStatus: workflow.StatusPending},
		{name: "已发布", status: workflow.StatusPublished, asAuthor: true, wantCode: codePtr(response.InvalidState), wantStatus: workflow.StatusPublished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db, wait := newTestService(t, nil)
			author := testutils.CreateTestUser(db)
			other := testutils.CreateTestUser(db)
			art := testutils.CreateTestArticle(db, author.ID, testutils.WithStatus(tt.status))

			var sess *session.Session
			switch {
			case tt.noSession:
			case tt.asAuthor:
				sess = testutils.SessionOf(author)
			default:
				sess = testutils.SessionOf(other)
			}

			status, err := svc.SubmitArticle(context.Background(), sess, art.ID)
			wait()

			if tt.wantCode != nil {
				require.Error(t, err)
				assert.Equal(t, *tt.wantCode, response.CodeOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, status)
			}

			reloaded, err := svc.GetArticle(context.Background(), testutils.SessionOf(author), art.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, reloaded.Status)
			if tt.wantCode == nil {
				assert.NotNil(t, reloaded.SubmittedAt)
			}
		})
	}
}

func codePtr(c response.ResponseCode) *response.ResponseCode {
	return &c
}

func TestSubmitArticle_InvalidatesPublicPages(t *testing.T) {
	inv := &testutils.RecordingInvalidator{}
	svc, db, wait := newTestService(t, inv)
	author := testutils.CreateTestUser(db)
	art := testutils.CreateTestArticle(db, author.ID)

	_, err := svc.SubmitArticle(context.Background(), testutils.SessionOf(author), art.ID)
	require.NoError(t, err)
	wait()

	assert.ElementsMatch(t, []string{cache.ArticleListPath, cache.ArticlePath(art.ID)}, inv.Paths())
}

func TestSubmitArticle_InvalidationFailureDoesNotFail(t *testing.T) {
	inv := &testutils.RecordingInvalidator{Err: errors.New("redis: connection refused")}
	svc, db, wait := newTestService(t, inv)
	author := testutils.CreateTestUser(db)
	art := testutils.CreateTestArticle(db, author.ID)

	status, err := svc.SubmitArticle(context.Background(), testutils.SessionOf(author), art.ID)
	wait()

	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, status)
	assert.NotEmpty(t, inv.Paths())
}

func TestCreateArticle(t *testing.T) {
	svc, db, _ := newTestService(t, nil)
	author := testutils.CreateTestUser(db)
	testutils.CreateTestArticle(db, author.ID, testutils.WithSlug("washinomiya"), testutils.WithStatus(workflow.StatusPublished))

	t.Run("创建草稿", func(t *testing.T) {
		art, err := svc.CreateArticle(context.Background(), testutils.SessionOf(author), dto.CreateArticleRequest{
			Title: "鷲宮神社", Slug: "washinomiya-2", Body: "本文",
		})
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusDraft, art.Status)
		assert.Equal(t, author.ID, art.AuthorID)
	})

	t.Run("slug 已被已发布文章占用", func(t *testing.T) {
		_, err := svc.CreateArticle(context.Background(), testutils.SessionOf(author), dto.CreateArticleRequest{
			Title: "鷲宮", Slug: "washinomiya", Body: "本文",
		})
		assert.True(t, response.IsCode(err, response.InvalidState))
	})

	t.Run("slug 格式错误", func(t *testing.T) {
		_, err := svc.CreateArticle(context.Background(), testutils.SessionOf(author), dto.CreateArticleRequest{
			Title: "x", Slug: "Bad Slug", Body: "本文",
		})
		assert.True(t, response.IsCode(err, response.InvalidParameter))
	})

	t.Run("未登录", func(t *testing.T) {
		_, err := svc.CreateArticle(context.Background(), nil, dto.CreateArticleRequest{Title: "x", Slug: "x", Body: "x"})
		assert.True(t, response.IsCode(err, response.Unauthorized))
	})
}

func TestUpdateArticle(t *testing.T) {
	svc, db, _ := newTestService(t, nil)
	author := testutils.CreateTestUser(db)
	title := "新标题"

	t.Run("被驳回的文章修改后回到草稿", func(t *testing.T) {
		art := testutils.CreateTestArticle(db, author.ID, testutils.WithStatus(workflow.StatusRejected))
		updated, err := svc.UpdateArticle(context.Background(), testutils.SessionOf(author), art.ID, dto.UpdateArticleRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusDraft, updated.Status)
		assert.Equal(t, title, updated.Title)
	})

	t.Run("审核中不能修改", func(t *testing.T) {
		art := testutils.CreateTestArticle(db, author.ID, testutils.WithStatus(workflow.StatusPending))
		_, err := svc.UpdateArticle(context.Background(), testutils.SessionOf(author), art.ID, dto.UpdateArticleRequest{Title: &title})
		assert.True(t, response.IsCode(err, response.InvalidState))
	})

	t.Run("非作者不能修改", func(t *testing.T) {
		other := testutils.CreateTestUser(db, testutils.WithRole(session.RoleAdmin))
		art := testutils.CreateTestArticle(db, author.ID)
		_, err := svc.UpdateArticle(context.Background(), testutils.SessionOf(other), art.ID, dto.UpdateArticleRequest{Title: &title})
		assert.True(t, response.IsCode(err, response.Forbidden))
	})
}

func TestGetArticle_Visibility(t *testing.T) {
	svc, db, _ := newTestService(t, nil)
	author := testutils.CreateTestUser(db)
	admin := testutils.CreateTestUser(db, testutils.WithRole(session.RoleAdmin))
	stranger := testutils.CreateTestUser(db)

	draft := testutils.CreateTestArticle(db, author.ID)
	published := testutils.CreateTestArticle(db, author.ID, testutils.WithStatus(workflow.StatusPublished))

	tests := []struct {
		name    string
		sess    *session.Session
		id      uint
		visible bool
	}{
		{"匿名访问已发布", nil, published.ID, true},
		{"匿名访问草稿", nil, draft.ID, false},
		{"其他用户访问草稿", testutils.SessionOf(stranger), draft.ID, false},
		{"作者访问草稿", testutils.SessionOf(author), draft.ID, true},
		{"管理员访问草稿", testutils.SessionOf(admin), draft.ID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetArticle(context.Background(), tt.sess, tt.id)
			if tt.visible {
				assert.NoError(t, err)
			} else {
				assert.True(t, response.IsCode(err, response.NotFound))
			}
		})
	}
}

func TestDeleteArticle(t *testing.T) {
	svc, db, wait := newTestService(t, nil)
	author := testutils.CreateTestUser(db)
	admin := testutils.CreateTestUser(db, testutils.WithRole(session.RoleAdmin))
	stranger := testutils.CreateTestUser(db)

	t.Run("作者删除草稿", func(t *testing.T) {
		art := testutils.CreateTestArticle(db, author.ID)
		require.NoError(t, svc.DeleteArticle(context.Background(), testutils.SessionOf(author), art.ID))
		_, err := svc.GetArticle(context.Background(), testutils.SessionOf(author), art.ID)
		assert.True(t, response.IsCode(err, response.NotFound))
	})

	t.Run("作者不能删除已发布文章", func(t *testing.T) {
		art := testutils.CreateTestArticle(db, author.ID, testutils.WithStatus(workflow.StatusPublished))
		err := svc.DeleteArticle(context.Background(), testutils.SessionOf(author), art.ID)
		assert.True(t, response.IsCode(err, response.InvalidState))
	})

	t.Run("管理员删除已发布文章", func(t *testing.T) {
		art := testutils.CreateTestArticle(db, author.ID, testutils.WithStatus(workflow.StatusPublished))
		require.NoError(t, svc.DeleteArticle(context.Background(), testutils.SessionOf(admin), art.ID))
		wait()
	})

	t.Run("其他用户删除", func(t *testing.T) {
		art := testutils.CreateTestArticle(db, author.ID)
		err := svc.DeleteArticle(context.Background(), testutils.SessionOf(stranger), art.ID)
		assert.True(t, response.IsCode(err, response.Forbidden))
	})
}

func TestListPublished_NewestFirst(t *testing.T) {
	svc, db, _ := newTestService(t, nil)
	author := testutils.CreateTestUser(db)
	first := testutils.CreateTestArticle(db, author.ID, testutils.WithStatus(workflow.StatusPublished))
	second := testutils.CreateTestArticle(db, author.ID, testutils.WithStatus(workflow.StatusPublished))
	testutils.CreateTestArticle(db, author.ID)

	page, err := svc.ListPublished(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.ID, page.Items[0].ID)
	assert.Equal(t, first.ID, page.Items[1].ID)
}
