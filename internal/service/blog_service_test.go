package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
)

func TestBlogCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	reader := env.reader(t, "pam")

	blog := env.blog(t, john, "A first post")
	assert.Equal(t, domain.BlogStatusDraft, blog.Status)
	assert.Equal(t, domain.UserRef{ID: john.ID, Username: "john"}, blog.Owner)

	_, err := env.blogs.Create(ctx, reader, domain.CreateBlogInput{Title: "Not allowed", Content: "content that is long enough to pass"})
	assertForbidden(t, err, string(authz.ReasonRoleRequired))
}

func TestBlogPartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	pam := env.register(t, "pam")
	admin := env.register(t, "root", authz.RoleAdmin)
	blog := env.blog(t, john, "Original title")

	updated, err := env.blogs.Update(ctx, john, blog.ID, domain.UpdateBlogInput{Title: ptr("Changed title")})
	require.NoError(t, err)
	updated, err = env.blogs.Update(ctx, john, blog.ID, domain.UpdateBlogInput{})
	require.NoError(t, err)

	got, err := env.blogs.Get(ctx, pam, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed title", got.Title)
	assert.Equal(t, blog.Content, got.Content)
	assert.Equal(t, blog.Status, got.Status)
	assert.Equal(t, updated.Title, got.Title)

	_, err = env.blogs.Update(ctx, pam, blog.ID, domain.UpdateBlogInput{Title: ptr("Hijacked title")})
	assertForbidden(t, err, string(authz.ReasonNotOwner))

	published := domain.BlogStatusPublished
	got, err = env.blogs.Update(ctx, admin, blog.ID, domain.UpdateBlogInput{Status: &published})
	require.NoError(t, err)
	assert.Equal(t, domain.BlogStatusPublished, got.Status)
	assert.Equal(t, john.ID, got.Owner.ID)

	_, err = env.blogs.Update(ctx, john, blog.ID, domain.UpdateBlogInput{Content: ptr("too short")})
	assertKind(t, err, domain.KindValidation)

	_, err = env.blogs.Update(ctx, john, 9999, domain.UpdateBlogInput{Title: ptr("Whatever title")})
	assertKind(t, err, domain.KindNotFound)
}

func TestBlogQueries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	pam := env.register(t, "pam")
	env.blog(t, john, "Draft number one")

	_, err := env.blogs.ListByStatus(ctx, pam, domain.BlogStatusPublished)
	assertKind(t, err, domain.KindNotFound)

	drafts, err := env.blogs.ListByStatus(ctx, pam, domain.BlogStatusDraft)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	_, err = env.blogs.ListByStatus(ctx, pam, "archived")
	assertKind(t, err, domain.KindValidation)

	mine, err := env.blogs.ListByUser(ctx, pam, john.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = env.blogs.ListByUser(ctx, john, pam.ID)
	assertKind(t, err, domain.KindNotFound)

	_, err = env.blogs.Get(ctx, john, 9999)
	assertKind(t, err, domain.KindNotFound)
}

func TestBlogDeleteHierarchy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.register(t, "author")
	reader := env.reader(t, "reader")
	admin := env.register(t, "admin", authz.RoleAdmin)
	otherAdmin := env.register(t, "admin2", authz.RoleAdmin)
	super := env.register(t, "super", authz.RoleSuperAdmin)

	t.Run("owner deletes own blog", func(t *testing.T) {
		blog := env.blog(t, author, "Author owned post")
		require.NoError(t, env.blogs.Delete(ctx, author, blog.ID))
	})

	t.Run("other non-admin is not the owner", func(t *testing.T) {
		blog := env.blog(t, author, "Author owned post")
		err := env.blogs.Delete(ctx, reader, blog.ID)
		assertForbidden(t, err, string(authz.ReasonNotOwner))
	})

	t.Run("admin author cannot delete own blog", func(t *testing.T) {
		blog := env.blog(t, admin, "Admin owned post")
		err := env.blogs.Delete(ctx, admin, blog.ID)
		assertForbidden(t, err, string(authz.ReasonHierarchy))

		require.NoError(t, env.blogs.Delete(ctx, otherAdmin, blog.ID))
	})

	t.Run("super admin deletes any blog including their own", func(t *testing.T) {
		own := env.blog(t, super, "Super owned post")
		require.NoError(t, env.blogs.Delete(ctx, super, own.ID))

		adminBlog := env.blog(t, admin, "Another admin post")
		require.NoError(t, env.blogs.Delete(ctx, super, adminBlog.ID))
	})

	t.Run("missing blog", func(t *testing.T) {
		err := env.blogs.Delete(ctx, super, 9999)
		assertKind(t, err, domain.KindNotFound)
	})
}

func TestBlogDeleteRemovesMediaFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	blog := env.blog(t, john, "Post with a picture")

	media, err := env.media.Upload(ctx, john, domain.UploadMediaInput{BlogID: blog.ID, Filename: "cat.png", Content: strings.NewReader("png")})
	require.NoError(t, err)
	require.True(t, env.files.has(media.URL))

	require.NoError(t, env.blogs.Delete(ctx, john, blog.ID))
	assert.False(t, env.files.has(media.URL))

	_, err = env.media.Get(ctx, john, media.ID)
	assertKind(t, err, domain.KindNotFound)
}
