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

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	pam := env.reader(t, "pam")
	admin := env.register(t, "root", authz.RoleAdmin)
	blog := env.blog(t, john, "Discussed post")

	empty, err := env.comments.ListByBlog(ctx, pam, blog.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	comment, err := env.comments.Create(ctx, pam, blog.ID, domain.CommentInput{Content: "Great read"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserRef{ID: pam.ID, Username: "pam"}, comment.Author)

	_, err = env.comments.Create(ctx, pam, 9999, domain.CommentInput{Content: "Lost"})
	assertKind(t, err, domain.KindNotFound)

	_, err = env.comments.Create(ctx, pam, blog.ID, domain.CommentInput{Content: strings.Repeat("x", 501)})
	assertKind(t, err, domain.KindValidation)

	_, err = env.comments.ListByBlog(ctx, pam, 9999)
	assertKind(t, err, domain.KindNotFound)

	t.Run("update is owner or admin", func(t *testing.T) {
		_, err := env.comments.Update(ctx, john, comment.ID, domain.CommentInput{Content: "edited by blog owner"})
		assertForbidden(t, err, string(authz.ReasonNotOwner))

		updated, err := env.comments.Update(ctx, admin, comment.ID, domain.CommentInput{Content: "moderated"})
		require.NoError(t, err)
		assert.Equal(t, "moderated", updated.Content)
	})

	t.Run("delete is author only", func(t *testing.T) {
		err := env.comments.Delete(ctx, admin, comment.ID)
		assertForbidden(t, err, string(authz.ReasonNotOwner))

		err = env.comments.Delete(ctx, john, comment.ID)
		assertForbidden(t, err, string(authz.ReasonNotOwner))

		require.NoError(t, env.comments.Delete(ctx, pam, comment.ID))

		err = env.comments.Delete(ctx, pam, comment.ID)
		assertKind(t, err, domain.KindNotFound)
	})
}
