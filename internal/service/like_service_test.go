package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/domain"
)

func TestLikes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	pam := env.reader(t, "pam")
	blog := env.blog(t, john, "Likeable post")

	_, err := env.likes.Likers(ctx, pam, blog.ID)
	assertKind(t, err, domain.KindNotFound)

	_, err = env.likes.LikedBlogs(ctx, pam)
	assertKind(t, err, domain.KindNotFound)

	like, err := env.likes.Add(ctx, pam, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, pam.ID, like.UserID)

	_, err = env.likes.Add(ctx, pam, blog.ID)
	de := assertKind(t, err, domain.KindConflict)
	assert.Equal(t, "already liked", de.Message)

	_, err = env.likes.Add(ctx, pam, 9999)
	assertKind(t, err, domain.KindNotFound)

	count, err := env.likes.Count(ctx, john, blog.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	likers, err := env.likes.Likers(ctx, john, blog.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, domain.UserRef{ID: pam.ID, Username: "pam"}, *likers[0])

	liked, err := env.likes.LikedBlogs(ctx, pam)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, blog.ID, liked[0].ID)

	// Removing someone else's like is impossible: removal is scoped to the actor.
	err = env.likes.Remove(ctx, john, blog.ID)
	assertKind(t, err, domain.KindNotFound)

	require.NoError(t, env.likes.Remove(ctx, pam, blog.ID))

	err = env.likes.Remove(ctx, pam, blog.ID)
	de = assertKind(t, err, domain.KindNotFound)
	assert.Equal(t, "like not found", de.Message)

	count, err = env.likes.Count(ctx, john, blog.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = env.likes.Count(ctx, john, 9999)
	assertKind(t, err, domain.KindNotFound)
}
