package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
	"blogapi/pkg/validator"
)

// longURLFiles saves files under a url that cannot be stored.
type longURLFiles struct {
	*memoryFiles
}

func (l longURLFiles) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	return l.memoryFiles.Save(ctx, strings.Repeat("d/", 130)+name, content)
}

func TestMediaUpload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	pam := env.register(t, "pam")
	admin := env.register(t, "root", authz.RoleAdmin)
	blog := env.blog(t, john, "Post with media")

	_, err := env.media.Upload(ctx, pam, domain.UploadMediaInput{BlogID: blog.ID, Filename: "cat.png", Content: strings.NewReader("png")})
	assertForbidden(t, err, string(authz.ReasonNotOwner))

	_, err = env.media.Upload(ctx, admin, domain.UploadMediaInput{BlogID: blog.ID, Filename: "cat.png", Content: strings.NewReader("png")})
	assertForbidden(t, err, string(authz.ReasonNotOwner))

	_, err = env.media.Upload(ctx, john, domain.UploadMediaInput{BlogID: blog.ID, Filename: "notes.txt", Content: strings.NewReader("txt")})
	de := assertKind(t, err, domain.KindValidation)
	assert.Contains(t, de.Fields, "file")

	_, err = env.media.Upload(ctx, john, domain.UploadMediaInput{BlogID: 9999, Filename: "cat.png", Content: strings.NewReader("png")})
	assertKind(t, err, domain.KindNotFound)
	assert.Zero(t, env.files.count())

	_, err = env.media.ListByBlog(ctx, pam, blog.ID)
	assertKind(t, err, domain.KindNotFound)

	video, err := env.media.Upload(ctx, john, domain.UploadMediaInput{BlogID: blog.ID, Filename: "Clip.MP4", Content: strings.NewReader("mp4")})
	require.NoError(t, err)
	assert.Equal(t, domain.MediaTypeVideo, video.Type)
	assert.Equal(t, blog.ID, video.BlogID)
	assert.True(t, strings.HasSuffix(video.URL, ".mp4"))
	assert.True(t, env.files.has(video.URL))

	list, err := env.media.ListByBlog(ctx, pam, blog.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := env.media.Get(ctx, pam, video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.URL, got.URL)
}

func TestMediaUploadRemovesFileOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	blog := env.blog(t, john, "Post with media")

	files := longURLFiles{env.files}
	svc := NewMediaService(env.store, authz.NewEngine(authz.DefaultPolicy()), validator.New(), files, logger.NewNop())

	_, err := svc.Upload(ctx, john, domain.UploadMediaInput{BlogID: blog.ID, Filename: "cat.png", Content: strings.NewReader("png")})
	assertKind(t, err, domain.KindValidation)
	assert.Zero(t, env.files.count(), "the stored file is removed again")
}

func TestMediaDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	john := env.register(t, "john")
	pam := env.register(t, "pam")
	admin := env.register(t, "root", authz.RoleAdmin)
	blog := env.blog(t, john, "Post with media")

	upload := func() *domain.Media {
		m, err := env.media.Upload(ctx, john, domain.UploadMediaInput{BlogID: blog.ID, Filename: "song.mp3", Content: strings.NewReader("mp3")})
		require.NoError(t, err)
		assert.Equal(t, domain.MediaTypeAudio, m.Type)
		return m
	}

	first := upload()
	err := env.media.Delete(ctx, pam, first.ID)
	assertForbidden(t, err, string(authz.ReasonNotOwner))
	assert.True(t, env.files.has(first.URL))

	require.NoError(t, env.media.Delete(ctx, john, first.ID))
	assert.False(t, env.files.has(first.URL))

	second := upload()
	require.NoError(t, env.media.Delete(ctx, admin, second.ID))
	assert.False(t, env.files.has(second.URL))

	err = env.media.Delete(ctx, admin, second.ID)
	assertKind(t, err, domain.KindNotFound)
}
