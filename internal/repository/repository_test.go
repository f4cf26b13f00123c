package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/domain"
	pkgdb "blogapi/pkg/database"
	"blogapi/pkg/logger"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()

	cm, err := pkgdb.NewConnectionManager(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "blog.db"),
	}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { cm.Close() })

	require.NoError(t, database.NewMigrationService(cm.GetDB(), cm.Dialect(), logger.NewNop()).RunMigrations(context.Background()))

	return NewStore(cm.GetDB(), logger.NewNop())
}

func TestRepositoriesSQLite(t *testing.T) {
	runRepositorySuite(t, newSQLiteStore)
}

// runRepositorySuite exercises every repository through the transactional
// store. newStore must return a freshly migrated store.
func runRepositorySuite(t *testing.T, newStore func(t *testing.T) *Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("roles", func(t *testing.T) { testRoles(t, newStore(t)) })
	t.Run("blogs", func(t *testing.T) { testBlogs(t, newStore(t)) })
	t.Run("categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("comments", func(t *testing.T) { testComments(t, newStore(t)) })
	t.Run("likes", func(t *testing.T) { testLikes(t, newStore(t)) })
	t.Run("media", func(t *testing.T) { testMedia(t, newStore(t)) })
	t.Run("audit logs", func(t *testing.T) { testAuditLogs(t, newStore(t)) })
	t.Run("rollback", func(t *testing.T) { testRollback(t, newStore(t)) })
	t.Run("cascades", func(t *testing.T) { testCascades(t, newStore(t)) })
}

func within(t *testing.T, store *Store, fn func(ctx context.Context, tx domain.Tx)) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.WithinTx(ctx, func(tx domain.Tx) error {
		fn(ctx, tx)
		return nil
	}))
}

func seedUser(t *testing.T, ctx context.Context, tx domain.Tx, name string) *domain.User {
	t.Helper()
	user := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	require.NoError(t, tx.Users().Create(ctx, user))
	return user
}

func seedBlog(t *testing.T, ctx context.Context, tx domain.Tx, owner *domain.User, title string, status domain.BlogStatus) *domain.Blog {
	t.Helper()
	blog := &domain.Blog{Title: title, Content: "some sufficiently long content", Status: status, OwnerID: owner.ID}
	require.NoError(t, tx.Blogs().Create(ctx, blog))
	return blog
}

func testUsers(t *testing.T, store *Store) {
	within(t, store, func(ctx context.Context, tx domain.Tx) {
		john := seedUser(t, ctx, tx, "john")
		assert.NotZero(t, john.ID)
		assert.False(t, john.CreatedAt.IsZero())

		found, err := tx.Users().FindByEmail(ctx, "john@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, john.ID, found.ID)
		assert.Equal(t, "hash", found.PasswordHash)

		missing, err := tx.Users().FindByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, missing)

		found.Username = "johnny"
		require.NoError(t, tx.Users().Update(ctx, found))
		renamed, err := tx.Users().FindByID(ctx, john.ID)
		require.NoError(t, err)
		assert.Equal(t, "johnny", renamed.Username)

		users, err := tx.Users().List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	err := store.WithinTx(context.Background(), func(tx domain.Tx) error {
		return tx.Users().Create(context.Background(), &domain.User{Username: "other", Email: "john@example.com", PasswordHash: "x"})
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func testRoles(t *testing.T, store *Store) {
	within(t, store, func(ctx context.Context, tx domain.Tx) {
		roles, err := tx.Roles().List(ctx)
		require.NoError(t, err)
		assert.Len(t, roles, len(domain.BootstrapRoles))

		author, err := tx.Roles().FindByName(ctx, "Author")
		require.NoError(t, err)
		require.NotNil(t, author)

		pam := seedUser(t, ctx, tx, "pam")
		require.NoError(t, tx.Roles().Assign(ctx, pam.ID, author.ID))

		held, err := tx.Roles().ListByUser(ctx, pam.ID)
		require.NoError(t, err)
		require.Len(t, held, 1)
		assert.Equal(t, "Author", held[0].Name)

		removed, err := tx.Roles().Revoke(ctx, pam.ID, author.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = tx.Roles().Revoke(ctx, pam.ID, author.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		editor := &domain.Role{Name: "Editor"}
		require.NoError(t, tx.Roles().Create(ctx, editor))
		editor.Name = "Chief Editor"
		require.NoError(t, tx.Roles().Update(ctx, editor))
		found, err := tx.Roles().FindByID(ctx, editor.ID)
		require.NoError(t, err)
		assert.Equal(t, "Chief Editor", found.Name)
		require.NoError(t, tx.Roles().Delete(ctx, editor.ID))
	})

	err := store.WithinTx(context.Background(), func(tx domain.Tx) error {
		ctx := context.Background()
		user := &domain.User{Username: "dup", Email: "dup@example.com", PasswordHash: "x"}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		reader, err := tx.Roles().FindByName(ctx, "Reader")
		if err != nil {
			return err
		}
		if err := tx.Roles().Assign(ctx, user.ID, reader.ID); err != nil {
			return err
		}
		return tx.Roles().Assign(ctx, user.ID, reader.ID)
	})
	assert.True(t, errors.Is(err, domain.ErrDuplicate), "a (user, role) pair is stored once")
}

func testBlogs(t *testing.T, store *Store) {
	within(t, store, func(ctx context.Context, tx domain.Tx) {
		john := seedUser(t, ctx, tx, "john")
		draft := seedBlog(t, ctx, tx, john, "First draft", domain.BlogStatusDraft)
		seedBlog(t, ctx, tx, john, "Published post", domain.BlogStatusPublished)

		found, err := tx.Blogs().FindByID(ctx, draft.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, domain.UserRef{ID: john.ID, Username: "john"}, found.Owner)
		assert.Equal(t, domain.BlogStatusDraft, found.Status)

		published, err := tx.Blogs().FindByStatus(ctx, domain.BlogStatusPublished)
		require.NoError(t, err)
		require.Len(t, published, 1)
		assert.Equal(t, "Published post", published[0].Title)

		owned, err := tx.Blogs().FindByOwner(ctx, john.ID)
		require.NoError(t, err)
		assert.Len(t, owned, 2)

		none, err := tx.Blogs().FindByOwner(ctx, john.ID+100)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)

		found.Status = domain.BlogStatusPublished
		require.NoError(t, tx.Blogs().Update(ctx, found))
		updated, err := tx.Blogs().FindByID(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BlogStatusPublished, updated.Status)
		assert.Equal(t, john.ID, updated.OwnerID)

		missing, err := tx.Blogs().FindByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func testCategories(t *testing.T, store *Store) {
	within(t, store, func(ctx context.Context, tx domain.Tx) {
		john := seedUser(t, ctx, tx, "john")
		blog := seedBlog(t, ctx, tx, john, "Go in practice", domain.BlogStatusDraft)

		tech := &domain.Category{Name: "tech"}
		require.NoError(t, tx.Categories().Create(ctx, tech))

		require.NoError(t, tx.Categories().AttachBlog(ctx, tech.ID, blog.ID))
		require.NoError(t, tx.Categories().AttachBlog(ctx, tech.ID, blog.ID))

		blogs, err := tx.Categories().ListBlogs(ctx, tech.ID)
		require.NoError(t, err)
		require.Len(t, blogs, 1)
		assert.Equal(t, domain.BlogSummary{ID: blog.ID, Title: "Go in practice", Status: domain.BlogStatusDraft}, *blogs[0])

		require.NoError(t, tx.Categories().DetachBlog(ctx, tech.ID, blog.ID))
		require.NoError(t, tx.Categories().DetachBlog(ctx, tech.ID, blog.ID))
		blogs, err = tx.Categories().ListBlogs(ctx, tech.ID)
		require.NoError(t, err)
		assert.Empty(t, blogs)

		byName, err := tx.Categories().FindByName(ctx, "tech")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, tech.ID, byName.ID)

		all, err := tx.Categories().List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func testComments(t *testing.T, store *Store) {
	within(t, store, func(ctx context.Context, tx domain.Tx) {
		john := seedUser(t, ctx, tx, "john")
		pam := seedUser(t, ctx, tx, "pam")
		blog := seedBlog(t, ctx, tx, john, "Commented post", domain.BlogStatusPublished)

		comment := &domain.Comment{Content: "nice", AuthorID: pam.ID, BlogID: blog.ID}
		require.NoError(t, tx.Comments().Create(ctx, comment))

		found, err := tx.Comments().FindByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.UserRef{ID: pam.ID, Username: "pam"}, found.Author)

		found.Content = "very nice"
		require.NoError(t, tx.Comments().Update(ctx, found))

		list, err := tx.Comments().FindByBlog(ctx, blog.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "very nice", list[0].Content)

		require.NoError(t, tx.Comments().Delete(ctx, comment.ID))
		gone, err := tx.Comments().FindByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func testLikes(t *testing.T, store *Store) {
	within(t, store, func(ctx context.Context, tx domain.Tx) {
		john := seedUser(t, ctx, tx, "john")
		pam := seedUser(t, ctx, tx, "pam")
		blog := seedBlog(t, ctx, tx, john, "Liked post", domain.BlogStatusPublished)

		require.NoError(t, tx.Likes().Create(ctx, &domain.Like{UserID: pam.ID, BlogID: blog.ID}))

		exists, err := tx.Likes().Exists(ctx, pam.ID, blog.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		count, err := tx.Likes().CountByBlog(ctx, blog.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		likers, err := tx.Likes().ListLikers(ctx, blog.ID)
		require.NoError(t, err)
		require.Len(t, likers, 1)
		assert.Equal(t, "pam", likers[0].Username)

		liked, err := tx.Likes().ListLikedBlogs(ctx, pam.ID)
		require.NoError(t, err)
		require.Len(t, liked, 1)
		assert.Equal(t, blog.ID, liked[0].ID)
		assert.Equal(t, "john", liked[0].Owner.Username)

		removed, err := tx.Likes().Delete(ctx, pam.ID, blog.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = tx.Likes().Delete(ctx, pam.ID, blog.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func testMedia(t *testing.T, store *Store) {
	within(t, store, func(ctx context.Context, tx domain.Tx) {
		john := seedUser(t, ctx, tx, "john")
		blog := seedBlog(t, ctx, tx, john, "Post with media", domain.BlogStatusDraft)

		media := &domain.Media{URL: "/uploads/a.png", Type: domain.MediaTypeImage, BlogID: blog.ID}
		require.NoError(t, tx.Media().Create(ctx, media))

		found, err := tx.Media().FindByID(ctx, media.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, domain.MediaTypeImage, found.Type)
		assert.Equal(t, blog.ID, found.BlogID)

		list, err := tx.Media().FindByBlog(ctx, blog.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, tx.Media().Delete(ctx, media.ID))
		gone, err := tx.Media().FindByID(ctx, media.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func testAuditLogs(t *testing.T, store *Store) {
	within(t, store, func(ctx context.Context, tx domain.Tx) {
		for i := 0; i < 3; i++ {
			require.NoError(t, tx.AuditLogs().Create(ctx, &domain.AuditLog{
				EntityType: domain.EntityTypeBlog,
				EntityID:   7,
				Action:     domain.ActionTypeUpdate,
				ActorID:    1,
				Details:    "edit",
			}))
		}
		require.NoError(t, tx.AuditLogs().Create(ctx, &domain.AuditLog{
			EntityType: domain.EntityTypeUser,
			EntityID:   1,
			Action:     domain.ActionTypeCreate,
			ActorID:    1,
		}))

		logs, err := tx.AuditLogs().FindByEntityID(ctx, domain.EntityTypeBlog, 7)
		require.NoError(t, err)
		assert.Len(t, logs, 3)

		page, err := tx.AuditLogs().FindAll(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := tx.AuditLogs().FindAll(ctx, 2, 2)
		require.NoError(t, err)
		assert.Len(t, rest, 2)
	})
}

func testRollback(t *testing.T, store *Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := tx.Users().Create(ctx, &domain.User{Username: "ghost", Email: "ghost@example.com", PasswordHash: "x"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = store.WithinTx(ctx, func(tx domain.Tx) error {
			if err := tx.Users().Create(ctx, &domain.User{Username: "phantom", Email: "phantom@example.com", PasswordHash: "x"}); err != nil {
				return err
			}
			panic("boom")
		})
	})

	within(t, store, func(ctx context.Context, tx domain.Tx) {
		users, err := tx.Users().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func testCascades(t *testing.T, store *Store) {
	ctx := context.Background()
	var john *domain.User
	var blog *domain.Blog

	within(t, store, func(ctx context.Context, tx domain.Tx) {
		john = seedUser(t, ctx, tx, "john")
		blog = seedBlog(t, ctx, tx, john, "Doomed post", domain.BlogStatusDraft)
		category := &domain.Category{Name: "misc"}
		require.NoError(t, tx.Categories().Create(ctx, category))
		require.NoError(t, tx.Categories().AttachBlog(ctx, category.ID, blog.ID))
		require.NoError(t, tx.Media().Create(ctx, &domain.Media{URL: "/uploads/x.mp4", Type: domain.MediaTypeVideo, BlogID: blog.ID}))
		require.NoError(t, tx.Comments().Create(ctx, &domain.Comment{Content: "hi", AuthorID: john.ID, BlogID: blog.ID}))
		require.NoError(t, tx.Likes().Create(ctx, &domain.Like{UserID: john.ID, BlogID: blog.ID}))
	})

	err := store.WithinTx(ctx, func(tx domain.Tx) error {
		return tx.Users().Delete(ctx, john.ID)
	})
	assert.True(t, errors.Is(err, domain.ErrReferenced), "a user owning content cannot be deleted")

	within(t, store, func(ctx context.Context, tx domain.Tx) {
		require.NoError(t, tx.Blogs().Delete(ctx, blog.ID))

		media, err := tx.Media().FindByBlog(ctx, blog.ID)
		require.NoError(t, err)
		assert.Empty(t, media)

		comments, err := tx.Comments().FindByBlog(ctx, blog.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)

		count, err := tx.Likes().CountByBlog(ctx, blog.ID)
		require.NoError(t, err)
		assert.Zero(t, count)

		require.NoError(t, tx.Users().Delete(ctx, john.ID))
	})
}

func TestDBTXSatisfiedByDriverTypes(t *testing.T) {
	var _ DBTX = (*sql.DB)(nil)
	var _ DBTX = (*sql.Tx)(nil)
}
