package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type BlogRepository struct {
	db     DBTX
	logger logger.Logger
}

func NewBlogRepository(db DBTX, logger logger.Logger) domain.BlogRepository {
	return &BlogRepository{
		db:     db,
		logger: logger,
	}
}

const blogSelect = `
	SELECT b.id, b.title, b.content, b.status, b.created_at, b.updated_at, b.user_id, u.username
	FROM blogs b
	JOIN users u ON u.id = b.user_id
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlog(row rowScanner) (*domain.Blog, error) {
	var blog domain.Blog
	var status string
	err := row.Scan(
		&blog.ID,
		&blog.Title,
		&blog.Content,
		&status,
		&blog.CreatedAt,
		&blog.UpdatedAt,
		&blog.OwnerID,
		&blog.Owner.Username,
	)
	if err != nil {
		return nil, err
	}
	blog.Status = domain.BlogStatus(status)
	blog.Owner.ID = blog.OwnerID
	return &blog, nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id int64) (*domain.Blog, error) {
	blog, err := scanBlog(r.db.QueryRowContext(ctx, blogSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Blog lookup failed", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, wrap("blog lookup failed", err)
	}
	return blog, nil
}

func (r *BlogRepository) FindByStatus(ctx context.Context, status domain.BlogStatus) ([]*domain.Blog, error) {
	return r.list(ctx, blogSelect+` WHERE b.status = $1 ORDER BY b.created_at DESC, b.id DESC`, string(status))
}

func (r *BlogRepository) FindByOwner(ctx context.Context, ownerID int64) ([]*domain.Blog, error) {
	return r.list(ctx, blogSelect+` WHERE b.user_id = $1 ORDER BY b.created_at DESC, b.id DESC`, ownerID)
}

func (r *BlogRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Blog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Blogs could not be listed", map[string]interface{}{"error": err.Error()})
		return nil, wrap("blogs could not be listed", err)
	}
	defer rows.Close()

	return collectBlogs(rows)
}

func collectBlogs(rows *sql.Rows) ([]*domain.Blog, error) {
	blogs := make([]*domain.Blog, 0)
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, wrap("blog row could not be read", err)
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("blog rows could not be read", err)
	}

	return blogs, nil
}

func (r *BlogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	query := `
		INSERT INTO blogs (title, content, status, created_at, updated_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now().UTC()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	err := r.db.QueryRowContext(
		ctx,
		query,
		blog.Title,
		blog.Content,
		string(blog.Status),
		blog.CreatedAt,
		blog.UpdatedAt,
		blog.OwnerID,
	).Scan(&blog.ID)

	if err != nil {
		r.logger.ErrorContext(ctx, "Blog could not be created", map[string]interface{}{"user_id": blog.OwnerID, "error": err.Error()})
		return wrap("blog could not be created", err)
	}

	return nil
}

// Update never changes the owner.
func (r *BlogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, content = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	blog.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query, blog.Title, blog.Content, string(blog.Status), blog.UpdatedAt, blog.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Blog could not be updated", map[string]interface{}{"id": blog.ID, "error": err.Error()})
		return wrap("blog could not be updated", err)
	}

	return nil
}

// Delete relies on the schema to cascade comments, likes, media rows and
// category associations.
func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Blog could not be deleted", map[string]interface{}{"id": id, "error": err.Error()})
		return wrap("blog could not be deleted", err)
	}
	return nil
}
