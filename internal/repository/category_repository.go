package repository

import (
	"context"
	"database/sql"
	"errors"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type CategoryRepository struct {
	db     DBTX
	logger logger.Logger
}

func NewCategoryRepository(db DBTX, logger logger.Logger) domain.CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CategoryRepository) findOne(ctx context.Context, where string, arg interface{}) (*domain.Category, error) {
	category := domain.Category{Blogs: make([]*domain.BlogSummary, 0)}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE `+where+` = $1`, arg).Scan(&category.ID, &category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Category lookup failed", map[string]interface{}{where: arg, "error": err.Error()})
		return nil, wrap("category lookup failed", err)
	}
	return &category, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	return r.findOne(ctx, "id", id)
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.findOne(ctx, "name", name)
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Categories could not be listed", map[string]interface{}{"error": err.Error()})
		return nil, wrap("categories could not be listed", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category := domain.Category{Blogs: make([]*domain.BlogSummary, 0)}
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, wrap("category row could not be read", err)
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("category rows could not be read", err)
	}

	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	err := r.db.QueryRowContext(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name).Scan(&category.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Category could not be created", map[string]interface{}{"name": category.Name, "error": err.Error()})
		return wrap("category could not be created", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	_, err := r.db.ExecContext(ctx, `UPDATE categories SET name = $1 WHERE id = $2`, category.Name, category.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Category could not be updated", map[string]interface{}{"id": category.ID, "error": err.Error()})
		return wrap("category could not be updated", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Category could not be deleted", map[string]interface{}{"id": id, "error": err.Error()})
		return wrap("category could not be deleted", err)
	}
	return nil
}

func (r *CategoryRepository) AttachBlog(ctx context.Context, categoryID, blogID int64) error {
	query := `
		INSERT INTO blog_categories (category_id, blog_id)
		VALUES ($1, $2)
		ON CONFLICT (category_id, blog_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, categoryID, blogID); err != nil {
		r.logger.ErrorContext(ctx, "Blog could not be attached to category", map[string]interface{}{
			"category_id": categoryID,
			"blog_id":     blogID,
			"error":       err.Error(),
		})
		return wrap("blog could not be attached", err)
	}
	return nil
}

func (r *CategoryRepository) DetachBlog(ctx context.Context, categoryID, blogID int64) error {
	query := `DELETE FROM blog_categories WHERE category_id = $1 AND blog_id = $2`

	if _, err := r.db.ExecContext(ctx, query, categoryID, blogID); err != nil {
		r.logger.ErrorContext(ctx, "Blog could not be detached from category", map[string]interface{}{
			"category_id": categoryID,
			"blog_id":     blogID,
			"error":       err.Error(),
		})
		return wrap("blog could not be detached", err)
	}
	return nil
}

func (r *CategoryRepository) ListBlogs(ctx context.Context, categoryID int64) ([]*domain.BlogSummary, error) {
	query := `
		SELECT b.id, b.title, b.status
		FROM blogs b
		JOIN blog_categories bc ON bc.blog_id = b.id
		WHERE bc.category_id = $1
		ORDER BY b.id
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Category blogs could not be listed", map[string]interface{}{"category_id": categoryID, "error": err.Error()})
		return nil, wrap("category blogs could not be listed", err)
	}
	defer rows.Close()

	blogs := make([]*domain.BlogSummary, 0)
	for rows.Next() {
		var blog domain.BlogSummary
		var status string
		if err := rows.Scan(&blog.ID, &blog.Title, &status); err != nil {
			return nil, wrap("category blog row could not be read", err)
		}
		blog.Status = domain.BlogStatus(status)
		blogs = append(blogs, &blog)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("category blog rows could not be read", err)
	}

	return blogs, nil
}
