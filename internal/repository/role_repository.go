package repository

import (
	"context"
	"database/sql"
	"errors"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type RoleRepository struct {
	db     DBTX
	logger logger.Logger
}

func NewRoleRepository(db DBTX, logger logger.Logger) domain.RoleRepository {
	return &RoleRepository{
		db:     db,
		logger: logger,
	}
}

func (r *RoleRepository) findOne(ctx context.Context, where string, arg interface{}) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM roles WHERE `+where+` = $1`, arg).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Role lookup failed", map[string]interface{}{where: arg, "error": err.Error()})
		return nil, wrap("role lookup failed", err)
	}
	return &role, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	return r.findOne(ctx, "id", id)
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, "name", name)
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	return r.query(ctx, `SELECT id, name FROM roles ORDER BY id`)
}

func (r *RoleRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id
	`
	return r.query(ctx, query, userID)
}

func (r *RoleRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Roles could not be listed", map[string]interface{}{"error": err.Error()})
		return nil, wrap("roles could not be listed", err)
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, wrap("role row could not be read", err)
		}
		roles = append(roles, &role)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("role rows could not be read", err)
	}

	return roles, nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	err := r.db.QueryRowContext(ctx, `INSERT INTO roles (name) VALUES ($1) RETURNING id`, role.Name).Scan(&role.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Role could not be created", map[string]interface{}{"name": role.Name, "error": err.Error()})
		return wrap("role could not be created", err)
	}
	return nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	_, err := r.db.ExecContext(ctx, `UPDATE roles SET name = $1 WHERE id = $2`, role.Name, role.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Role could not be updated", map[string]interface{}{"id": role.ID, "error": err.Error()})
		return wrap("role could not be updated", err)
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Role could not be deleted", map[string]interface{}{"id": id, "error": err.Error()})
		return wrap("role could not be deleted", err)
	}
	return nil
}

func (r *RoleRepository) Assign(ctx context.Context, userID, roleID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Role could not be assigned", map[string]interface{}{
			"user_id": userID,
			"role_id": roleID,
			"error":   err.Error(),
		})
		return wrap("role could not be assigned", err)
	}
	return nil
}

func (r *RoleRepository) Revoke(ctx context.Context, userID, roleID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Role could not be revoked", map[string]interface{}{
			"user_id": userID,
			"role_id": roleID,
			"error":   err.Error(),
		})
		return false, wrap("role could not be revoked", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, wrap("revoked rows could not be counted", err)
	}
	return affected > 0, nil
}
