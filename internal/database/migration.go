package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"blogapi/internal/domain"
	"blogapi/pkg/database"
	"blogapi/pkg/logger"
)

type Migration struct {
	Name       string
	Statements func(d database.Dialect) []string
}

type MigrationService struct {
	db      *sql.DB
	dialect database.Dialect
	logger  logger.Logger
}

func NewMigrationService(db *sql.DB, dialect database.Dialect, logger logger.Logger) *MigrationService {
	return &MigrationService{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

// Migrations lists the schema in application order. Names are recorded in the
// migrations table and must never change.
func Migrations() []Migration {
	return []Migration{
		{"create_users_table", createUsersTable},
		{"create_roles_tables", createRolesTables},
		{"create_blogs_table", createBlogsTable},
		{"create_categories_tables", createCategoriesTables},
		{"create_comments_table", createCommentsTable},
		{"create_likes_table", createLikesTable},
		{"create_media_table", createMediaTable},
		{"create_audit_logs_table", createAuditLogsTable},
		{"seed_bootstrap_roles", seedBootstrapRoles},
	}
}

// tables in creation order, used by DropAll.
var tables = []string{
	"users", "roles", "user_roles", "blogs", "categories", "blog_categories",
	"comments", "likes", "media", "audit_logs",
}

func (m *MigrationService) InitMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS migrations (
        id %s,
        name TEXT NOT NULL UNIQUE,
        applied_at TIMESTAMP NOT NULL
    )
    `, primaryKey(m.dialect))

	if _, err := m.db.ExecContext(ctx, query); err != nil {
		m.logger.Error("Migration table could not be created", map[string]interface{}{"error": err.Error()})
		return err
	}

	return nil
}

func (m *MigrationService) IsMigrationApplied(ctx context.Context, name string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM migrations WHERE name = $1"
	if err := m.db.QueryRowContext(ctx, query, name).Scan(&count); err != nil {
		m.logger.Error("Migration state could not be checked", map[string]interface{}{"name": name, "error": err.Error()})
		return false, err
	}

	return count > 0, nil
}

func (m *MigrationService) ApplyMigration(ctx context.Context, migration Migration) (err error) {
	applied, err := m.IsMigrationApplied(ctx, migration.Name)
	if err != nil {
		return err
	}

	if applied {
		m.logger.Debug("Migration already applied", map[string]interface{}{"name": migration.Name})
		return nil
	}

	m.logger.Info("Applying migration", map[string]interface{}{"name": migration.Name})

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		m.logger.Error("Migration transaction could not be started", map[string]interface{}{"error": err.Error()})
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			m.logger.Error("Migration rolled back", map[string]interface{}{"name": migration.Name, "error": err.Error()})
		}
	}()

	for _, stmt := range migration.Statements(m.dialect) {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement failed: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, "INSERT INTO migrations (name, applied_at) VALUES ($1, $2)", migration.Name, time.Now().UTC()); err != nil {
		return fmt.Errorf("migration could not be recorded: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migration could not be committed: %w", err)
	}

	m.logger.Info("Migration applied", map[string]interface{}{"name": migration.Name})
	return nil
}

func (m *MigrationService) RunMigrations(ctx context.Context) error {
	m.logger.Info("Running migrations", map[string]interface{}{"dialect": string(m.dialect)})

	if err := m.InitMigrationTable(ctx); err != nil {
		return fmt.Errorf("migration table could not be created: %w", err)
	}

	for _, migration := range Migrations() {
		if err := m.ApplyMigration(ctx, migration); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}
	}

	return nil
}

// DropAll removes every table including the migration history.
func (m *MigrationService) DropAll(ctx context.Context) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := m.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+tables[i]); err != nil {
			return fmt.Errorf("table %s could not be dropped: %w", tables[i], err)
		}
	}

	if _, err := m.db.ExecContext(ctx, "DROP TABLE IF EXISTS migrations"); err != nil {
		return fmt.Errorf("migration table could not be dropped: %w", err)
	}

	m.logger.Info("All tables dropped", map[string]interface{}{})
	return nil
}

func primaryKey(d database.Dialect) string {
	if d == database.DialectSQLite {
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "BIGSERIAL PRIMARY KEY"
}

func createUsersTable(d database.Dialect) []string {
	return []string{fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS users (
        id %s,
        username TEXT NOT NULL UNIQUE,
        email TEXT NOT NULL UNIQUE,
        password_hash TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL
    )
    `, primaryKey(d))}
}

func createRolesTables(d database.Dialect) []string {
	return []string{
		fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS roles (
        id %s,
        name TEXT NOT NULL UNIQUE
    )
    `, primaryKey(d)),
		`
    CREATE TABLE IF NOT EXISTS user_roles (
        user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
        role_id BIGINT NOT NULL REFERENCES roles (id) ON DELETE CASCADE,
        PRIMARY KEY (user_id, role_id)
    )
    `,
		`CREATE INDEX IF NOT EXISTS user_roles_role_id_idx ON user_roles (role_id)`,
	}
}

// Blogs reference users without a cascade: a user who still owns blogs,
// comments or likes cannot be deleted.
func createBlogsTable(d database.Dialect) []string {
	return []string{
		fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS blogs (
        id %s,
        title TEXT NOT NULL,
        content TEXT NOT NULL,
        status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL,
        user_id BIGINT NOT NULL REFERENCES users (id)
    )
    `, primaryKey(d)),
		`CREATE INDEX IF NOT EXISTS blogs_user_id_idx ON blogs (user_id)`,
		`CREATE INDEX IF NOT EXISTS blogs_status_idx ON blogs (status)`,
	}
}

func createCategoriesTables(d database.Dialect) []string {
	return []string{
		fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS categories (
        id %s,
        name TEXT NOT NULL UNIQUE
    )
    `, primaryKey(d)),
		`
    CREATE TABLE IF NOT EXISTS blog_categories (
        category_id BIGINT NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
        blog_id BIGINT NOT NULL REFERENCES blogs (id) ON DELETE CASCADE,
        PRIMARY KEY (category_id, blog_id)
    )
    `,
		`CREATE INDEX IF NOT EXISTS blog_categories_blog_id_idx ON blog_categories (blog_id)`,
	}
}

func createCommentsTable(d database.Dialect) []string {
	return []string{
		fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS comments (
        id %s,
        content TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL,
        user_id BIGINT NOT NULL REFERENCES users (id),
        blog_id BIGINT NOT NULL REFERENCES blogs (id) ON DELETE CASCADE
    )
    `, primaryKey(d)),
		`CREATE INDEX IF NOT EXISTS comments_blog_id_idx ON comments (blog_id)`,
	}
}

func createLikesTable(d database.Dialect) []string {
	return []string{
		`
    CREATE TABLE IF NOT EXISTS likes (
        user_id BIGINT NOT NULL REFERENCES users (id),
        blog_id BIGINT NOT NULL REFERENCES blogs (id) ON DELETE CASCADE,
        created_at TIMESTAMP NOT NULL,
        PRIMARY KEY (user_id, blog_id)
    )
    `,
		`CREATE INDEX IF NOT EXISTS likes_blog_id_idx ON likes (blog_id)`,
	}
}

func createMediaTable(d database.Dialect) []string {
	return []string{
		fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS media (
        id %s,
        url VARCHAR(%d) NOT NULL,
        type TEXT NOT NULL CHECK (type IN ('image', 'video', 'audio')),
        created_at TIMESTAMP NOT NULL,
        blog_id BIGINT NOT NULL REFERENCES blogs (id) ON DELETE CASCADE
    )
    `, primaryKey(d), domain.MaxMediaURLLength),
		`CREATE INDEX IF NOT EXISTS media_blog_id_idx ON media (blog_id)`,
	}
}

func createAuditLogsTable(d database.Dialect) []string {
	return []string{
		fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS audit_logs (
        id %s,
        entity_type TEXT NOT NULL,
        entity_id BIGINT NOT NULL,
        action TEXT NOT NULL,
        actor_id BIGINT NOT NULL DEFAULT 0,
        details TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMP NOT NULL
    )
    `, primaryKey(d)),
		`CREATE INDEX IF NOT EXISTS audit_logs_entity_idx ON audit_logs (entity_type, entity_id)`,
	}
}

func seedBootstrapRoles(database.Dialect) []string {
	values := make([]string, 0, len(domain.BootstrapRoles))
	for _, name := range domain.BootstrapRoles {
		values = append(values, fmt.Sprintf("('%s')", strings.ReplaceAll(name, "'", "''")))
	}
	return []string{
		"INSERT INTO roles (name) VALUES " + strings.Join(values, ", ") + " ON CONFLICT (name) DO NOTHING",
	}
}
