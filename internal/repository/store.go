package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
	"blogapi/pkg/metrics"
)

type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, logger logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Tx) error) (err error) {
	start := time.Now()
	outcome := "rollback"
	defer func() {
		metrics.RecordStoreTransaction(outcome, time.Since(start))
	}()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Transaction could not be started", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("transaction could not be started: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				s.logger.ErrorContext(ctx, "Transaction could not be rolled back", map[string]interface{}{"error": rbErr.Error()})
			}
		}
	}()

	if err = fn(newTxScope(sqlTx, s.logger)); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Transaction could not be committed", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("transaction could not be committed: %w", err)
	}

	outcome = "commit"
	return nil
}

type txScope struct {
	users      domain.UserRepository
	roles      domain.RoleRepository
	blogs      domain.BlogRepository
	categories domain.CategoryRepository
	comments   domain.CommentRepository
	likes      domain.LikeRepository
	media      domain.MediaRepository
	auditLogs  domain.AuditLogRepository
}

func newTxScope(db DBTX, logger logger.Logger) *txScope {
	return &txScope{
		users:      NewUserRepository(db, logger),
		roles:      NewRoleRepository(db, logger),
		blogs:      NewBlogRepository(db, logger),
		categories: NewCategoryRepository(db, logger),
		comments:   NewCommentRepository(db, logger),
		likes:      NewLikeRepository(db, logger),
		media:      NewMediaRepository(db, logger),
		auditLogs:  NewAuditLogRepository(db, logger),
	}
}

func (t *txScope) Users() domain.UserRepository { return t.users }
func (t *txScope) Roles() domain.RoleRepository { return t.roles }
func (t *txScope) Blogs() domain.BlogRepository { return t.blogs }
func (t *txScope) Categories() domain.CategoryRepository { return t.categories }
func (t *txScope) Comments() domain.CommentRepository { return t.comments }
func (t *txScope) Likes() domain.LikeRepository { return t.likes }
func (t *txScope) Media() domain.MediaRepository { return t.media }
func (t *txScope) AuditLogs() domain.AuditLogRepository { return t.auditLogs }
