package factory

import (
	"context"
	"fmt"
	"time"

	"blogapi/internal/authz"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/domain"
	"blogapi/internal/repository"
	"blogapi/internal/service"
	"blogapi/pkg/circuitbreaker"
	pkgdb "blogapi/pkg/database"
	"blogapi/pkg/logger"
	"blogapi/pkg/password"
	"blogapi/pkg/storage"
	"blogapi/pkg/token"
	"blogapi/pkg/validator"
)

type Factory interface {
	GetLogger() logger.Logger
	GetConfig() *config.Config
	GetConnectionManager() *pkgdb.ConnectionManager
	GetMigrationService() *database.MigrationService
	GetStore() domain.Store
	GetFileStore() domain.FileStore
	// GetUploadDir is empty unless media is stored on the local disk.
	GetUploadDir() string

	GetUserService() domain.UserService
	GetRoleService() domain.RoleService
	GetBlogService() domain.BlogService
	GetCategoryService() domain.CategoryService
	GetCommentService() domain.CommentService
	GetLikeService() domain.LikeService
	GetMediaService() domain.MediaService
	GetAuditLogService() domain.AuditLogService

	Close() error
}

type AppFactory struct {
	config    *config.Config
	logger    logger.Logger
	cm        *pkgdb.ConnectionManager
	migration *database.MigrationService
	store     *repository.Store
	files     domain.FileStore
	uploadDir string

	engine    *authz.Engine
	validator *validator.Validator
	hasher    *password.BcryptHasher
	tokens    *token.Manager

	userService     domain.UserService
	roleService     domain.RoleService
	blogService     domain.BlogService
	categoryService domain.CategoryService
	commentService  domain.CommentService
	likeService     domain.LikeService
	mediaService    domain.MediaService
	auditLogService domain.AuditLogService
}

func NewFactory(ctx context.Context, cfg *config.Config, log logger.Logger) (Factory, error) {
	cm, err := pkgdb.NewConnectionManager(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	factory := &AppFactory{
		config:    cfg,
		logger:    log,
		cm:        cm,
		migration: database.NewMigrationService(cm.GetDB(), cm.Dialect(), log),
		store:     repository.NewStore(cm.GetDB(), log),
		engine:    authz.NewEngine(authz.DefaultPolicy()),
		validator: validator.New(),
		hasher:    password.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens:    token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, cfg.Auth.JWTIssuer),
	}

	if err := factory.initFileStore(); err != nil {
		cm.Close()
		return nil, err
	}

	factory.initServices()

	return factory, nil
}

func (f *AppFactory) initFileStore() error {
	switch f.config.Storage.Driver {
	case config.StorageS3:
		s3Store, err := storage.NewS3Store(f.config.Storage.S3Bucket, f.config.Storage.S3Region, f.config.Storage.S3PublicURL, f.logger)
		if err != nil {
			return fmt.Errorf("s3 storage could not be initialized: %w", err)
		}
		breaker := circuitbreaker.New(circuitbreaker.Settings{
			Name:             "s3",
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				f.logger.Warn("Circuit breaker state changed", map[string]interface{}{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				})
			},
		})
		f.files = storage.NewGuardedStore(s3Store, breaker, f.logger)
	default:
		files, err := storage.NewLocalStore(f.config.Storage.UploadDir, "/uploads", f.logger)
		if err != nil {
			return err
		}
		f.files = files
		f.uploadDir = files.Dir()
	}
	return nil
}

func (f *AppFactory) initServices() {
	f.userService = service.NewUserService(f.store, f.engine, f.validator, f.hasher, f.tokens, f.logger)
	f.roleService = service.NewRoleService(f.store, f.engine, f.validator, f.logger)
	f.blogService = service.NewBlogService(f.store, f.engine, f.validator, f.files, f.logger)
	f.categoryService = service.NewCategoryService(f.store, f.engine, f.validator, f.logger)
	f.commentService = service.NewCommentService(f.store, f.engine, f.validator, f.logger)
	f.likeService = service.NewLikeService(f.store, f.engine, f.logger)
	f.mediaService = service.NewMediaService(f.store, f.engine, f.validator, f.files, f.logger)
	f.auditLogService = service.NewAuditLogService(f.store, f.engine, f.logger)
}

func (f *AppFactory) GetLogger() logger.Logger {
	return f.logger
}

func (f *AppFactory) GetConfig() *config.Config {
	return f.config
}

func (f *AppFactory) GetConnectionManager() *pkgdb.ConnectionManager {
	return f.cm
}

func (f *AppFactory) GetMigrationService() *database.MigrationService {
	return f.migration
}

func (f *AppFactory) GetStore() domain.Store {
	return f.store
}

func (f *AppFactory) GetFileStore() domain.FileStore {
	return f.files
}

func (f *AppFactory) GetUploadDir() string {
	return f.uploadDir
}

func (f *AppFactory) GetUserService() domain.UserService {
	return f.userService
}

func (f *AppFactory) GetRoleService() domain.RoleService {
	return f.roleService
}

func (f *AppFactory) GetBlogService() domain.BlogService {
	return f.blogService
}

func (f *AppFactory) GetCategoryService() domain.CategoryService {
	return f.categoryService
}

func (f *AppFactory) GetCommentService() domain.CommentService {
	return f.commentService
}

func (f *AppFactory) GetLikeService() domain.LikeService {
	return f.likeService
}

func (f *AppFactory) GetMediaService() domain.MediaService {
	return f.mediaService
}

func (f *AppFactory) GetAuditLogService() domain.AuditLogService {
	return f.auditLogService
}

func (f *AppFactory) Close() error {
	return f.cm.Close()
}
