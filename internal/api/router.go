package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blogapi/internal/api/middleware"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

// Wrapper decorates a handler, typically with authentication.
type Wrapper func(http.Handler) http.Handler

type Services struct {
	Users      domain.UserService
	Roles      domain.RoleService
	Blogs      domain.BlogService
	Categories domain.CategoryService
	Comments   domain.CommentService
	Likes      domain.LikeService
	Media      domain.MediaService
	AuditLogs  domain.AuditLogService
}

type RouterConfig struct {
	Services Services
	Database Database
	Version  string
	// UploadDir is served under /uploads/ when media is stored locally.
	UploadDir string
	Logger    logger.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	mux := http.NewServeMux()

	auth := Wrapper(middleware.Auth(cfg.Services.Users.ResolveActor, func(w http.ResponseWriter, r *http.Request, err error) {
		logBadRequest(r, log, err)
		writeError(w, err)
	}))

	NewUserHandler(cfg.Services.Users, log).RegisterRoutes(mux, auth)
	NewRoleHandler(cfg.Services.Roles, log).RegisterRoutes(mux, auth)
	NewBlogHandler(cfg.Services.Blogs, log).RegisterRoutes(mux, auth)
	NewCategoryHandler(cfg.Services.Categories, log).RegisterRoutes(mux, auth)
	NewCommentHandler(cfg.Services.Comments, log).RegisterRoutes(mux, auth)
	NewLikeHandler(cfg.Services.Likes, log).RegisterRoutes(mux, auth)
	NewMediaHandler(cfg.Services.Media, log).RegisterRoutes(mux, auth)
	NewAuditLogHandler(cfg.Services.AuditLogs, log).RegisterRoutes(mux, auth)
	NewHealthHandler(cfg.Database, cfg.Version, log).RegisterRoutes(mux)

	mux.Handle("GET /metrics", promhttp.Handler())

	if cfg.UploadDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	return middleware.Tracing(middleware.Metrics(mux))
}
