package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"blogapi/internal/api"
	"blogapi/pkg/tracing"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	Long: `Apply pending migrations and serve the API until SIGINT or SIGTERM.
In-flight requests are given time to finish before the server exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	log := app.GetLogger()
	cfg := app.GetConfig()

	log.Info("Starting application", map[string]interface{}{"env": cfg.AppEnv, "version": Version})

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("Tracer could not be flushed", map[string]interface{}{"error": err.Error()})
		}
	}()

	if err := app.GetMigrationService().RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations could not be applied: %w", err)
	}

	handler := api.NewRouter(api.RouterConfig{
		Services: api.Services{
			Users:      app.GetUserService(),
			Roles:      app.GetRoleService(),
			Blogs:      app.GetBlogService(),
			Categories: app.GetCategoryService(),
			Comments:   app.GetCommentService(),
			Likes:      app.GetLikeService(),
			Media:      app.GetMediaService(),
			AuditLogs:  app.GetAuditLogService(),
		},
		Database:  app.GetConnectionManager(),
		Version:   Version,
		UploadDir: app.GetUploadDir(),
		Logger:    log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"port": cfg.Server.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server", map[string]interface{}{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server did not shut down cleanly: %w", err)
	}

	log.Info("Server stopped", map[string]interface{}{})
	return nil
}
