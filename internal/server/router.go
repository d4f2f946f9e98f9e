package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sundial/internal/api"
	"sundial/internal/config"
)

// SetupRouter configures the gin engine and every route
func SetupRouter(cfg *config.Config, a api.API, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger), gin.Recovery())

	h := NewHandler(a)
	r.GET("/healthz", h.Health)

	group := r.Group("/api")
	group.Use(IdentityMiddleware(cfg.Server.IdentityHeader))

	group.POST("/setup", h.Setup)

	group.GET("/categories", h.ListCategories)
	group.POST("/categories", h.CreateCategory)
	group.GET("/categories/tree", h.CategoryTree)
	group.GET("/categories/:id", h.GetCategory)
	group.PUT("/categories/:id", h.UpdateCategory)

	group.GET("/entries", h.ListEntries)
	group.POST("/entries", h.CreateEntry)
	group.GET("/entries/:id", h.GetEntry)
	group.PUT("/entries/:id", h.UpdateEntry)

	return r
}

// Run serves handler on cfg.Server.Address until ctx is cancelled, then
// shuts down within cfg.Server.ShutdownTimeout.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
