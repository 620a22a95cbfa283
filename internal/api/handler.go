// Package api exposes the alert pipeline over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"tracker-alert-sync/internal/credentials"
	"tracker-alert-sync/internal/emailprocessor"
	"tracker-alert-sync/internal/logging"
	"tracker-alert-sync/internal/models"
	"tracker-alert-sync/internal/store"
)

// Syncer runs one mailbox sync
type Syncer interface {
	Sync(ctx context.Context, limit int) (emailprocessor.SyncResult, error)
}

type Handler struct {
	store       *store.Store
	credentials *credentials.Provider
	prober      credentials.Prober
	syncer      Syncer
	config      *models.Config
}

func NewHandler(st *store.Store, provider *credentials.Provider, prober credentials.Prober, syncer Syncer, cfg *models.Config) *Handler {
	return &Handler{
		store:       st,
		credentials: provider,
		prober:      prober,
		syncer:      syncer,
		config:      cfg,
	}
}

// Router builds the gin engine with middleware and every route registered
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors(h.config.Server.AllowedOrigins))

	r.GET("/", h.Root)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		gmail := api.Group("/gmail")
		gmail.POST("/configure", h.Configure)
		gmail.POST("/sync", h.Sync)

		alerts := api.Group("/alerts")
		alerts.GET("/list", h.ListAlerts)
		alerts.GET("/categories", h.Categories)
		alerts.DELETE("/clear-all", h.ClearAll)

		bikes := api.Group("/bikes")
		bikes.GET("/list", h.ListBikes)
		bikes.GET("/paginated", h.PaginatedBikes)
		bikes.GET("/:tracker_name/history", h.BikeHistory)
	}

	return r
}

// Start serves the API on addr until ctx is cancelled
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: h.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Log.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logging.Log.Info("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

// cors allows credentialed requests from the configured origins only
func cors(allowed []string) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		origins[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if _, ok := origins[origin]; ok {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
			c.Writer.Header().Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		logging.Log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(started).String(),
		}).Debug("HTTP request")
	}
}
