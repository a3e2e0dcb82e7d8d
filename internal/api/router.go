// internal/api/router.go
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/jobs/service"
	"jobboard/internal/models"
)

// JobService is the read API the handlers call.
type JobService interface {
	List(ctx context.Context, location, skills string) (*service.ListResult, error)
	Get(ctx context.Context, rawID string) (*models.Job, error)
	Ping(ctx context.Context) error
}

// Options controls the optional parts of the router.
type Options struct {
	// StaticDir is served for any path outside /api when set.
	StaticDir string
	// CORSOrigins limits cross origin callers; empty allows all.
	CORSOrigins []string
}

// NewRouter builds the gin engine with the job endpoints, health probes and
// Prometheus metrics.
func NewRouter(svc JobService, opts Options, log logger.Logger) *gin.Engine {
	log = logger.Component(log, "api")
	h := &Handler{
		service: svc,
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
	}

	r := gin.New()
	r.Use(requestLogger(log), recordMetrics(), recovery(log))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/jobs", h.ListJobs)
		api.GET("/jobs/:id", h.GetJob)
	}

	var files http.Handler
	if opts.StaticDir != "" {
		files = http.FileServer(http.Dir(opts.StaticDir))
	}
	r.NoRoute(func(c *gin.Context) {
		if files == nil || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, apperrors.ResponseBody{Message: "Not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	return cfg
}
