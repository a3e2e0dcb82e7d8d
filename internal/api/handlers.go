// internal/api/handlers.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
)

const readyTimeout = 2 * time.Second

type Handler struct {
	service JobService
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

// ListJobs handles GET /api/jobs?location=&skills=.
func (h *Handler) ListJobs(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(), c.Query("location"), c.Query("skills"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetJob handles GET /api/jobs/:id.
func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Ready reports 503 until the job store answers a ping.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
			"time":   time.Now().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, body := h.errors.Handle(c.FullPath(), err)
	c.JSON(status, body)
}
