package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ozzus/domain-scout/internal/domain"
)

// ScanStatusProvider is implemented by service.ScanService.
type ScanStatusProvider interface {
	HealthCheck(ctx context.Context) error
	Ready() error
	Status() domain.ScanStatus
	Available() []string
}

type HealthController struct {
	scan  ScanStatusProvider
	runID string
}

func NewHealthController(scan ScanStatusProvider, runID string) *HealthController {
	return &HealthController{
		scan:  scan,
		runID: runID,
	}
}

func (h *HealthController) Health(c *gin.Context) {
	if err := h.scan.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, domain.HealthResponse{
			Status:    domain.HealthStatusUnhealthy,
			Timestamp: time.Now(),
			RunID:     h.runID,
			Message:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:    domain.HealthStatusHealthy,
		Timestamp: time.Now(),
		RunID:     h.runID,
		Message:   "scanner is up",
	})
}

// Ready reports whether a scan is currently checking candidates.
func (h *HealthController) Ready(c *gin.Context) {
	if err := h.scan.Ready(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not_ready",
			"run_id":    h.runID,
			"message":   err.Error(),
			"timestamp": time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"run_id":    h.runID,
		"timestamp": time.Now(),
	})
}

func (h *HealthController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.scan.Status())
}

func (h *HealthController) Available(c *gin.Context) {
	domains := h.scan.Available()
	c.JSON(http.StatusOK, gin.H{
		"run_id":  h.runID,
		"count":   len(domains),
		"domains": domains,
	})
}
