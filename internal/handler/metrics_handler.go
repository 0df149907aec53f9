package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/service"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/response"
)

// Pinger is a dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	deps    map[string]Pinger
}

// NewMetricsHandler constructs a metrics handler. deps are checked by Ready.
func NewMetricsHandler(metrics *service.MetricsService, deps map[string]Pinger) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, deps: deps}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Snapshot godoc
// @Summary Aggregated service counters
// @Tags Observability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/snapshot [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	response.OK(c, h.metrics.Snapshot())
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports 503 until every dependency answers its ping.
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	status := http.StatusOK
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	state := "ready"
	if status != http.StatusOK {
		state = "unavailable"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}
