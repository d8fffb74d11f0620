package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/pkg/types/common"
)

// Pinger is the health probe every backing store exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a bare function to the Pinger interface.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves liveness and readiness probes. Readiness pings every
// registered component and degrades the overall status when any is down.
type HealthHandler struct {
	components map[string]Pinger
	timeout    time.Duration
	logger     logging.Logger
}

// HealthReport is the readiness response body.
type HealthReport struct {
	Status     common.HealthStatus      `json:"status"`
	Components []common.ComponentHealth `json:"components,omitempty"`
	CheckedAt  time.Time                `json:"checked_at"`
}

// NewHealthHandler registers the named components to probe.
func NewHealthHandler(components map[string]Pinger, logger logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HealthHandler{
		components: components,
		timeout:    2 * time.Second,
		logger:     logger.Named("health"),
	}
}

// Liveness handles GET /healthz. It only confirms the process can respond.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthReport{
		Status:    common.HealthUp,
		CheckedAt: time.Now().UTC(),
	})
}

// Readiness handles GET /readyz. Any failing component turns the report
// degraded and the response into a 503 so load balancers stop routing here.
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := HealthReport{
		Status:    common.HealthUp,
		CheckedAt: time.Now().UTC(),
	}

	for name, p := range h.components {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		start := time.Now()
		err := p.Ping(ctx)
		cancel()

		ch := common.ComponentHealth{
			Name:    name,
			Status:  common.HealthUp,
			Latency: time.Since(start),
		}
		if err != nil {
			ch.Status = common.HealthDown
			ch.Message = err.Error()
			report.Status = common.HealthDegraded
			h.logger.Warn("component health check failed",
				logging.String("component", name), logging.Err(err))
		}
		report.Components = append(report.Components, ch)
	}

	status := http.StatusOK
	if report.Status != common.HealthUp {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
