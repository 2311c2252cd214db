package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rentmgr/backend/internal/interfaces/http/dto"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness and dependency health
type HealthHandler struct {
	BaseHandler
	name      string
	version   string
	checks    map[string]HealthCheck
	timeout   time.Duration
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(name, version string) *HealthHandler {
	return &HealthHandler{
		name:      name,
		version:   version,
		checks:    make(map[string]HealthCheck),
		timeout:   2 * time.Second,
		startTime: time.Now(),
	}
}

// AddCheck registers a dependency probe under name
func (h *HealthHandler) AddCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

// HealthResponse represents the health response
type HealthResponse struct {
	Status    string            `json:"status" example:"ok"`
	Name      string            `json:"name" example:"rent-obligations"`
	Version   string            `json:"version" example:"1.0.0"`
	GoVersion string            `json:"go_version" example:"go1.25.5"`
	Uptime    string            `json:"uptime" example:"1h30m45s"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Returns 200 when every dependency answers, 503 otherwise
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	if len(names) > 0 {
		resp.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
