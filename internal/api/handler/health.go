package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scholarhub/portal-gateway/internal/portal"
)

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct {
	registry *portal.Registry
}

func NewHealthHandler(reg *portal.Registry) *HealthHandler {
	return &HealthHandler{registry: reg}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	out := map[string]any{"status": "ok"}
	if h.registry != nil {
		out["sessions"] = h.registry.Len()
	}
	return c.JSON(http.StatusOK, out)
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// Redis is optional; a nil client is reported as disabled.
type HealthDependenciesHandler struct {
	mongo   *mongo.Database
	redis   redis.Cmdable
	backend string
	client  *http.Client
}

func NewHealthDependenciesHandler(db *mongo.Database, rdb redis.Cmdable, backendURL string) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		mongo:   db,
		redis:   rdb,
		backend: backendURL,
		client:  &http.Client{Timeout: 3 * time.Second},
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	// --- MongoDB ping ---
	if h.mongo == nil {
		deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: "not connected"}
		healthy = false
	} else if err := h.mongo.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["mongodb"] = dependencyStatus{Status: "ok"}
	}

	// --- Redis ping ---
	if h.redis == nil {
		deps["redis"] = dependencyStatus{Status: "disabled"}
	} else if err := h.redis.Ping(ctx).Err(); err != nil {
		// The role cache falls back to memory, so Redis alone does not fail readiness.
		deps["redis"] = dependencyStatus{Status: "degraded", Error: err.Error()}
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	// --- REST backend reachable ---
	// Any HTTP answer counts; only transport failures mark it unhealthy.
	if h.backend != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.backend, nil)
		if err == nil {
			var resp *http.Response
			resp, err = h.client.Do(req)
			if err == nil {
				_ = resp.Body.Close()
			}
		}
		if err != nil {
			deps["backend"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["backend"] = dependencyStatus{Status: "ok"}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
