package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const probeTimeout = time.Second

// HealthStatus reports the service identity plus a per-dependency probe.
// Postgres down means not ready; Redis down only degrades, cached URLs are
// an optimization.
type HealthStatus struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	CheckedAt    time.Time         `json:"checkedAt"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool, cache *redis.Client) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, db: db, cache: cache}
}

// Live answers without touching dependencies.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Service:   h.serviceName,
		Version:   h.version,
		CheckedAt: time.Now().UTC(),
	})
}

// Ready probes Postgres and Redis with a short deadline each.
func (h *HealthHandler) Ready(c *gin.Context) {
	deps := map[string]string{}
	status := "ok"
	code := http.StatusOK

	if h.db != nil {
		deps["postgres"] = h.probe(c.Request.Context(), func(ctx context.Context) error {
			return h.db.Ping(ctx)
		})
		if deps["postgres"] != "up" {
			status = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		deps["redis"] = h.probe(c.Request.Context(), func(ctx context.Context) error {
			return h.cache.Ping(ctx).Err()
		})
		if deps["redis"] != "up" && status == "ok" {
			status = "degraded"
		}
	}

	c.JSON(code, HealthStatus{
		Status:       status,
		Service:      h.serviceName,
		Version:      h.version,
		CheckedAt:    time.Now().UTC(),
		Dependencies: deps,
	})
}

func (h *HealthHandler) probe(parent context.Context, ping func(context.Context) error) string {
	ctx, cancel := context.WithTimeout(parent, probeTimeout)
	defer cancel()
	if err := ping(ctx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.Live)
	r.GET("/health", h.Ready)
}
