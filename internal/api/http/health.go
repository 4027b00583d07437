package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	serviceName string
	version     string
	db          *pgxpool.Pool
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
	}
}

// HealthCheck reports liveness plus a best-effort database probe. The
// endpoint always answers 200; orchestration reads the db field to decide
// whether the instance is actually serviceable.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	db := "disabled"
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		db = "up"
		if err := h.db.Ping(pingCtx); err != nil {
			db = "down"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"service":   h.serviceName,
		"version":   h.version,
		"db":        db,
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
