package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable. *pgxpool.Pool
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB      Pinger
	Service string
}

func NewHealthHandler(db Pinger, service string) *HealthHandler {
	return &HealthHandler{DB: db, Service: service}
}

// Check reports liveness plus a best-effort database reachability probe.
func (h *HealthHandler) Check(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	database := "connected"
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		database = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   h.Service,
		"database":  database,
	})
}
