package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/nomfood/storefront/pkg/ctx"
)

// Pinger checks a backing service.
type Pinger func(ctx context.Context) error

type HealthController struct {
	started time.Time
	checks  map[string]Pinger
}

func NewHealthController(checks map[string]Pinger) *HealthController {
	return &HealthController{started: time.Now(), checks: checks}
}

// Show reports liveness and each dependency. Any failing check turns the
// response into a 503.
func (hc *HealthController) Show(c *ctx.Context) {
	reqCtx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(hc.checks))
	for name, ping := range hc.checks {
		if err := ping(reqCtx); err != nil {
			deps[name] = "down: " + err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, map[string]any{
		"success":   status == http.StatusOK,
		"message":   "Food Store API is running",
		"status":    state,
		"checks":    deps,
		"uptime":    time.Since(hc.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC(),
	})
}
