package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache,omitempty"`
}

// healthHandler answers readiness/liveness probes. The cache is the only
// local dependency; a failing cache reports 503 with status "degraded".
func healthHandler(cache HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		code := http.StatusOK

		if cache != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			err := cache.Health(ctx)
			cancel()
			if err != nil {
				logger.WarnContext(r.Context(), "cache health check failed", "error", err)
				resp = healthResponse{Status: "degraded", Cache: "unavailable"}
				code = http.StatusServiceUnavailable
			} else {
				resp.Cache = "ok"
			}
		}

		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			return
		}
		WriteJSON(w, code, resp)
	}
}
