package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/store"
	"github.com/aussiebroadwan/controlpin/pkg/httpx"
	"github.com/aussiebroadwan/controlpin/pkg/pinsdk"
	"github.com/aussiebroadwan/controlpin/pkg/slogx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe that pings the code store and the quota backend
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	pinsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	pinsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	quotas store.Quotas,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := slogx.FromContext(r.Context())
		checks := &pinsdk.HealthChecks{
			Database: "ok",
			Quotas:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			log.Warn("readiness: store ping failed", "err", err)
			checks.Database = "error"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if err := quotas.Ping(r.Context()); err != nil {
			log.Warn("readiness: quota backend ping failed", "err", err)
			checks.Quotas = "error"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, pinsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
