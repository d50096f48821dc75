package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/controlpin/pkg/httpx"
	"github.com/aussiebroadwan/controlpin/pkg/pinsdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning basic service status, uptime and version
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	pinsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, pinsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
