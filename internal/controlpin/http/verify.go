package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/service"
	"github.com/aussiebroadwan/controlpin/pkg/cryptox"
	"github.com/aussiebroadwan/controlpin/pkg/httpx"
	"github.com/aussiebroadwan/controlpin/pkg/jwtx"
	"github.com/aussiebroadwan/controlpin/pkg/pinsdk"
	"github.com/aussiebroadwan/controlpin/pkg/slogx"
)

// maxVerifyBody caps the request body. A verification request is a few
// dozen bytes.
const maxVerifyBody = 1 << 10

// VerifyHandler checks a candidate code for one action.
type VerifyHandler struct {
	Action      string
	AccessCodes *service.AccessCodeService
	Admission   *service.AdmissionControl
	TrustProxy  bool
}

// ServeHTTP handles POST /v1/actions/{action}/verify
//
//	@Summary		Verify an access code
//	@Description	Checks a candidate code for the action named in the path. Every denial looks the same to
//	@Description	anonymous callers; callers with the pin:audit scope also receive the denial reason.
//	@Description	Each client may attempt 5 verifications per action in a fixed 5 minute window.
//	@Tags			Verification
//	@Accept			json
//	@Produce		json
//	@Param			action	path		string					true	"Action identifier"	example(verify-pin)
//	@Param			request	body		pinsdk.VerifyRequest	true	"Candidate code"
//	@Success		200		{object}	pinsdk.VerifyResponse	"Verification result"
//	@Failure		400		{object}	pinsdk.ErrorResponse	"Malformed request"
//	@Failure		413		{object}	pinsdk.ErrorResponse	"Request body too large"
//	@Failure		429		{object}	pinsdk.VerifyResponse	"Too many attempts"
//	@Header			429		{integer}	Retry-After				"Seconds until the window resets"
//	@Router			/v1/actions/{action}/verify [post].
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client := httpx.ClientIP(r, h.TrustProxy)
	log := slogx.FromContext(ctx).With("action", h.Action, "client", client)

	var req pinsdk.VerifyRequest
	if err := httpx.DecodeSingleJSON(w, r, &req, maxVerifyBody); err != nil {
		log.Warn("rejected verification request", "err", err)
		if errors.Is(err, httpx.ErrBodyTooLarge) {
			pinsdk.ErrBodyTooLarge.WriteError(w)
			return
		}
		pinsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if req.ActionID != "" && req.ActionID != h.Action {
		log.Warn("rejected verification request", "err", "action mismatch", "body_action", req.ActionID)
		pinsdk.ErrActionMismatch.WriteError(w)
		return
	}

	if !cryptox.IsDigits(req.CandidateCode, domain.CodeDigits) {
		log.Warn("rejected verification request", "err", service.ErrInvalidInput)
		pinsdk.ErrInvalidCandidate.WriteError(w)
		return
	}

	decision, err := h.Admission.CheckAndConsume(ctx, client, h.Action)
	if err != nil {
		log.Error("admission check failed", "err", err)
		h.writeResult(w, r, false, pinsdk.ReasonUnavailable)
		return
	}
	if !decision.Allowed {
		secs := retryAfterSeconds(decision.RetryAfter)
		log.Warn("rate_limited", "retry_after", decision.RetryAfter)
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		httpx.WriteJSON(w, http.StatusTooManyRequests, pinsdk.VerifyResponse{
			Authorized:        false,
			RetryAfterSeconds: secs,
		})
		return
	}

	outcome, err := h.AccessCodes.Verify(ctx, req.CandidateCode)
	if err != nil {
		log.Error("verification_outcome", "outcome", "unavailable", "err", err)
		h.writeResult(w, r, false, pinsdk.ReasonUnavailable)
		return
	}

	log.Info("verification_outcome", "outcome", outcome.String())
	h.writeResult(w, r, outcome.Granted(), denialReason(outcome))
}

// writeResult collapses every denial into the same body unless the caller
// holds the audit scope.
func (h *VerifyHandler) writeResult(w http.ResponseWriter, r *http.Request, granted bool, reason string) {
	resp := pinsdk.VerifyResponse{Authorized: granted}
	if !granted && httpx.HasScope(r.Context(), jwtx.ScopeAudit) {
		resp.Reason = reason
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func denialReason(o domain.Outcome) string {
	switch o {
	case domain.OutcomeGranted:
		return ""
	case domain.OutcomeNoCodeIssued:
		return pinsdk.ReasonNoCodeIssued
	case domain.OutcomeExpired:
		return pinsdk.ReasonExpired
	default:
		return pinsdk.ReasonMismatch
	}
}

// retryAfterSeconds rounds up so clients never retry early, and never
// reports less than one second.
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
