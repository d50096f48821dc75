package http

import (
	"net/http"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/service"
	"github.com/aussiebroadwan/controlpin/pkg/httpx"
	"github.com/aussiebroadwan/controlpin/pkg/pinsdk"
	"github.com/aussiebroadwan/controlpin/pkg/slogx"
)

// AccessCodeHandler issues a new access code.
type AccessCodeHandler struct {
	AccessCodes *service.AccessCodeService
}

// ServeHTTP handles POST /v1/access-code
//
//	@Summary		Issue a new access code
//	@Description	Generates a new 4 digit code valid for 3 minutes and invalidates the previous one.
//	@Description	The plain code is only returned by this call.
//	@Tags			Access Code
//	@Security		BearerAuth
//	@Produce		json
//	@Success		201	{object}	pinsdk.AccessCodeResponse	"The issued code"
//	@Failure		401	{object}	pinsdk.ErrorResponse		"Invalid or missing token"
//	@Failure		403	{object}	pinsdk.ErrorResponse		"Token lacks the pin:issue scope"
//	@Failure		429	{object}	pinsdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500	{object}	pinsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/access-code [post].
func (h *AccessCodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	operator, _ := ctx.Value(httpx.CtxKeyUserID).(string)
	log := slogx.FromContext(ctx).With("operator", operator)

	conf, err := h.AccessCodes.Generate(slogx.WithContext(ctx, log))
	if err != nil {
		log.Error("failed to issue access code", "err", err)
		pinsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, pinsdk.AccessCodeResponse{
		ID:        conf.ID,
		Code:      conf.Code,
		IssuedAt:  conf.IssuedAt,
		ExpiresAt: conf.ExpiresAt,
	})
}
