package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/service"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store"
	"github.com/aussiebroadwan/controlpin/pkg/httpx"
	"github.com/aussiebroadwan/controlpin/pkg/jwtx"
	"github.com/aussiebroadwan/controlpin/pkg/slogx"

	_ "github.com/aussiebroadwan/controlpin/api/controlpin" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// DefaultAction is the action registered when none are configured.
const DefaultAction = "verify-pin"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store  store.Store
	quotas store.Quotas

	// Actions lists the action identifiers that get a verify route.
	Actions []string
	// TrustProxy makes client identity honour X-Forwarded-For / X-Real-IP.
	TrustProxy bool

	AccessCodeService *service.AccessCodeService
	AdmissionControl  *service.AdmissionControl
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	quotas store.Quotas,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		quotas:       quotas,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerVerification()
	r.registerAccessCode()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			ControlPin Access Code Service API
//	@version		0.1.0
//	@description	Issues and verifies a single active, short lived 4 digit access code guarding sensitive control room actions.
//	@description
//	@description				Verification attempts are limited to 5 per client and action in fixed 5 minute windows.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/controlpin
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				HS256 admin token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerVerification() {
	actions := r.Actions
	if len(actions) == 0 {
		actions = []string{DefaultAction}
	}

	// One route per action so the quota partition comes from the route, not
	// from anything the caller sends. Quotas are enforced by AdmissionControl
	// inside the handler.
	seen := make(map[string]bool, len(actions))
	for _, action := range actions {
		if seen[action] {
			r.logger.Warn("ignoring duplicate verify action", "action", action)
			continue
		}
		seen[action] = true

		h := &VerifyHandler{
			Action:      action,
			AccessCodes: r.AccessCodeService,
			Admission:   r.AdmissionControl,
			TrustProxy:  r.TrustProxy,
		}
		r.Mux.Handle("POST /v1/actions/"+action+"/verify",
			httpx.Chain(h,
				httpx.OptionalAuthn(r.verifier), // pin:audit callers see denial reasons
			),
		)
	}
}

func (r *Router) registerAccessCode() {
	h := &AccessCodeHandler{AccessCodes: r.AccessCodeService}

	// POST /v1/access-code - operator only, moderate rate limit by user
	r.Mux.Handle("POST /v1/access-code",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(jwtx.ScopeIssue),
			httpx.RateLimitByUser(httpx.ModerateLimit, r.TrustProxy),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit, r.TrustProxy),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.quotas),
			httpx.RateLimitByIP(httpx.LenientLimit, r.TrustProxy),
		),
	)
}
