package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "github.com/aussiebroadwan/controlpin/internal/controlpin/http"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/service"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store/drivers/memory"
	"github.com/aussiebroadwan/controlpin/pkg/cryptox"
	"github.com/aussiebroadwan/controlpin/pkg/jwtx"
	"github.com/aussiebroadwan/controlpin/pkg/pinsdk"
	"github.com/aussiebroadwan/controlpin/pkg/slogx"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

const issuer = "controlpin-test"

var (
	secret = []byte(strings.Repeat("s", jwtx.MinSecretLength))
	epoch  = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
)

type fixture struct {
	router *httpapi.Router
	clock  *clock.Mock
	codes  *service.AccessCodeService
	quotas *memory.Quotas
	signer *jwtx.HS256Signer
}

func newFixture(t *testing.T, st store.Store, actions ...string) *fixture {
	t.Helper()
	return newFixtureWithProxy(t, st, false, actions...)
}

func newFixtureWithProxy(t *testing.T, st store.Store, trustProxy bool, actions ...string) *fixture {
	t.Helper()

	clk := clock.NewMock()
	clk.Set(epoch)

	verifier, err := jwtx.NewHS256Verifier(secret, issuer, nil)
	require.NoError(t, err)
	signer, err := jwtx.NewHS256Signer(secret)
	require.NoError(t, err)

	quotas := memory.NewQuotas()
	codes := &service.AccessCodeService{
		Store:  st,
		Hasher: cryptox.CodeHasher{Pepper: []byte("test-pepper")},
		Clock:  clk,
	}

	router := httpapi.NewRouter(verifier, "test", st, quotas, slogx.Discard())
	router.Actions = actions
	router.TrustProxy = trustProxy
	router.AccessCodeService = codes
	router.AdmissionControl = &service.AdmissionControl{Quotas: quotas, Clock: clk}
	router.ApplyRoutes()

	return &fixture{router: router, clock: clk, codes: codes, quotas: quotas, signer: signer}
}

func (f *fixture) token(t *testing.T, scopes ...string) string {
	t.Helper()
	tok, err := f.signer.Sign(jwtx.NewAdminClaims("operator-1", issuer, scopes, time.Hour, time.Now()))
	require.NoError(t, err)
	return tok
}

type call struct {
	method string
	path   string
	body   string
	token  string
	remote string
	header map[string]string
}

func (f *fixture) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.remote != "" {
		req.RemoteAddr = c.remote
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) verify(t *testing.T, candidate string) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, call{
		method: http.MethodPost,
		path:   "/v1/actions/verify-pin/verify",
		body:   `{"candidateCode":"` + candidate + `"}`,
	})
}

func decodeVerify(t *testing.T, rec *httptest.ResponseRecorder) pinsdk.VerifyResponse {
	t.Helper()
	var out pinsdk.VerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) pinsdk.ErrorResponse {
	t.Helper()
	var out pinsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLivez(t *testing.T) {
	f := newFixture(t, memory.NewStore())

	rec := f.do(t, call{method: http.MethodGet, path: "/livez"})
	require.Equal(t, http.StatusOK, rec.Code)

	var health pinsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
	require.NotEmpty(t, rec.Header().Get(slogx.RequestIDHeader))
}

func TestReadyz(t *testing.T) {
	f := newFixture(t, memory.NewStore())

	rec := f.do(t, call{method: http.MethodGet, path: "/readyz"})
	require.Equal(t, http.StatusOK, rec.Code)

	var health pinsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Quotas)
}

func TestReadyzDegraded(t *testing.T) {
	f := newFixture(t, downStore{})

	rec := f.do(t, call{method: http.MethodGet, path: "/readyz"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var health pinsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, "error", health.Checks.Database)
}
