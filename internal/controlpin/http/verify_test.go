package http_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/controlpin/internal/controlpin/domain"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store"
	"github.com/aussiebroadwan/controlpin/internal/controlpin/store/drivers/memory"
	"github.com/aussiebroadwan/controlpin/pkg/jwtx"
	"github.com/aussiebroadwan/controlpin/pkg/pinsdk"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("database is locked")

// downStore fails every operation.
type downStore struct{}

func (downStore) AccessCodes() store.AccessCodes                        { return downCodes{} }
func (downStore) ApplyMigrations() error                                 { return nil }
func (downStore) Close() error                                           { return nil }
func (downStore) Ping(context.Context) error                             { return errDown }
func (downStore) Tx(context.Context) (store.Tx, error)                   { return nil, errDown }
func (downStore) WithTx(context.Context, func(tx store.Tx) error) error { return errDown }

type downCodes struct{}

func (downCodes) GetAccessCode(context.Context) (domain.AccessCode, error) {
	return domain.AccessCode{}, errDown
}
func (downCodes) DeleteAccessCodes(context.Context) error                   { return errDown }
func (downCodes) InsertAccessCode(context.Context, domain.AccessCode) error { return errDown }

func issue(t *testing.T, f *fixture, code string) {
	t.Helper()
	f.codes.Draw = func() (string, error) { return code, nil }
	_, err := f.codes.Generate(context.Background())
	require.NoError(t, err)
}

func TestVerifyScenario(t *testing.T) {
	f := newFixture(t, memory.NewStore())
	issue(t, f, "4821")

	f.clock.Add(time.Minute)

	rec := f.verify(t, "4821")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeVerify(t, rec).Authorized)

	rec = f.verify(t, "0000")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeVerify(t, rec)
	require.False(t, res.Authorized)
	require.Empty(t, res.Reason, "anonymous callers get a generic denial")

	f.clock.Add(3 * time.Minute)

	rec = f.verify(t, "4821")
	require.Equal(t, http.StatusOK, rec.Code)
	res = decodeVerify(t, rec)
	require.False(t, res.Authorized)
	require.Empty(t, res.Reason)
}

func TestVerifyDenialsLookAlike(t *testing.T) {
	f := newFixture(t, memory.NewStore())

	noCode := f.verify(t, "1234").Body.String()

	issue(t, f, "4821")
	mismatch := f.verify(t, "1234").Body.String()

	f.clock.Add(3 * time.Minute)
	expired := f.verify(t, "4821").Body.String()

	require.Equal(t, noCode, mismatch)
	require.Equal(t, noCode, expired)
}

func TestVerifyRateLimited(t *testing.T) {
	f := newFixture(t, memory.NewStore())
	issue(t, f, "4821")

	for i := range 5 {
		rec := f.verify(t, "0000")
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d", i+1)
	}

	// the correct code is not even checked once the window is exhausted
	rec := f.verify(t, "4821")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	res := decodeVerify(t, rec)
	require.False(t, res.Authorized)
	require.Equal(t, 300, res.RetryAfterSeconds)
	require.Equal(t, "300", rec.Header().Get("Retry-After"))

	f.clock.Add(4*time.Minute + 30*time.Second + 500*time.Millisecond)
	rec = f.verify(t, "4821")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	secs, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	require.Equal(t, 30, secs, "retry hints round up")

	f.clock.Add(30 * time.Second)
	issue(t, f, "4821")
	rec = f.verify(t, "4821")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeVerify(t, rec).Authorized)
}

func TestVerifyActionIsolation(t *testing.T) {
	f := newFixture(t, memory.NewStore(), "verify-pin", "open-bay-door")
	issue(t, f, "4821")

	for range 5 {
		f.verify(t, "0000")
	}
	require.Equal(t, http.StatusTooManyRequests, f.verify(t, "4821").Code)

	rec := f.do(t, call{
		method: http.MethodPost,
		path:   "/v1/actions/open-bay-door/verify",
		body:   `{"candidateCode":"4821"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeVerify(t, rec).Authorized)
}

func TestVerifyUnknownAction(t *testing.T) {
	f := newFixture(t, memory.NewStore())

	rec := f.do(t, call{
		method: http.MethodPost,
		path:   "/v1/actions/something-else/verify",
		body:   `{"candidateCode":"4821"}`,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerifyMalformedRequestsDoNotConsumeQuota(t *testing.T) {
	f := newFixture(t, memory.NewStore())
	issue(t, f, "4821")

	bodies := map[string]string{
		"batch":           `[{"candidateCode":"0000"},{"candidateCode":"0001"}]`,
		"unknown field":   `{"candidateCode":"0000","query":"mutation { verifyAccessPin }"}`,
		"trailing object": `{"candidateCode":"0000"}{"candidateCode":"0001"}`,
		"not json":        `candidateCode=0000`,
		"short code":      `{"candidateCode":"000"}`,
		"long code":       `{"candidateCode":"00000"}`,
		"non digits":      `{"candidateCode":"12ab"}`,
		"numeric code":    `{"candidateCode":4821}`,
		"action mismatch": `{"actionId":"open-bay-door","candidateCode":"0000"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			for range 3 {
				rec := f.do(t, call{method: http.MethodPost, path: "/v1/actions/verify-pin/verify", body: body})
				require.Equal(t, http.StatusBadRequest, rec.Code)
				require.Equal(t, pinsdk.ErrorCodeInvalidRequest, decodeError(t, rec).Error)
			}
		})
	}

	require.Equal(t, 0, f.quotas.Len())
	rec := f.verify(t, "4821")
	require.True(t, decodeVerify(t, rec).Authorized)
}

func TestVerifyBodyTooLarge(t *testing.T) {
	f := newFixture(t, memory.NewStore())

	body := `{"candidateCode":"0000","actionId":"` + strings.Repeat("a", 2048) + `"}`
	rec := f.do(t, call{method: http.MethodPost, path: "/v1/actions/verify-pin/verify", body: body})
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Equal(t, 0, f.quotas.Len())
}

func TestVerifyMatchingActionID(t *testing.T) {
	f := newFixture(t, memory.NewStore())
	issue(t, f, "4821")

	rec := f.do(t, call{
		method: http.MethodPost,
		path:   "/v1/actions/verify-pin/verify",
		body:   `{"actionId":"verify-pin","candidateCode":"4821"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeVerify(t, rec).Authorized)
}

func TestVerifyIgnoresSpoofedForwardingHeaders(t *testing.T) {
	f := newFixture(t, memory.NewStore())
	issue(t, f, "4821")

	for i := range 6 {
		rec := f.do(t, call{
			method: http.MethodPost,
			path:   "/v1/actions/verify-pin/verify",
			body:   `{"candidateCode":"0000"}`,
			header: map[string]string{"X-Forwarded-For": "203.0.113." + strconv.Itoa(i)},
		})
		if i < 5 {
			require.Equal(t, http.StatusOK, rec.Code)
		} else {
			require.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}

	// a different peer has its own window
	rec := f.do(t, call{
		method: http.MethodPost,
		path:   "/v1/actions/verify-pin/verify",
		body:   `{"candidateCode":"4821"}`,
		remote: "198.51.100.7:5555",
	})
	require.True(t, decodeVerify(t, rec).Authorized)
}

func TestVerifyTrustedCallerSeesReason(t *testing.T) {
	f := newFixture(t, memory.NewStore())
	audit := f.token(t, jwtx.ScopeAudit)

	remote := "192.0.2.1:1234"
	verifyAs := func(token, candidate string) pinsdk.VerifyResponse {
		rec := f.do(t, call{
			method: http.MethodPost,
			path:   "/v1/actions/verify-pin/verify",
			body:   `{"candidateCode":"` + candidate + `"}`,
			token:  token,
			remote: remote,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		return decodeVerify(t, rec)
	}

	require.Equal(t, pinsdk.ReasonNoCodeIssued, verifyAs(audit, "1111").Reason)

	issue(t, f, "4821")
	require.Equal(t, pinsdk.ReasonMismatch, verifyAs(audit, "1111").Reason)

	granted := verifyAs(audit, "4821")
	require.True(t, granted.Authorized)
	require.Empty(t, granted.Reason)

	f.clock.Add(3 * time.Minute)
	require.Equal(t, pinsdk.ReasonExpired, verifyAs(audit, "4821").Reason)

	// an issue-only token is not trusted with reasons, a forged one is anonymous
	remote = "192.0.2.2:1234"
	require.Empty(t, verifyAs(f.token(t, jwtx.ScopeIssue), "4821").Reason)
	require.Empty(t, verifyAs("not-a-token", "4821").Reason)
}

func TestVerifyStoreDownFailsClosed(t *testing.T) {
	f := newFixture(t, downStore{})

	rec := f.verify(t, "4821")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeVerify(t, rec)
	require.False(t, res.Authorized)
	require.Empty(t, res.Reason)

	rec = f.do(t, call{
		method: http.MethodPost,
		path:   "/v1/actions/verify-pin/verify",
		body:   `{"candidateCode":"4821"}`,
		token:  f.token(t, jwtx.ScopeAudit),
	})
	require.Equal(t, pinsdk.ReasonUnavailable, decodeVerify(t, rec).Reason)
}

func TestVerifyBehindProxyIgnoresSpoofedHops(t *testing.T) {
	f := newFixtureWithProxy(t, memory.NewStore(), true)
	issue(t, f, "4821")

	for i := range 6 {
		rec := f.do(t, call{
			method: http.MethodPost,
			path:   "/v1/actions/verify-pin/verify",
			body:   `{"candidateCode":"0000"}`,
			remote: "172.16.0.1:443",
			header: map[string]string{"X-Forwarded-For": "10.0.0." + strconv.Itoa(i) + ", 198.51.100.9"},
		})
		if i < 5 {
			require.Equal(t, http.StatusOK, rec.Code, "attempt %d", i+1)
		} else {
			require.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}
	require.Equal(t, 1, f.quotas.Len())

	// a different client behind the same proxy has its own window
	rec := f.do(t, call{
		method: http.MethodPost,
		path:   "/v1/actions/verify-pin/verify",
		body:   `{"candidateCode":"4821"}`,
		remote: "172.16.0.1:443",
		header: map[string]string{"X-Forwarded-For": "198.51.100.10"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeVerify(t, rec).Authorized)
}

func TestRouterSkipsDuplicateActions(t *testing.T) {
	var f *fixture
	require.NotPanics(t, func() {
		f = newFixture(t, memory.NewStore(), "verify-pin", "open-bay-door", "verify-pin")
	})
	issue(t, f, "4821")
	require.True(t, decodeVerify(t, f.verify(t, "4821")).Authorized)
}
