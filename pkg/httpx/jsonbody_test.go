package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/controlpin/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ActionID      string `json:"actionId"`
	CandidateCode string `json:"candidateCode"`
}

func decode(t *testing.T, body string, limit int64) (payload, error) {
	t.Helper()
	var p payload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := httpx.DecodeSingleJSON(httptest.NewRecorder(), req, &p, limit)
	return p, err
}

func TestDecodeSingleJSON(t *testing.T) {
	t.Run("single object", func(t *testing.T) {
		p, err := decode(t, ` {"actionId":"verify-pin","candidateCode":"0042"} `, 1024)
		require.NoError(t, err)
		require.Equal(t, "verify-pin", p.ActionID)
		require.Equal(t, "0042", p.CandidateCode)
	})

	t.Run("batch array", func(t *testing.T) {
		_, err := decode(t, `[{"candidateCode":"0000"},{"candidateCode":"0001"}]`, 1024)
		require.ErrorIs(t, err, httpx.ErrBatchRequest)
	})

	t.Run("concatenated objects", func(t *testing.T) {
		_, err := decode(t, `{"candidateCode":"0000"}{"candidateCode":"0001"}`, 1024)
		require.ErrorIs(t, err, httpx.ErrMalformed)
	})

	t.Run("trailing junk", func(t *testing.T) {
		_, err := decode(t, `{"candidateCode":"0000"} x`, 1024)
		require.ErrorIs(t, err, httpx.ErrMalformed)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := decode(t, `{"candidateCode":"0000","query":"mutation { verifyAccessPin }"}`, 1024)
		require.ErrorIs(t, err, httpx.ErrMalformed)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := decode(t, `"0000"`, 1024)
		require.ErrorIs(t, err, httpx.ErrMalformed)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := decode(t, "   ", 1024)
		require.ErrorIs(t, err, httpx.ErrMalformed)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := decode(t, `{"candidateCode":"`+strings.Repeat("1", 100)+`"}`, 32)
		require.ErrorIs(t, err, httpx.ErrBodyTooLarge)
	})
}
