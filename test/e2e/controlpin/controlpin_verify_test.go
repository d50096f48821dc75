//go:build e2e

package controlpin_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/controlpin/pkg/jwtx"
	"github.com/aussiebroadwan/controlpin/pkg/pinsdk"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	baseURL := setupContainer(t, nil)
	client := pinsdk.NewClient(baseURL)

	res, err := client.Verify(t.Context(), action, "1234")
	require.NoError(t, err)
	require.False(t, res.Authorized, "nothing issued yet")

	issued := issueCode(t, baseURL)
	require.Equal(t, issued.IssuedAt.Add(3*time.Minute), issued.ExpiresAt)

	res, err = client.Verify(t.Context(), action, wrongCode(issued.Code))
	require.NoError(t, err)
	require.False(t, res.Authorized)
	require.Empty(t, res.Reason)

	res, err = client.Verify(t.Context(), action, issued.Code)
	require.NoError(t, err)
	require.True(t, res.Authorized)
}

func TestRegenerateInvalidatesPreviousCode(t *testing.T) {
	baseURL := setupContainer(t, nil)
	client := pinsdk.NewClient(baseURL)

	first := issueCode(t, baseURL)
	second := issueCode(t, baseURL)
	for second.Code == first.Code {
		second = issueCode(t, baseURL)
	}

	res, err := client.Verify(t.Context(), action, first.Code)
	require.NoError(t, err)
	require.False(t, res.Authorized)

	res, err = client.Verify(t.Context(), action, second.Code)
	require.NoError(t, err)
	require.True(t, res.Authorized)
}

func TestAuditCallerSeesReason(t *testing.T) {
	baseURL := setupContainer(t, nil)
	client := pinsdk.NewClient(baseURL).WithToken(operatorToken(t, jwtx.ScopeAudit))

	res, err := client.Verify(t.Context(), action, "1234")
	require.NoError(t, err)
	require.Equal(t, pinsdk.ReasonNoCodeIssued, res.Reason)

	issued := issueCode(t, baseURL)
	res, err = client.Verify(t.Context(), action, wrongCode(issued.Code))
	require.NoError(t, err)
	require.Equal(t, pinsdk.ReasonMismatch, res.Reason)
}

func TestGenerateRequiresIssueScope(t *testing.T) {
	baseURL := setupContainer(t, nil)

	_, err := pinsdk.NewClient(baseURL).GenerateAccessCode(t.Context())
	require.ErrorIs(t, err, pinsdk.ErrNoToken)

	_, err = pinsdk.NewClient(baseURL).WithToken("garbage").GenerateAccessCode(t.Context())
	var apiErr *pinsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = pinsdk.NewClient(baseURL).WithToken(operatorToken(t, jwtx.ScopeAudit)).GenerateAccessCode(t.Context())
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, pinsdk.ErrorCodeInsufficientScope, apiErr.Code)
}

func TestMalformedCandidateRejected(t *testing.T) {
	baseURL := setupContainer(t, nil)
	client := pinsdk.NewClient(baseURL)

	for _, candidate := range []string{"", "123", "12345", "abcd"} {
		_, err := client.Verify(t.Context(), action, candidate)
		var apiErr *pinsdk.APIError
		require.True(t, errors.As(err, &apiErr), "candidate %q", candidate)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	}

	_, err := client.Verify(t.Context(), "not-configured", "1234")
	var apiErr *pinsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
