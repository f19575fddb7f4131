package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plantrent/plantrent/internal/testutil"
)

func newTestGate(t *testing.T, opts ...GateOption) (*Gate, *testutil.TokenIssuer) {
	t.Helper()
	issuer := testutil.NewTokenIssuer(t)
	srv := testutil.NewJWKSServer(t, issuer)

	resolver := NewJWKSResolver(JWKSConfig{URL: srv.URL, RetryBase: time.Millisecond})
	verifier := NewVerifier(resolver, VerifierConfig{Audience: issuer.Audience, Issuer: issuer.Issuer})
	return NewGate(verifier, opts...), issuer
}

func TestGate_Authorize(t *testing.T) {
	gate, issuer := newTestGate(t)
	ctx := context.Background()

	t.Run("renters with permission", func(t *testing.T) {
		claims, err := gate.Authorize(ctx, issuer.Header(t, "get:renters"), "get:renters")
		require.NoError(t, err)
		require.Contains(t, claims.Permissions, "get:renters")
	})

	t.Run("post plants without permission", func(t *testing.T) {
		_, err := gate.Authorize(ctx, issuer.Header(t, "get:invoice"), "post:plants")

		var authErr *Error
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, PermissionDenied, authErr.Kind)
		require.Equal(t, CodeUnauthorized, authErr.Code)
		require.Equal(t, "Permission not found.", authErr.Description)
		require.Equal(t, http.StatusForbidden, authErr.Status)
	})

	t.Run("permissions claim absent", func(t *testing.T) {
		header := "Bearer " + issuer.Sign(t, issuer.Claims(nil))
		_, err := gate.Authorize(ctx, header, "get:rented")

		var authErr *Error
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, ClaimsMissingPermissions, authErr.Kind)
		require.Equal(t, CodeInvalidClaims, authErr.Code)
		require.Equal(t, http.StatusBadRequest, authErr.Status)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := gate.Authorize(ctx, "", "get:renters")
		require.Equal(t, MissingHeader, KindOf(err))
	})
}

func TestGate_CollapsedErrors(t *testing.T) {
	gate, issuer := newTestGate(t, WithCollapsedErrors())
	ctx := context.Background()

	t.Run("permission failure collapses", func(t *testing.T) {
		_, err := gate.Authorize(ctx, issuer.Header(t, "get:invoice"), "post:plants")

		var authErr *Error
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, CodeInvalidToken, authErr.Code)
		require.Equal(t, http.StatusUnauthorized, authErr.Status)
		require.Equal(t, PermissionDenied, authErr.Kind)
	})

	t.Run("verification failure collapses", func(t *testing.T) {
		c := issuer.Claims([]string{"get:invoice"})
		c["exp"] = time.Now().Add(-time.Hour).Unix()
		_, err := gate.Authorize(ctx, "Bearer "+issuer.Sign(t, c), "get:invoice")

		var authErr *Error
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, CodeInvalidToken, authErr.Code)
		require.Equal(t, TokenExpired, authErr.Kind)
	})

	t.Run("header failures keep their code", func(t *testing.T) {
		_, err := gate.Authorize(ctx, "", "get:invoice")

		var authErr *Error
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, CodeHeaderMissing, authErr.Code)
	})
}
