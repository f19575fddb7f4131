// Package auth verifies bearer JWTs against a remote key set and checks
// route permissions carried in the token claims.
package auth

import "context"

type contextKey string

const claimsContextKey contextKey = "auth_claims"

// ContextWithClaims stores verified claims in the context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the verified claims, or nil on unauthenticated routes.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// SubjectFromContext returns the token subject, or "" if not authenticated.
func SubjectFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Subject
}
