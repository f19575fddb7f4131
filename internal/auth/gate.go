package auth

import (
	"context"
	"errors"
	"net/http"
)

const collapsedDescription = "Access denied due to invalid token"

// TokenVerifier validates an Authorization header value.
type TokenVerifier interface {
	Verify(ctx context.Context, header string) (*Claims, error)
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithCollapsedErrors reports every verification and permission failure as a
// generic 401 invalid_token. Header failures keep their own codes.
func WithCollapsedErrors() GateOption {
	return func(g *Gate) {
		g.collapse = true
	}
}

// Gate decides whether a request may reach a protected route.
type Gate struct {
	verifier TokenVerifier
	collapse bool
}

// NewGate creates a Gate over the given verifier.
func NewGate(verifier TokenVerifier, opts ...GateOption) *Gate {
	g := &Gate{verifier: verifier}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize verifies the header and checks the required permission.
// On failure the returned error is always an *Error.
func (g *Gate) Authorize(ctx context.Context, header, required string) (*Claims, error) {
	claims, err := g.verifier.Verify(ctx, header)
	if err != nil {
		return nil, g.present(err)
	}

	if err := CheckPermissions(required, claims); err != nil {
		return nil, g.present(err)
	}

	return claims, nil
}

func (g *Gate) present(err error) *Error {
	var authErr *Error
	if !errors.As(err, &authErr) {
		authErr = newError(VerificationFailed, err)
	}

	if !g.collapse || authErr.Kind == MissingHeader || authErr.Kind == MalformedHeader {
		return authErr
	}

	return &Error{
		Kind:        authErr.Kind,
		Code:        CodeInvalidToken,
		Description: collapsedDescription,
		Status:      http.StatusUnauthorized,
		Retryable:   authErr.Retryable,
		cause:       authErr,
	}
}
