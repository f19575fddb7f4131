package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/plantrent/plantrent/internal/auth"
	"github.com/plantrent/plantrent/internal/metrics"
)

// Authorizer decides whether a request carrying the given Authorization
// header holds the required permission.
type Authorizer interface {
	Authorize(ctx context.Context, header, required string) (*auth.Claims, error)
}

type authErrorResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// RequirePermission returns middleware that admits only bearers of a valid
// token carrying permission. The verified claims are stored in the request
// context for downstream handlers.
func RequirePermission(gate Authorizer, permission string, logger *slog.Logger, recorder metrics.Recorder) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := gate.Authorize(r.Context(), r.Header.Get("Authorization"), permission)
			if err != nil {
				authErr := asAuthError(err)
				recorder.IncAuthFailure(authErr.Kind.String())

				attrs := []slog.Attr{
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("permission", permission),
					slog.String("reason", authErr.Kind.String()),
					slog.Int("status_code", authErr.Status),
				}
				if cause := errors.Unwrap(authErr); cause != nil {
					attrs = append(attrs, slog.String("error", cause.Error()))
				}
				level := slog.LevelWarn
				if authErr.Retryable {
					level = slog.LevelError
				}
				logger.LogAttrs(r.Context(), level, "authorization failed", attrs...)

				writeAuthError(w, authErr)
				return
			}

			recorder.IncAuthSuccess()
			next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
		})
	}
}

func asAuthError(err error) *auth.Error {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return authErr
	}
	return &auth.Error{
		Kind:        auth.VerificationFailed,
		Code:        auth.CodeInvalidHeader,
		Description: "Unable to parse authentication token.",
		Status:      http.StatusUnauthorized,
	}
}

func writeAuthError(w http.ResponseWriter, authErr *auth.Error) {
	w.Header().Set("Content-Type", "application/json")
	if authErr.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="`+authErr.Code+`"`)
	}
	w.WriteHeader(authErr.Status)
	_ = json.NewEncoder(w).Encode(authErrorResponse{
		Code:        authErr.Code,
		Description: authErr.Description,
	})
}
