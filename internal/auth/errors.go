package auth

import (
	"errors"
	"net/http"
)

// Kind classifies an authorization failure.
type Kind int

const (
	MissingHeader Kind = iota + 1
	MalformedHeader
	MalformedToken
	KeyNotFound
	TokenExpired
	InvalidClaims
	VerificationFailed
	ClaimsMissingPermissions
	PermissionDenied
)

// Wire codes written in the {code, description} error body.
const (
	CodeHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader = "invalid_header"
	CodeTokenExpired  = "token_expired"
	CodeInvalidClaims = "invalid_claims"
	CodeUnauthorized  = "unauthorized"
	CodeInvalidToken  = "invalid_token"
)

type kindInfo struct {
	name        string
	code        string
	status      int
	description string
}

var kinds = map[Kind]kindInfo{
	MissingHeader:            {"missing_header", CodeHeaderMissing, http.StatusUnauthorized, "Authorization header is expected."},
	MalformedHeader:          {"malformed_header", CodeInvalidHeader, http.StatusUnauthorized, "Authorization header must be bearer token."},
	MalformedToken:           {"malformed_token", CodeInvalidHeader, http.StatusUnauthorized, "Authorization malformed."},
	KeyNotFound:              {"key_not_found", CodeInvalidHeader, http.StatusUnauthorized, "Unable to find the appropriate key."},
	TokenExpired:             {"token_expired", CodeTokenExpired, http.StatusUnauthorized, "Token expired."},
	InvalidClaims:            {"invalid_claims", CodeInvalidClaims, http.StatusUnauthorized, "Incorrect claims. Please, check the audience and issuer."},
	VerificationFailed:       {"verification_failed", CodeInvalidHeader, http.StatusUnauthorized, "Unable to parse authentication token."},
	ClaimsMissingPermissions: {"claims_missing_permissions", CodeInvalidClaims, http.StatusBadRequest, "Permissions not included in JWT."},
	PermissionDenied:         {"permission_denied", CodeUnauthorized, http.StatusForbidden, "Permission not found."},
}

// String returns a stable snake_case name, suitable for logs and metrics.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "unknown"
}

// Error is the single error type returned by the authorization gate.
// Code and Description are what clients see; the cause is only for logs.
type Error struct {
	Kind        Kind
	Code        string
	Description string
	Status      int
	// Retryable is set when the failure came from a transient condition,
	// such as the key set endpoint being unreachable.
	Retryable bool

	cause error
}

func newError(kind Kind, cause error) *Error {
	info := kinds[kind]
	return &Error{
		Kind:        kind,
		Code:        info.code,
		Description: info.description,
		Status:      info.status,
		cause:       cause,
	}
}

func newHeaderError(description string) *Error {
	err := newError(MalformedHeader, nil)
	err.Description = description
	return err
}

func (e *Error) Error() string {
	msg := e.Code + ": " + e.Description
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return 0
}
