package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningAlgorithm is the only accepted token algorithm.
const SigningAlgorithm = "RS256"

// Claims are the verified token claims.
type Claims struct {
	jwt.RegisteredClaims
	// Permissions is nil when the claim is absent or null.
	Permissions []string `json:"permissions"`
}

// VerifierConfig holds the expected token audience and issuer.
type VerifierConfig struct {
	Audience string
	Issuer   string
	Leeway   time.Duration
	// Now overrides the clock used for exp/nbf checks.
	Now func() time.Time
}

// Verifier validates bearer tokens signed by keys from a KeyResolver.
type Verifier struct {
	keys   KeyResolver
	parser *jwt.Parser
}

// NewVerifier creates a Verifier.
func NewVerifier(keys KeyResolver, cfg VerifierConfig) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{SigningAlgorithm}),
		jwt.WithAudience(cfg.Audience),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(cfg.Now))
	}

	return &Verifier{
		keys:   keys,
		parser: jwt.NewParser(opts...),
	}
}

// Verify extracts the bearer token from an Authorization header value and
// validates its signature, expiry, audience and issuer.
// Every failure is an *Error.
func (v *Verifier) Verify(ctx context.Context, header string) (*Claims, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return nil, err
	}

	kid, err := unverifiedKeyID(raw)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	_, err = v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.keys.ResolveKey(ctx, kid)
	})
	if err != nil {
		return nil, classify(err)
	}

	return claims, nil
}

// unverifiedKeyID reads the kid from the token header without verifying anything.
func unverifiedKeyID(raw string) (string, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return "", newError(MalformedToken, errors.New("token must have three segments"))
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", newError(MalformedToken, err)
	}

	var header struct {
		Kid string `json:"kid"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return "", newError(MalformedToken, err)
	}
	if header.Kid == "" {
		return "", newError(MalformedToken, errors.New("token header has no kid"))
	}

	return header.Kid, nil
}

// classify maps a parser error to an *Error. Expiry wins over other claim
// failures; key resolution errors pass through unchanged.
func classify(err error) *Error {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr
	}

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return newError(TokenExpired, err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return newError(InvalidClaims, err)
	default:
		return newError(VerificationFailed, err)
	}
}
