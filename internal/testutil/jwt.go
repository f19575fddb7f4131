package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Defaults used by TokenIssuer.
const (
	TestKeyID    = "test-key"
	TestAudience = "rentPlants"
	TestIssuer   = "https://plantrent.test/"
)

// TokenIssuer signs RS256 tokens with a throwaway key.
type TokenIssuer struct {
	Key      *rsa.PrivateKey
	KeyID    string
	Audience string
	Issuer   string
}

// NewTokenIssuer generates a fresh RSA key.
func NewTokenIssuer(t testing.TB) *TokenIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return &TokenIssuer{
		Key:      key,
		KeyID:    TestKeyID,
		Audience: TestAudience,
		Issuer:   TestIssuer,
	}
}

// Claims returns a valid claim set granting permissions.
// Pass nil permissions to leave the claim out.
func (i *TokenIssuer) Claims(permissions []string) jwt.MapClaims {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": i.Issuer,
		"aud": i.Audience,
		"sub": "auth0|tester",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if permissions != nil {
		claims["permissions"] = permissions
	}
	return claims
}

// Token signs a valid token granting permissions.
func (i *TokenIssuer) Token(t testing.TB, permissions ...string) string {
	t.Helper()
	if permissions == nil {
		permissions = []string{}
	}
	return i.Sign(t, i.Claims(permissions))
}

// Header returns "Bearer <token>" for a valid token granting permissions.
func (i *TokenIssuer) Header(t testing.TB, permissions ...string) string {
	t.Helper()
	return "Bearer " + i.Token(t, permissions...)
}

// Sign signs claims with the issuer's key id.
func (i *TokenIssuer) Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	return i.SignWithKeyID(t, claims, i.KeyID)
}

// SignWithKeyID signs claims with an explicit kid header; "" omits it.
func (i *TokenIssuer) SignWithKeyID(t testing.TB, claims jwt.Claims, kid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(i.Key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// JWKS returns the key set document publishing the issuer's public key.
func (i *TokenIssuer) JWKS(t testing.TB) []byte {
	t.Helper()
	pub := i.Key.PublicKey
	doc := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": i.KeyID,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}
	return body
}

// JWKSServer serves a key set and counts requests.
type JWKSServer struct {
	*httptest.Server
	hits atomic.Int64
}

// Hits returns how many times the key set was requested.
func (s *JWKSServer) Hits() int64 {
	return s.hits.Load()
}

// NewJWKSServer serves the issuer's key set until the test ends.
func NewJWKSServer(t testing.TB, issuer *TokenIssuer) *JWKSServer {
	t.Helper()
	body := issuer.JWKS(t)
	return NewJWKSServerFunc(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
}

// NewJWKSServerFunc serves key set requests with a custom handler.
func NewJWKSServerFunc(t testing.TB, fn http.HandlerFunc) *JWKSServer {
	t.Helper()
	s := &JWKSServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		fn(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}
