// Package auth resolves the opaque user id of a request. Tokens are issued
// by an external identity provider; this package only verifies them.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"finboard/internal/log"
)

// DefaultHeader is the header trusted when no token secret is configured.
const DefaultHeader = "X-User-ID"

var ErrUnauthenticated = errors.New("unauthenticated")

// TokenVerifier checks HS256 bearer tokens and returns their subject.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier returns a verifier for secret. An empty issuer accepts any issuer.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses token and returns its subject.
func (v *TokenVerifier) Verify(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token is empty: %w", ErrUnauthenticated)
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("parse token: %w: %w", ErrUnauthenticated, err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("token has no subject: %w", ErrUnauthenticated)
	}
	return claims.Subject, nil
}

// Sign issues a token for subject. Used by tests and local tooling.
func (v *TokenVerifier) Sign(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticator extracts the user id of a request.
type Authenticator struct {
	verifier *TokenVerifier
	header   string
}

// New returns an authenticator. With a nil verifier the user id is read
// from header, which an upstream proxy is expected to set.
func New(verifier *TokenVerifier, header string) *Authenticator {
	if header == "" {
		header = DefaultHeader
	}
	return &Authenticator{verifier: verifier, header: header}
}

// UserID resolves the user of r.
func (a *Authenticator) UserID(r *http.Request) (string, error) {
	if a.verifier != nil {
		h := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return "", fmt.Errorf("missing bearer token: %w", ErrUnauthenticated)
		}
		return a.verifier.Verify(strings.TrimSpace(token))
	}
	id := strings.TrimSpace(r.Header.Get(a.header))
	if id == "" {
		return "", fmt.Errorf("missing %s header: %w", a.header, ErrUnauthenticated)
	}
	return id, nil
}

// Middleware rejects unauthenticated requests with 401 and stores the user
// id in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.UserID(r)
		if err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Authentication failed",
				log.FieldComponent, log.ComponentAuth, log.FieldPath, r.URL.Path, log.FieldError, err.Error())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "unauthenticated"})
			return
		}
		ctx := WithUserID(r.Context(), userID)
		ctx = log.WithLogger(ctx, log.FromContext(ctx).With(log.FieldUserID, userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type ctxKey struct{}

// WithUserID stores userID in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromCtx returns the user id stored in ctx.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
