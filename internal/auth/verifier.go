// Package auth verifies bearer tokens issued by an Auth0-style identity
// provider and checks their permission claims.
package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"fullstack/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims the API relies on. Permissions stays nil when
// the token carries no permissions claim at all.
type Claims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether perm was granted.
func (c *Claims) HasPermission(perm string) bool {
	return slices.Contains(c.Permissions, perm)
}

type Options struct {
	// Audience and Issuer are checked when non-empty.
	Audience string
	Issuer   string
	// JWKS enables RS256 tokens.
	JWKS *JWKSCache
	// HS256Secret enables HS256 tokens signed with a shared secret.
	HS256Secret []byte
}

type Verifier struct {
	opts    Options
	methods []string
}

func NewVerifier(opts Options) *Verifier {
	var methods []string
	if opts.JWKS != nil {
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	}
	if len(opts.HS256Secret) > 0 {
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	}
	return &Verifier{opts: opts, methods: methods}
}

// Enabled reports whether any signing method is configured.
func (v *Verifier) Enabled() bool {
	return v != nil && len(v.methods) > 0
}

// TokenFromHeader extracts the bearer token from an Authorization header.
func TokenFromHeader(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) == 0 {
		return "", apperr.NewAuthError(http.StatusUnauthorized, apperr.CodeHeaderMissing,
			"Authorization header is expected.")
	}
	switch {
	case !strings.EqualFold(parts[0], "bearer"):
		return "", apperr.NewAuthError(http.StatusUnauthorized, apperr.CodeInvalidHeader,
			`Authorization header must start with "Bearer".`)
	case len(parts) == 1:
		return "", apperr.NewAuthError(http.StatusUnauthorized, apperr.CodeInvalidHeader,
			"Token not found.")
	case len(parts) > 2:
		return "", apperr.NewAuthError(http.StatusUnauthorized, apperr.CodeInvalidHeader,
			"Authorization header must be bearer token.")
	}
	return parts[1], nil
}

// Verify checks the signature and standard claims of raw. Failures are
// returned as *apperr.AuthError.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	if !v.Enabled() {
		return nil, apperr.NewAuthError(http.StatusUnauthorized, apperr.CodeInvalidHeader,
			"Token verification is not configured.")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods(v.methods)}
	if v.opts.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.opts.Audience))
	}
	if v.opts.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.opts.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.key(ctx, t)
	}, opts...)
	if err != nil {
		return nil, classify(err)
	}
	if claims.Permissions == nil {
		return nil, apperr.NewAuthError(http.StatusBadRequest, apperr.CodeInvalidClaims,
			"Permissions not included in JWT.")
	}
	return claims, nil
}

func (v *Verifier) key(ctx context.Context, t *jwt.Token) (any, error) {
	switch t.Method.(type) {
	case *jwt.SigningMethodRSA:
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errKeyNotFound
		}
		return v.opts.JWKS.GetKey(ctx, kid)
	case *jwt.SigningMethodHMAC:
		return v.opts.HS256Secret, nil
	}
	return nil, jwt.ErrTokenSignatureInvalid
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperr.NewAuthError(http.StatusUnauthorized, apperr.CodeTokenExpired, "Token expired.")
	case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return apperr.NewAuthError(http.StatusUnauthorized, apperr.CodeInvalidClaims,
			"Incorrect claims. Please, check the audience and issuer.")
	case errors.Is(err, errKeyNotFound):
		return apperr.NewAuthError(http.StatusBadRequest, apperr.CodeInvalidHeader,
			"Unable to find the appropriate key.")
	}
	return apperr.NewAuthError(http.StatusBadRequest, apperr.CodeInvalidHeader,
		"Unable to parse authentication token.")
}

// CheckPermission fails with 403 when claims lack perm.
func CheckPermission(claims *Claims, perm string) error {
	if claims == nil || !claims.HasPermission(perm) {
		return apperr.NewAuthError(http.StatusForbidden, apperr.CodeUnauthorized, "Permission not found.")
	}
	return nil
}
