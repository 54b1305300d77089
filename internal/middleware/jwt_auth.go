package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/api_context"
	"github.com/fhuszti/booru-ms-go/internal/handler/api"
	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/uuid"
	"github.com/golang-jwt/jwt/v4"
)

const (
	tokenIssuer   = "core"
	tokenAudience = "booru"
)

// WithJWTAuth resolves a Bearer RS256 token whose sub is a user id. Requests
// without a valid token keep whatever caller is already in the context.
func WithJWTAuth(jwtPublicKeyPEM string, resolver port.IdentityResolver) func(http.Handler) http.Handler {
	// Passthrough if no public key is provided
	if jwtPublicKeyPEM == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(jwtPublicKeyPEM))
	if err != nil {
		panic(fmt.Sprintf("invalid RSA public key: %v", err))
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			raw := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.MapClaims{}
			tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				return pubKey, nil
			})
			if err != nil || !tok.Valid {
				logger.Debugf(r.Context(), "ignoring invalid bearer token: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if reason := checkClaims(claims); reason != "" {
				logger.Debugf(r.Context(), "ignoring bearer token: %s", reason)
				next.ServeHTTP(w, r)
				return
			}

			sub, _ := claims["sub"].(string)
			userID, err := uuid.Parse(sub)
			if err != nil {
				logger.Debugf(r.Context(), "ignoring bearer token with sub %q", sub)
				next.ServeHTTP(w, r)
				return
			}

			caller, err := resolver.ResolveUser(r.Context(), userID)
			if err != nil {
				api.WriteError(w, http.StatusInternalServerError, "Could not resolve user", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(api_context.WithCaller(r.Context(), caller)))
		})
	}
}

func checkClaims(claims jwt.MapClaims) string {
	now := time.Now()
	if !claims.VerifyIssuer(tokenIssuer, true) {
		return "bad issuer"
	}
	if !claims.VerifyAudience(tokenAudience, true) {
		return "bad audience"
	}
	if !claims.VerifyExpiresAt(now.Unix(), true) {
		return "token expired"
	}
	if iat, ok := asInt64(claims["iat"]); ok && time.Unix(iat, 0).After(now.Add(30*time.Second)) {
		return "invalid iat"
	}
	return ""
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case json.Number:
		i, err := x.Int64()
		if err == nil {
			return i, true
		}
	}
	return 0, false
}
