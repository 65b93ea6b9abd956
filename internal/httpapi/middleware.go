package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig enables the bearer-token guard on authoring and admin routes.
// With an empty Secret the guard lets every request through.
type AuthConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
}

type contextKey string

const principalContextKey contextKey = "principal"

// PrincipalFromContext returns the token subject of an authenticated request.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(principalContextKey).(string)
	return sub, ok
}

// authMiddleware verifies an HS256 bearer token and stores its subject in
// the request context.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(h.auth.Secret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bearer token required"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))

		subject, err := h.parseToken(tokenString)
		if err != nil {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid access token"})
			return
		}
		ctx := context.WithValue(r.Context(), principalContextKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) parseToken(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
	}
	if h.auth.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.auth.Issuer))
	}
	if h.auth.Audience != "" {
		opts = append(opts, jwt.WithAudience(h.auth.Audience))
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return h.auth.Secret, nil
	}, opts...); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}

// withCORS adds CORS headers for allowed origins. "*" allows every origin;
// an empty list allows none.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			_, ok := allowed[origin]
			if origin == "" || (!allowAll && !ok) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
