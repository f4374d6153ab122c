package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Basavaraj-fidelis/wfh/internal/errors"
)

// TokenConfig carries the static bearer tokens for the two caller classes:
// workstation agents (ingestion) and admins (reporting/retention). Full
// identity management lives upstream; the hub only checks token equality.
type TokenConfig struct {
	AgentToken string
	AdminToken string
}

type TokenMiddleware struct {
	config TokenConfig
}

func NewTokenMiddleware(config TokenConfig) *TokenMiddleware {
	return &TokenMiddleware{config: config}
}

// RequireAgent guards the ingestion endpoints
func (m *TokenMiddleware) RequireAgent(next http.Handler) http.Handler {
	return m.require(m.config.AgentToken, next)
}

// RequireAdmin guards the reporting and retention endpoints
func (m *TokenMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.require(m.config.AdminToken, next)
}

func (m *TokenMiddleware) require(expected string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if expected == "" {
			handleError(w, errors.NewAuthError("endpoint token not configured", nil))
			return
		}

		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil))
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			handleError(w, errors.NewAuthError("invalid token", nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Helper functions

func extractToken(r *http.Request) string {
	bearerToken := r.Header.Get("Authorization")
	if len(strings.Split(bearerToken, " ")) == 2 {
		return strings.Split(bearerToken, " ")[1]
	}
	return ""
}

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*errors.APIError); ok {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
