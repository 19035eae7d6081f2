package jwt

import (
	"context"
	"net/http"
	"strings"

	"rubiechat/internal/pkg/logx"
)

type contextKey string

const (
	// ContextAuthPayloadKey is the context key under which the parsed Payload is stored.
	ContextAuthPayloadKey contextKey = "auth_payload"

	// SessionCookieName is the cookie carrying the session token for browser clients.
	SessionCookieName = "rubie_session"
)

// IdentityExtractorMiddleware looks for a session token in the Authorization header
// ("Bearer <token>") and then in the session cookie. A valid token puts its Payload
// into the request context. Missing or invalid tokens never fail the request; the
// caller is simply anonymous.
func IdentityExtractorMiddleware(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := ParseToken(tokenString, secretKey)
			if err != nil {
				logx.FromContext(r.Context()).Debug().Err(err).Msg("Invalid or expired session token, treating as anonymous")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPayload(r.Context(), payload)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// WithPayload returns a copy of ctx carrying payload.
func WithPayload(ctx context.Context, payload *Payload) context.Context {
	return context.WithValue(ctx, ContextAuthPayloadKey, payload)
}

// GetPayloadFromContext returns the session Payload, or nil for anonymous requests.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)

	if !ok {
		return nil
	}

	return payload
}
