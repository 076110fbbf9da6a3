package middleware

import (
	"crypto/subtle"
	"net/http"
)

// WebhookSecret admits requests that present the shared channel secret as a
// bearer token or in X-Webhook-Secret.
func WebhookSecret(secret string) func(http.Handler) http.Handler {
	expected := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(expected) == 0 {
				writeError(w, http.StatusInternalServerError, "webhook_not_configured", "webhook secret not configured")
				return
			}

			presented := r.Header.Get("X-Webhook-Secret")
			if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
				presented = token
			}
			if subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid_webhook_secret", "invalid webhook secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
