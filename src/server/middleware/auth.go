package middleware

import (
	"net/http"
	"strings"
)

// BearerToken returns the token from an "Authorization: Bearer <jwt>" header,
// or "" when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
