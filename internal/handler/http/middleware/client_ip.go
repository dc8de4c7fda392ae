package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/presence-backend-go/internal/service/network"
)

type clientIPKey struct{}

// ClientIP resolves the caller's address and stores it in the request context.
// Lookup order: trustedHeaders as given, the first X-Forwarded-For hop,
// X-Real-IP, then the connection's remote host.
func ClientIP(trustedHeaders []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := network.Normalize(resolveClientIP(r, trustedHeaders))
			ctx := context.WithValue(r.Context(), clientIPKey{}, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveClientIP(r *http.Request, trustedHeaders []string) string {
	for _, h := range trustedHeaders {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			return v
		}
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
		return v
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientIPFromContext returns the address stored by ClientIP, or "" when the
// middleware did not run.
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
