package web

import (
	"net/http"

	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/go-chi/chi/v5/middleware"
)

// requestMetadata attaches the client identity to the request context so
// Service writes can record it in the audit log.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.WithRequestMetadata(r.Context(), core.RequestMetadata{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
			RequestID: middleware.GetReqID(r.Context()),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
