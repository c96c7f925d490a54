package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"uniregistry/pkg/requestcontext"
)

// RequestID assigns each request a uuid (or adopts the inbound X-Request-ID)
// and pins the request time so downstream code observes one consistent clock.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
