package middleware

import (
	"context"
	"net/http"
	"time"

	"gatherly/globals"
	"gatherly/logger"
	"gatherly/utils"
)

// SecurityHeaders applies a set of recommended HTTP security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// RequestLog tags each request with an id and logs method, path, remote
// address, and duration.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid := utils.GetUUID()
		w.Header().Set("X-Request-ID", rid)
		ctx := context.WithValue(r.Context(), globals.RequestIDKey, rid)

		next.ServeHTTP(w, r.WithContext(ctx))

		logger.Sugar.Infow("request",
			"id", rid,
			"method", r.Method,
			"path", r.RequestURI,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}
