package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/taskdeck-be/internal/auth"
	"github.com/rs/zerolog"
)

// AccessLogger emits one structured record per request: method, full path
// including the query string, response status, resolved username (or
// "anonymous") and duration in milliseconds. The record is emitted on every
// exit path; a panic escaping the inner stack is logged as a 500 before
// being re-raised. It also seeds the request identity that the auth
// middleware fills in, making the caller discoverable to downstream
// components without explicit plumbing.
func AccessLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, ident := auth.NewIdentityContext(r.Context())
			r = r.WithContext(ctx)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				rec := recover()
				if rec != nil {
					status = http.StatusInternalServerError
				} else if status == 0 {
					status = http.StatusOK
				}

				user := ident.Username
				if user == "" {
					user = "anonymous"
				}

				logger.Info().
					Str("method", r.Method).
					Str("path", r.URL.RequestURI()).
					Int("status", status).
					Str("user", user).
					Int64("duration_ms", time.Since(start).Milliseconds()).
					Msg("request completed")

				if rec != nil {
					panic(rec)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
