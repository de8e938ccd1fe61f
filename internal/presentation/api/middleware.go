package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rsvshop/rsvshop/internal/infrastructure/json"
	"github.com/rsvshop/rsvshop/internal/infrastructure/logging"
)

func (app *Application) rateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := app.ratelimiter.GetSourceKey(r)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(app.ratelimiter.GetMaxBurst()))

		if !app.ratelimiter.Allow(key) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			app.metrics.IncRateLimited()
			app.logger.Warn(logging.General, logging.RateLimiting, "request rate limited", map[logging.ExtraKey]any{
				logging.ClientIp: key,
				logging.Path:     r.URL.Path,
			})
			_ = json.WriteRateLimitError(w, app.ratelimiter.RetryAfter())
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(app.ratelimiter.Remaining(key)))
		next.ServeHTTP(w, r)
	})
}

func (app *Application) enableCors(next http.Handler) http.Handler {
	origins := app.config.HTTP.AllowedOrigins
	allowAny := slices.Contains(origins, "*")
	allowedHeaders := strings.Join(app.config.HTTP.AllowedHeaders, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case allowAny:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		// allow preflight requests from the browser API
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *Application) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		app.logger.Info(logging.RequestResponse, logging.Api, "request completed", map[logging.ExtraKey]any{
			logging.RequestID:  middleware.GetReqID(r.Context()),
			logging.ClientIp:   r.RemoteAddr,
			logging.Method:     r.Method,
			logging.Path:       r.URL.Path,
			logging.StatusCode: status,
			logging.BodySize:   ww.BytesWritten(),
			logging.Latency:    time.Since(start).String(),
		})
	})
}

// recoverer turns a handler panic into a JSON 500 so clients never see a
// dropped connection or an HTML error page.
func (app *Application) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			app.logger.Error(logging.Internal, logging.Recovery, "handler panicked", map[logging.ExtraKey]any{
				logging.RequestID:    middleware.GetReqID(r.Context()),
				logging.Path:         r.URL.Path,
				logging.ErrorMessage: fmt.Sprint(rvr),
				"Stack":              string(debug.Stack()),
			})

			_ = json.WriteInternalError(w)
		}()

		next.ServeHTTP(w, r)
	})
}
