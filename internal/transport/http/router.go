// Package httptransport assembles the HTTP surface: feature routers under
// /api, the metrics endpoint, and static avatar serving.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	dErrors "phonebook/pkg/domainerrors"
	"phonebook/pkg/httputil"
)

// FeatureHandler mounts a feature's routes on a router.
type FeatureHandler interface {
	Register(r chi.Router)
}

// NewRouter wires all endpoints. avatarDir may be empty when avatars are not
// served from local disk.
func NewRouter(logger *slog.Logger, avatarDir string, features ...FeatureHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(tracing)
	r.Use(accessLog(logger))

	r.Handle("/metrics", promhttp.Handler())

	if avatarDir != "" {
		r.Handle("/avatars/*", http.StripPrefix("/avatars/", http.FileServer(http.Dir(avatarDir))))
	}

	r.Route("/api", func(api chi.Router) {
		for _, f := range features {
			f.Register(api)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Route not found"))
	})
	return r
}

// tracing opens a span per request; with no exporter configured the global
// provider is a no-op.
func tracing(next http.Handler) http.Handler {
	tracer := otel.Tracer("phonebook/http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}
