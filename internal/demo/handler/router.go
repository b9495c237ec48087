package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invitedesk/pkg/platform/httputil"
	"invitedesk/pkg/platform/middleware/client"
	request "invitedesk/pkg/platform/middleware/request"
	"invitedesk/pkg/platform/middleware/requesttime"
)

const maxBodyBytes = 1 << 20

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger  *slog.Logger
	Latency request.LatencyObserver
	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
	// Delay is added before every API response.
	Delay time.Duration
}

// NewRouter wires the middleware chain, health, metrics and API routes.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(opts.Logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(opts.Logger))
	r.Use(requesttime.Middleware)
	r.Use(client.Middleware)
	r.Use(request.BodyLimit(maxBodyBytes))
	r.Use(request.Latency(opts.Latency, routePattern))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(request.Delay(opts.Delay))
		h.Register(r)
	})
	return r
}

// routePattern returns the matched chi pattern, which is only complete once
// the handler has run.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
