package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	listview "github.com/goliatone/go-listview/components/listview"
)

// Registry exposes list-view telemetry as prometheus metrics.
type Registry struct {
	reg      *prometheus.Registry
	Events   *prometheus.CounterVec
	Errors   *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
	Records  *prometheus.GaugeVec
	Requests *prometheus.CounterVec
}

var _ listview.Telemetry = (*Registry)(nil)

// NewRegistry builds an isolated registry with the list-view collectors.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "listview_events_total",
		Help: "Telemetry events by name.",
	}, []string{"event"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "listview_errors_total",
		Help: "Error events by name and view.",
	}, []string{"event", "kind"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "listview_duration_seconds",
		Help:    "Duration of fetches and backend requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event"})
	records := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "listview_records",
		Help: "Records in the latest snapshot per view.",
	}, []string{"kind"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "listview_backend_requests_total",
		Help: "Admin API requests by method and status class.",
	}, []string{"method", "class"})
	r.MustRegister(events, errs, latency, records, requests)
	return &Registry{
		reg:      r,
		Events:   events,
		Errors:   errs,
		Latency:  latency,
		Records:  records,
		Requests: requests,
	}
}

// Record maps a telemetry event onto the collectors.
func (r *Registry) Record(_ context.Context, event string, payload map[string]any) {
	r.Events.WithLabelValues(event).Inc()
	kind, _ := payload["kind"].(string)
	if strings.HasSuffix(event, ".error") {
		r.Errors.WithLabelValues(event, kind).Inc()
	}
	if d, ok := payload["duration"].(time.Duration); ok {
		r.Latency.WithLabelValues(event).Observe(d.Seconds())
	}
	switch event {
	case "listview.fetch":
		if n, ok := payload["count"].(int); ok {
			r.Records.WithLabelValues(kind).Set(float64(n))
		}
	case "backend.request", "mockapi.request":
		method, _ := payload["method"].(string)
		status, _ := payload["status"].(int)
		r.Requests.WithLabelValues(method, statusClass(status)).Inc()
	}
}

// Handler serves the registry in the prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Mount exposes the registry at path on a fiber router.
func (r *Registry) Mount(router fiber.Router, path string) {
	router.Get(path, adaptor.HTTPHandler(r.Handler()))
}

// Serve runs a standalone /metrics listener until ctx is done.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	r.Mount(app, "/metrics")
	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()
	return app.Listen(addr)
}

func statusClass(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	}
	return "5xx"
}
