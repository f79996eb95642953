package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements PipelineHooks and HTTPHooks on top of Prometheus.
type Metrics struct {
	loads           *prometheus.CounterVec
	layouts         *prometheus.CounterVec
	layoutDuration  *prometheus.HistogramVec
	placedNodes     prometheus.Histogram
	renders         *prometheus.CounterVec
	renderDuration  prometheus.Histogram
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)

// NewMetrics registers the orgchart metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_chart_loads_total",
			Help: "Charts loaded, by result",
		}, []string{"result"}),
		layouts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_layouts_total",
			Help: "Layout passes, by visibility mode and result",
		}, []string{"mode", "result"}),
		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orgchart_layout_duration_seconds",
			Help:    "Layout pass duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"mode"}),
		placedNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "orgchart_layout_placed_nodes",
			Help:    "Nodes positioned per layout pass",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_renders_total",
			Help: "Render calls, by format and result",
		}, []string{"format", "result"}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "orgchart_render_duration_seconds",
			Help:    "Duration of rendering all requested formats",
			Buckets: prometheus.DefBuckets,
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_http_requests_total",
			Help: "HTTP requests served, by method, route and status code",
		}, []string{"method", "route", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orgchart_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	m.loads.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, mode string, placed int, d time.Duration, err error) {
	m.layouts.WithLabelValues(mode, result(err)).Inc()
	if err != nil {
		return
	}
	m.layoutDuration.WithLabelValues(mode).Observe(d.Seconds())
	m.placedNodes.Observe(float64(placed))
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		m.renders.WithLabelValues(f, result(err)).Inc()
	}
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
