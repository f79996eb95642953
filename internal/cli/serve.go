package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
		traceFile string
		flags     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve the layout engine over HTTP.

Endpoints:
  POST /v1/layout                 chart JSON in, layout JSON out
  POST /v1/render?format=svg|dot|png
  GET  /healthz
  GET  /metrics                   Prometheus metrics

Query parameters mode, collapse (comma-separated) and viewport override the
layout defaults per request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			if noMetrics {
				cfg.Serve.Metrics = false
			}
			if traceFile != "" {
				cfg.Serve.TraceFile = traceFile
			}
			return c.runServe(cmd.Context(), cfg.Serve, flags.options(cfg))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().StringVar(&traceFile, "trace-file", "", "write OpenTelemetry spans as JSON to this file (- for stderr)")
	flags.register(cmd)

	return cmd
}

// runServe listens until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg config.ServeConfig, base pipeline.Options) error {
	if err := base.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner := c.newRunner()
	defer runner.Close()

	var reg *prometheus.Registry
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
		metrics := observability.NewMetrics(reg)
		observability.SetPipelineHooks(metrics)
		observability.SetHTTPHooks(metrics)
		defer observability.Reset()
	}

	if cfg.TraceFile != "" {
		shutdown, err := c.installTracer(cfg.TraceFile)
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				c.Logger.Warn("flush spans", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newServer(runner, base, cfg.MaxBodyBytes, reg, c.Logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Addr, "metrics", cfg.Metrics)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	c.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// installTracer exports pipeline spans to path ("-" for stderr).
func (c *CLI) installTracer(path string) (func(context.Context) error, error) {
	var w io.Writer = os.Stderr
	var f *os.File
	if path != "-" {
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open trace file %s", path)
		}
		w = f
	}
	shutdown, err := observability.InstallTracer(w)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, err
	}
	c.Logger.Info("tracing enabled", "file", path)
	return func(ctx context.Context) error {
		err := shutdown(ctx)
		if f != nil {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}

// =============================================================================
// Server
// =============================================================================

// server handles the HTTP API. Every request runs its own pipeline pass.
type server struct {
	runner  *pipeline.Runner
	base    pipeline.Options
	maxBody int64
	reg     *prometheus.Registry
	logger  *log.Logger
}

func newServer(runner *pipeline.Runner, base pipeline.Options, maxBody int64, reg *prometheus.Registry, logger *log.Logger) *server {
	return &server{runner: runner, base: base, maxBody: maxBody, reg: reg, logger: logger}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	if s.reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	}
	return r
}

// instrument logs each request and reports it to the HTTP hooks.
func (s *server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.execute(w, r, pipeline.FormatJSON)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if format == pipeline.FormatJSON {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "use /v1/layout for json"))
		return
	}
	s.execute(w, r, format)
}

// execute reads a chart from the request body and writes one artifact.
func (s *server) execute(w http.ResponseWriter, r *http.Request, format string) {
	opts, err := s.requestOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}

	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	chart, err := org.ReadJSON(body)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), chart, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Placed-Count", strconv.Itoa(res.Stats.Placed))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// requestOptions overlays query parameters on the server defaults.
func (s *server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.base
	opts.Logger = s.logger
	q := r.URL.Query()
	if v := q.Get("mode"); v != "" {
		opts.Mode = v
	}
	if v := q.Get("collapse"); v != "" {
		opts.Collapsed = strings.Split(v, ",")
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("viewport"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil || w < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid viewport %q", v)
		}
		opts.ViewportWidth = pipeline.Float(w)
	}
	return opts, nil
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatJSON:
		return "application/json"
	default:
		return "text/vnd.graphviz"
	}
}

// errorResponse is the JSON body of a failed request.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
