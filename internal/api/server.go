package api

import (
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/roman-kulish/spectrum-scanner/internal/chart"
	"github.com/roman-kulish/spectrum-scanner/internal/scan"
)

const (
	Title   = "Spectrum Scanner API"
	Version = "1.0.0"
)

// WithLogger sets the logger for the server
func WithLogger(logger *slog.Logger) func(s *Server) {
	return func(s *Server) {
		s.logger = logger.With(slog.String("component", "api"))
	}
}

// WithAllowedOrigins sets the browser origins allowed by CORS and by the
// websocket stream. An empty list allows any origin.
func WithAllowedOrigins(origins ...string) func(s *Server) {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithChart sets the chart image options
func WithChart(config chart.Config) func(s *Server) {
	return func(s *Server) {
		s.chart = config
	}
}

// Server exposes a scanner over HTTP
type Server struct {
	scanner        *scan.Scanner
	chart          chart.Config
	allowedOrigins []string
	logger         *slog.Logger

	router *chi.Mux
	api    huma.API

	closeOnce sync.Once
	closed    chan struct{}
}

// NewServer creates the router and registers every operation
func NewServer(scanner *scan.Scanner, options ...func(s *Server)) *Server {
	s := Server{
		scanner: scanner,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		closed:  make(chan struct{}),
	}

	for _, option := range options {
		option(&s)
	}

	s.router = chi.NewRouter()

	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	config := huma.DefaultConfig(Title, Version)
	config.DocsPath = "/api/docs"
	s.api = humachi.New(s.router, config)

	s.registerRoutes()
	s.router.Get("/api/ws", s.stream)

	return &s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// API returns the huma API, e.g. to export the OpenAPI document
func (s *Server) API() huma.API {
	return s.api
}

// Close ends every websocket stream. Hijacked connections are not closed by
// http.Server.Shutdown.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

func (s *Server) corsOrigins() []string {
	if len(s.allowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.allowedOrigins
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, s.health)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDefaults",
		Method:      http.MethodGet,
		Path:        "/api/config/defaults",
		Summary:     "Get default scan request",
		Tags:        []string{"Config"},
	}, s.defaults)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBands",
		Method:      http.MethodGet,
		Path:        "/api/bands",
		Summary:     "List spectrum bands",
		Tags:        []string{"Config"},
	}, s.bands)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPresets",
		Method:      http.MethodGet,
		Path:        "/api/presets",
		Summary:     "List band presets",
		Description: "A preset label may be sent as the category of a scan request",
		Tags:        []string{"Config"},
	}, s.presets)

	huma.Register(s.api, huma.Operation{
		OperationID:   "startScan",
		Method:        http.MethodPost,
		Path:          "/api/scans",
		Summary:       "Start a scan",
		Description:   "Validates the request and starts a scan cycle. The previous results are discarded.",
		Tags:          []string{"Scan"},
		DefaultStatus: http.StatusAccepted,
		// the raw body is decoded and validated by scan.Parse
		SkipValidateBody: true,
	}, s.startScan)

	huma.Register(s.api, huma.Operation{
		OperationID: "stopScan",
		Method:      http.MethodPost,
		Path:        "/api/scans/stop",
		Summary:     "Stop the active scan",
		Tags:        []string{"Scan"},
	}, s.stopScan)

	huma.Register(s.api, huma.Operation{
		OperationID: "getState",
		Method:      http.MethodGet,
		Path:        "/api/state",
		Summary:     "Get scanner state",
		Tags:        []string{"Scan"},
	}, s.state)

	huma.Register(s.api, huma.Operation{
		OperationID: "listResults",
		Method:      http.MethodGet,
		Path:        "/api/results",
		Summary:     "List results",
		Tags:        []string{"Results"},
	}, s.results)

	huma.Register(s.api, huma.Operation{
		OperationID:   "clearResults",
		Method:        http.MethodDelete,
		Path:          "/api/results",
		Summary:       "Clear results",
		Tags:          []string{"Results"},
		DefaultStatus: http.StatusNoContent,
	}, s.clearResults)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSeries",
		Method:      http.MethodGet,
		Path:        "/api/series",
		Summary:     "Get chart series",
		Tags:        []string{"Results"},
	}, s.series)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPeaks",
		Method:      http.MethodGet,
		Path:        "/api/peaks",
		Summary:     "List strongest results",
		Tags:        []string{"Results"},
	}, s.peaks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSelection",
		Method:      http.MethodGet,
		Path:        "/api/selection",
		Summary:     "Get selected result",
		Tags:        []string{"Results"},
	}, s.selection)

	huma.Register(s.api, huma.Operation{
		OperationID: "putSelection",
		Method:      http.MethodPut,
		Path:        "/api/selection",
		Summary:     "Select a result",
		Tags:        []string{"Results"},
	}, s.selectResult)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChart",
		Method:      http.MethodGet,
		Path:        "/api/chart.png",
		Summary:     "Render chart",
		Description: "Renders the series of the current scan as a PNG line chart",
		Tags:        []string{"Results"},
	}, s.chartImage)
}
