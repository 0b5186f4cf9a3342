// Package api serves the clustering engine over HTTP.
package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yyyoichi/kmeans_trace/internal/config"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

const tracerName = "github.com/yyyoichi/kmeans_trace/internal/api"

// Server wires the handlers to their collaborators.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// New creates a server. A nil logger discards all logs.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	if cfg == nil {
		panic("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		logger:  logger.Named("api"),
		metrics: NewMetrics(),
		tracer:  otel.Tracer(tracerName),
	}
}

// Handler configures all routes and middleware.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(requestLogger(s.logger, s.metrics))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/", s.Index)
	router.Get("/health", s.Health)
	router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	router.Post("/generate_data", s.GenerateData)
	router.Post("/run_kmeans", s.RunKMeans)
	return router
}
