package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	kmeans "github.com/yyyoichi/kmeans_trace"
	"github.com/yyyoichi/kmeans_trace/internal/sample"
)

const contentTypeBinary = "application/octet-stream"

// Index handles GET /
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, 4)
	for _, i := range kmeans.Initializations() {
		names = append(names, i.String())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, map[string]any{
		"Title":           "k-means trajectory",
		"DemoPoints":      s.cfg.DemoPoints,
		"MaxIterations":   s.cfg.MaxIterations,
		"Initializations": names,
	})
	if err != nil {
		s.logger.Error("Failed to render index", zap.Error(err))
	}
}

// Health handles GET /health
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GenerateData handles POST /generate_data
func (s *Server) GenerateData(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n := req.NPoints
	if n == 0 {
		n = s.cfg.DemoPoints
	}
	if n > s.cfg.MaxPoints {
		writeError(w, http.StatusBadRequest, "n_points exceeds the limit of "+strconv.Itoa(s.cfg.MaxPoints))
		return
	}

	var data [][]float64
	if req.Seed != nil {
		data = sample.Uniform(n, 2, sample.NewSource(*req.Seed))
	} else {
		data = sample.Uniform(n, 2, nil)
	}
	s.metrics.generatedSets.Inc()
	writeJSON(w, http.StatusOK, GenerateResponse{Data: data})
}

// RunKMeans handles POST /run_kmeans
func (s *Server) RunKMeans(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := s.checkLimits(req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	fitID := uuid.NewString()
	logger := s.logger.With(
		zap.String("fit_id", fitID),
		zap.String("initialization", req.Initialization),
		zap.Int("points", len(req.Data)),
		zap.Int("n_clusters", req.NClusters),
	)
	_, span := s.tracer.Start(r.Context(), "kmeans.fit", trace.WithAttributes(
		attribute.String("fit.id", fitID),
		attribute.String("fit.initialization", req.Initialization),
		attribute.Int("fit.points", len(req.Data)),
	))
	defer span.End()

	start := time.Now()
	res, err := kmeans.Run(req.Data, req.options(s.cfg.MaxIterations)...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		status := errorStatus(err)
		s.metrics.fits.WithLabelValues(metricInitialization(req.Initialization), "failed").Inc()
		if status == http.StatusInternalServerError {
			logger.Error("Fit failed", zap.Error(err))
			writeError(w, status, "internal error")
			return
		}
		logger.Info("Fit rejected", zap.Error(err))
		writeError(w, status, err.Error())
		return
	}

	last, _ := res.History.Final()
	inertia := last.Inertia(req.Data)
	span.SetAttributes(
		attribute.Int("fit.iterations", len(res.History)),
		attribute.String("fit.state", res.State.String()),
	)
	s.metrics.fits.WithLabelValues(req.Initialization, res.State.String()).Inc()
	s.metrics.fitIterations.Observe(float64(len(res.History)))
	logger.Info("Fit finished",
		zap.Int("iterations", len(res.History)),
		zap.Stringer("state", res.State),
		zap.Float64("inertia", inertia),
		zap.Uint64("seed", res.Seed),
		zap.Duration("duration", time.Since(start)),
	)

	if acceptsBinary(r) {
		data, err := res.History.MarshalBinary()
		if err != nil {
			logger.Error("Failed to encode history", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.Header().Set("Content-Type", contentTypeBinary)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	writeJSON(w, http.StatusOK, RunResponse{
		History:    res.History,
		Converged:  res.State == kmeans.Converged,
		Iterations: len(res.History),
		Seed:       res.Seed,
	})
}

func (s *Server) checkLimits(req RunRequest) string {
	switch {
	case len(req.Data) > s.cfg.MaxPoints:
		return "data exceeds the limit of " + strconv.Itoa(s.cfg.MaxPoints) + " points"
	case req.NClusters > s.cfg.MaxClusters || len(req.Centroids) > s.cfg.MaxClusters:
		return "n_clusters exceeds the limit of " + strconv.Itoa(s.cfg.MaxClusters)
	case req.MaxIterations > s.cfg.MaxIterations:
		return "max_iterations exceeds the limit of " + strconv.Itoa(s.cfg.MaxIterations)
	}
	return ""
}

func (req RunRequest) options(defaultIterations int) []kmeans.Option {
	maxIterations := req.MaxIterations
	if maxIterations == 0 {
		maxIterations = defaultIterations
	}
	opts := []kmeans.Option{
		kmeans.WithInitializationName(req.Initialization),
		kmeans.WithMaxIterations(maxIterations),
	}
	if req.Initialization == kmeans.Manual.String() {
		opts = append(opts, kmeans.WithManualCentroids(req.Centroids))
	} else {
		opts = append(opts, kmeans.WithClusters(req.NClusters))
	}
	if req.Seed != nil {
		opts = append(opts, kmeans.WithSeed(*req.Seed))
	}
	if req.FailOnEmpty {
		opts = append(opts, kmeans.WithEmptyClusterPolicy(kmeans.FailOnEmpty))
	}
	return opts
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, kmeans.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, kmeans.ErrDegenerateCluster), errors.Is(err, kmeans.ErrNumericOverflow):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// metricInitialization keeps the label set closed when clients send unknown names.
func metricInitialization(name string) string {
	if _, err := kmeans.ParseInitialization(name); err != nil {
		return "unknown"
	}
	return name
}

func acceptsBinary(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), contentTypeBinary)
}
