package api

import kmeans "github.com/yyyoichi/kmeans_trace"

// GenerateRequest is the optional body of POST /generate_data.
type GenerateRequest struct {
	NPoints int     `json:"n_points" validate:"gte=0"`
	Seed    *uint64 `json:"seed"`
}

// GenerateResponse carries a demo point set.
type GenerateResponse struct {
	Data [][]float64 `json:"data"`
}

// RunRequest is the body of POST /run_kmeans.
type RunRequest struct {
	Data           [][]float64 `json:"data" validate:"required,min=1,dive,min=1"`
	NClusters      int         `json:"n_clusters" validate:"gte=0"`
	Initialization string      `json:"initialization" validate:"required"`
	Centroids      [][]float64 `json:"centroids" validate:"required_if=Initialization manual,omitempty,dive,min=1"`
	MaxIterations  int         `json:"max_iterations" validate:"gte=0"`
	Seed           *uint64     `json:"seed"`
	// FailOnEmpty rejects fits in which a cluster loses all of its points.
	FailOnEmpty    bool        `json:"fail_on_empty"`
}

// RunResponse carries the recorded trajectory in iteration order.
type RunResponse struct {
	History    kmeans.History `json:"history"`
	Converged  bool           `json:"converged"`
	Iterations int            `json:"iterations"`
	Seed       uint64         `json:"seed"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
