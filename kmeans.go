package kmeans

import (
	"errors"
	"fmt"
	"math/rand/v2"

	innerkmeans "github.com/yyyoichi/kmeans_trace/internal/kmeans"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrDegenerateCluster    = errors.New("degenerate cluster")
	ErrNumericOverflow      = errors.New("numeric overflow")
)

// DefaultMaxIterations bounds a fit when WithMaxIterations is not given.
const DefaultMaxIterations = 100

// Point is an ordered tuple of coordinates. All points of one fit share a dimension.
type Point = []float64

// State is the phase of a fit.
type State int

const (
	Initializing State = iota
	Iterating
	Converged
	MaxIterationsReached
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max_iterations_reached"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the outcome of one fit.
type Result struct {
	History History
	// State is Converged or MaxIterationsReached.
	State State
	// Seed reproduces the fit when passed to WithSeed.
	Seed uint64
}

// Fit clusters points with the specified options and returns the recorded history.
// This is a convenience function that creates a KMeans instance and calls its Fit method.
func Fit(points []Point, opts ...Option) (History, error) {
	k, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return k.Fit(points)
}

// Run is like Fit but also reports the terminal state and the seed that was used.
func Run(points []Point, opts ...Option) (*Result, error) {
	k, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return k.Run(points)
}

// KMeans holds the configuration of a fit. It keeps no state between calls, so a single
// instance may run fits on several goroutines at once.
type KMeans struct {
	clusters      int
	strategy      Initialization
	manual        []Point
	maxIterations int
	seed          uint64
	seeded        bool
	emptyPolicy   EmptyClusterPolicy
}

// New initializes a k-means configuration.
// WithClusters is required unless manual centroids are supplied.
// For default values, refer to the init function.
func New(opts ...Option) (*KMeans, error) {
	k := new(KMeans)
	if err := k.init(opts...); err != nil {
		return nil, err
	}
	return k, nil
}

// Fit clusters points and returns one snapshot per executed iteration.
func (k *KMeans) Fit(points []Point) (History, error) {
	r, err := k.Run(points)
	if err != nil {
		return nil, err
	}
	return r.History, nil
}

// Run clusters points.
//
// Process:
//  1. Validates the point set against the configuration.
//  2. Selects the starting centroids with the configured initialization.
//  3. Assigns every point to its nearest centroid and records a snapshot.
//  4. Moves each centroid to the mean of its points.
//  5. Stops when the centroids no longer change or the iteration limit is hit.
//
// Configuration errors are reported before any iteration and no history is returned.
// A centroid that leaves the float64 range aborts the fit with ErrNumericOverflow.
func (k *KMeans) Run(points []Point) (*Result, error) {
	dim, err := dimension(points)
	if err != nil {
		return nil, err
	}
	seed := k.seed
	if !k.seeded {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^pcgStream))

	centroids, err := k.initialize(points, dim, rng)
	if err != nil {
		return nil, err
	}

	r := &Result{State: Iterating, Seed: seed}
	for range k.maxIterations {
		labels := innerkmeans.Assign(points, centroids)
		r.History = append(r.History, Snapshot{Centroids: centroids, Labels: labels})

		next, empty := innerkmeans.Update(points, labels, centroids)
		if len(empty) > 0 && k.emptyPolicy == FailOnEmpty {
			return nil, fmt.Errorf("%w: cluster %d has no points at iteration %d",
				ErrDegenerateCluster, empty[0], len(r.History))
		}
		if c := innerkmeans.NonFinite(next); c >= 0 {
			return nil, fmt.Errorf("%w: centroid %d is not finite at iteration %d",
				ErrNumericOverflow, c, len(r.History))
		}
		if innerkmeans.Equal(centroids, next) {
			r.State = Converged
			return r, nil
		}
		centroids = next
	}
	r.State = MaxIterationsReached
	return r, nil
}

const pcgStream = 0xda3e39cb94b95bdb

func (k *KMeans) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(k); err != nil {
			return err
		}
	}
	if k.maxIterations == 0 {
		k.maxIterations = DefaultMaxIterations
	}
	if k.strategy == Manual && len(k.manual) == 0 {
		return fmt.Errorf("%w: manual initialization needs centroids", ErrInvalidConfiguration)
	}
	if k.strategy != Manual && k.clusters < 1 {
		return fmt.Errorf("%w: n_clusters must be at least 1", ErrInvalidConfiguration)
	}
	return nil
}

func (k *KMeans) initialize(points []Point, dim int, rng *rand.Rand) ([]Point, error) {
	if k.strategy == Manual {
		for i, c := range k.manual {
			if len(c) != dim {
				return nil, fmt.Errorf("%w: manual centroid %d has dimension %d, want %d",
					ErrInvalidConfiguration, i, len(c), dim)
			}
		}
		if i := innerkmeans.NonFinite(k.manual); i >= 0 {
			return nil, fmt.Errorf("%w: manual centroid %d has a non-finite coordinate",
				ErrInvalidConfiguration, i)
		}
		return clonePoints(k.manual), nil
	}

	if k.clusters > len(points) {
		return nil, fmt.Errorf("%w: n_clusters %d exceeds %d points",
			ErrInvalidConfiguration, k.clusters, len(points))
	}
	var idx []int
	switch k.strategy {
	case Random:
		idx = innerkmeans.SampleIndices(len(points), k.clusters, rng)
	case FarthestFirst:
		idx = innerkmeans.FarthestFirst(points, k.clusters, rng)
	case KMeansPlusPlus:
		idx = innerkmeans.PlusPlus(points, k.clusters, rng)
	default:
		return nil, fmt.Errorf("%w: unknown initialization %v", ErrInvalidConfiguration, k.strategy)
	}
	return innerkmeans.Gather(points, idx), nil
}

func dimension(points []Point) (int, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: no points", ErrInvalidConfiguration)
	}
	dim := len(points[0])
	if dim == 0 {
		return 0, fmt.Errorf("%w: points have no coordinates", ErrInvalidConfiguration)
	}
	for i, p := range points {
		if len(p) != dim {
			return 0, fmt.Errorf("%w: point %d has dimension %d, want %d",
				ErrInvalidConfiguration, i, len(p), dim)
		}
	}
	if i := innerkmeans.NonFinite(points); i >= 0 {
		return 0, fmt.Errorf("%w: point %d has a non-finite coordinate", ErrInvalidConfiguration, i)
	}
	return dim, nil
}

func clonePoints(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = append(Point(nil), p...)
	}
	return out
}
