package kmeans

import "fmt"

type Option func(*KMeans) error

// WithClusters sets the number of clusters. It must be at least 1 and, for the sampling
// initializations, no larger than the number of points.
// It is ignored when manual centroids are used.
func WithClusters(n int) Option {
	return func(k *KMeans) error {
		if n < 1 {
			return fmt.Errorf("%w: n_clusters must be at least 1, got %d", ErrInvalidConfiguration, n)
		}
		k.clusters = n
		return nil
	}
}

// WithInitialization selects how the starting centroids are chosen. Random is the default.
// Manual also requires WithManualCentroids.
func WithInitialization(i Initialization) Option {
	return func(k *KMeans) error {
		if !i.valid() {
			return fmt.Errorf("%w: unknown initialization %v", ErrInvalidConfiguration, i)
		}
		k.strategy = i
		return nil
	}
}

// WithInitializationName is WithInitialization for a wire name such as "kmeans++".
func WithInitializationName(name string) Option {
	return func(k *KMeans) error {
		i, err := ParseInitialization(name)
		if err != nil {
			return err
		}
		k.strategy = i
		return nil
	}
}

// WithManualCentroids starts the fit from the given centroids and switches the
// initialization to Manual. The number of clusters becomes len(centroids).
// The centroids are copied.
func WithManualCentroids(centroids []Point) Option {
	return func(k *KMeans) error {
		if len(centroids) == 0 {
			return fmt.Errorf("%w: manual initialization needs centroids", ErrInvalidConfiguration)
		}
		k.strategy = Manual
		k.manual = clonePoints(centroids)
		return nil
	}
}

// WithMaxIterations caps the number of assign/update rounds. Defaults to 100.
func WithMaxIterations(n int) Option {
	return func(k *KMeans) error {
		if n < 1 {
			return fmt.Errorf("%w: max_iterations must be at least 1, got %d", ErrInvalidConfiguration, n)
		}
		k.maxIterations = n
		return nil
	}
}

// WithSeed fixes the random stream used by the initialization, which makes a fit
// reproducible. Without it every call draws a fresh seed and reports it in Result.Seed.
func WithSeed(seed uint64) Option {
	return func(k *KMeans) error {
		k.seed = seed
		k.seeded = true
		return nil
	}
}

// WithEmptyClusterPolicy decides what happens when an update leaves a cluster without
// points. RetainCentroid is the default.
func WithEmptyClusterPolicy(p EmptyClusterPolicy) Option {
	return func(k *KMeans) error {
		if p != RetainCentroid && p != FailOnEmpty {
			return fmt.Errorf("%w: unknown empty cluster policy %d", ErrInvalidConfiguration, p)
		}
		k.emptyPolicy = p
		return nil
	}
}
