package kmeans

import "fmt"

// Initialization selects the strategy for the starting centroids.
type Initialization int

const (
	// Random samples distinct points without replacement.
	Random Initialization = iota
	// FarthestFirst greedily adds the point farthest from its nearest chosen centroid.
	FarthestFirst
	// KMeansPlusPlus samples points weighted by squared distance to the nearest chosen centroid.
	KMeansPlusPlus
	// Manual uses caller supplied centroids.
	Manual
)

var initializationNames = [...]string{
	Random:         "random",
	FarthestFirst:  "farthest_first",
	KMeansPlusPlus: "kmeans++",
	Manual:         "manual",
}

// Initializations lists every strategy in declaration order.
func Initializations() []Initialization {
	return []Initialization{Random, FarthestFirst, KMeansPlusPlus, Manual}
}

// ParseInitialization maps a wire name to its strategy.
func ParseInitialization(name string) (Initialization, error) {
	for i, n := range initializationNames {
		if n == name {
			return Initialization(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown initialization %q", ErrInvalidConfiguration, name)
}

func (i Initialization) String() string {
	if i.valid() {
		return initializationNames[i]
	}
	return fmt.Sprintf("Initialization(%d)", int(i))
}

func (i Initialization) valid() bool {
	return i >= 0 && int(i) < len(initializationNames)
}

// EmptyClusterPolicy decides how an update treats a cluster that received no points.
type EmptyClusterPolicy int

const (
	// RetainCentroid keeps the centroid of the previous iteration.
	RetainCentroid EmptyClusterPolicy = iota
	// FailOnEmpty aborts the fit with ErrDegenerateCluster.
	FailOnEmpty
)
