// Package kmeans holds the individual steps of Lloyd's algorithm over dense points:
// nearest-centroid assignment, mean update and the seeding strategies.
//
// Every function here is pure with respect to its inputs. Returned slices are freshly
// allocated, so callers may keep them as immutable snapshots.
package kmeans

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Distance is the Euclidean distance between a and b.
func Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Nearest returns the index of the centroid closest to p and the distance to it.
// Ties resolve to the lowest index.
func Nearest(p []float64, centroids [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for k, c := range centroids {
		if d := Distance(p, c); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best, bestDist
}

// Assign labels every point with the index of its nearest centroid.
func Assign(points, centroids [][]float64) []int {
	labels := make([]int, len(points))
	for i, p := range points {
		labels[i], _ = Nearest(p, centroids)
	}
	return labels
}

// Update recomputes each centroid as the mean of the points labeled with its index.
//
// A cluster that received no points keeps a copy of its previous centroid, and its index
// is reported in empty. prev must hold one centroid per cluster.
func Update(points [][]float64, labels []int, prev [][]float64) (centroids [][]float64, empty []int) {
	dim := len(prev[0])
	stores := make([]MeanStore, len(prev))
	for k := range stores {
		stores[k] = NewMeanStore(dim)
	}
	for i, p := range points {
		stores[labels[i]].Add(p)
	}

	centroids = make([][]float64, len(prev))
	for k := range stores {
		if stores[k].Count() == 0 {
			centroids[k] = append([]float64(nil), prev[k]...)
			empty = append(empty, k)
			continue
		}
		centroids[k] = stores[k].Average()
	}
	return centroids, empty
}

// Equal reports whether two centroid sets are element-wise identical.
func Equal(a, b [][]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if len(a[k]) != len(b[k]) || !floats.Equal(a[k], b[k]) {
			return false
		}
	}
	return true
}

// NonFinite returns the index of the first vector holding an infinite or NaN
// coordinate, or -1 when every coordinate is finite.
func NonFinite(vectors [][]float64) int {
	for k, v := range vectors {
		for _, x := range v {
			if math.IsInf(x, 0) || math.IsNaN(x) {
				return k
			}
		}
	}
	return -1
}

// Inertia is the sum of squared distances between each point and its assigned centroid.
func Inertia(points [][]float64, labels []int, centroids [][]float64) float64 {
	var sum float64
	for i, p := range points {
		d := Distance(p, centroids[labels[i]])
		sum += d * d
	}
	return sum
}
