package kmeans

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// SampleIndices draws n distinct indices from [0, size) uniformly without replacement.
// n must not exceed size.
func SampleIndices(size, n int, rng *rand.Rand) []int {
	return rng.Perm(size)[:n]
}

// FarthestFirst picks the first index uniformly, then repeatedly the point whose distance
// to the nearest already chosen point is largest. Already chosen points are never picked
// again, so the result holds n distinct indices.
func FarthestFirst(points [][]float64, n int, rng *rand.Rand) []int {
	chosen := []int{rng.IntN(len(points))}
	nearest := newNearestDistances(len(points))
	for len(chosen) < n {
		nearest.update(points, chosen)
		chosen = append(chosen, floats.MaxIdx(nearest))
	}
	return chosen
}

// PlusPlus is the k-means++ seeding: the first index is uniform, every further index is
// drawn with probability proportional to the squared distance to the nearest chosen point.
func PlusPlus(points [][]float64, n int, rng *rand.Rand) []int {
	chosen := []int{rng.IntN(len(points))}
	nearest := newNearestDistances(len(points))
	weights := make([]float64, len(points))
	cumulative := make([]float64, len(points))
	for len(chosen) < n {
		nearest.update(points, chosen)
		for i, d := range nearest {
			if d < 0 {
				weights[i] = 0
				continue
			}
			weights[i] = d * d
		}
		chosen = append(chosen, roulette(weights, cumulative, chosen, rng))
	}
	return chosen
}

// Gather copies the points at idx into a new centroid set.
func Gather(points [][]float64, idx []int) [][]float64 {
	centroids := make([][]float64, len(idx))
	for k, i := range idx {
		centroids[k] = append([]float64(nil), points[i]...)
	}
	return centroids
}

func roulette(weights, cumulative []float64, chosen []int, rng *rand.Rand) int {
	floats.CumSum(cumulative, weights)
	total := cumulative[len(cumulative)-1]
	if total == 0 {
		// every remaining point coincides with a chosen one
		return uniformExcluding(len(weights), chosen, rng)
	}
	r := rng.Float64() * total
	for j, c := range cumulative {
		if r < c {
			return j
		}
	}
	for j := len(weights) - 1; j >= 0; j-- {
		if weights[j] > 0 {
			return j
		}
	}
	return uniformExcluding(len(weights), chosen, rng)
}

func uniformExcluding(size int, chosen []int, rng *rand.Rand) int {
	taken := make(map[int]bool, len(chosen))
	for _, i := range chosen {
		taken[i] = true
	}
	free := make([]int, 0, size-len(chosen))
	for i := range size {
		if !taken[i] {
			free = append(free, i)
		}
	}
	return free[rng.IntN(len(free))]
}

// nearestDistances tracks, per point, the distance to the closest chosen point.
// Chosen points are marked with -1.
type nearestDistances []float64

func newNearestDistances(size int) nearestDistances {
	d := make(nearestDistances, size)
	for i := range d {
		d[i] = math.Inf(1)
	}
	return d
}

// update folds in the most recently chosen point.
func (d nearestDistances) update(points [][]float64, chosen []int) {
	last := chosen[len(chosen)-1]
	c := points[last]
	for i, p := range points {
		if d[i] < 0 {
			continue
		}
		if dist := Distance(p, c); dist < d[i] {
			d[i] = dist
		}
	}
	d[last] = -1
}
