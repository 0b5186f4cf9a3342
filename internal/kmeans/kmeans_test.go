package kmeans

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign(t *testing.T) {
	points := [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}, {4, 4.5}}
	centroids := [][]float64{{0, 0}, {10, 10}}
	assert.Equal(t, []int{0, 0, 1, 1, 0}, Assign(points, centroids))

	// (5, 5) is equidistant from both centroids; the lower index wins.
	labels := Assign([][]float64{{5, 5}}, centroids)
	assert.Equal(t, []int{0}, labels)
}

func TestUpdate(t *testing.T) {
	points := [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}
	prev := [][]float64{{0, 0}, {10, 10}, {50, 50}}

	centroids, empty := Update(points, []int{0, 0, 1, 1}, prev)
	require.Len(t, centroids, 3)
	assert.Equal(t, []float64{0, 0.5}, centroids[0])
	assert.Equal(t, []float64{10, 10.5}, centroids[1])
	assert.Equal(t, []float64{50, 50}, centroids[2])
	assert.Equal(t, []int{2}, empty)

	// the retained centroid must not alias the previous set
	centroids[2][0] = -1
	assert.Equal(t, 50.0, prev[2][0])
}

func TestEqual(t *testing.T) {
	a := [][]float64{{0, 0.5}, {10, 10.5}}
	assert.True(t, Equal(a, [][]float64{{0, 0.5}, {10, 10.5}}))
	assert.False(t, Equal(a, [][]float64{{0, 0.5}, {10, 10.50000001}}))
	assert.False(t, Equal(a, [][]float64{{0, 0.5}}))
}

func TestInertia(t *testing.T) {
	points := [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}
	centroids := [][]float64{{0, 0.5}, {10, 10.5}}
	assert.InDelta(t, 1.0, Inertia(points, []int{0, 0, 1, 1}, centroids), 1e-12)
}

func TestMeanStore(t *testing.T) {
	s := NewMeanStore(2)
	assert.Nil(t, s.Average())
	s.Add([]float64{1, 2})
	s.Add([]float64{3, 6})
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, []float64{4, 8}, s.Sum())
	assert.Equal(t, []float64{2, 4}, s.Average())
}

func TestSeeding_DistinctIndices(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	points := make([][]float64, 50)
	for i := range points {
		points[i] = []float64{rng.Float64(), rng.Float64()}
	}

	test := []struct {
		name string
		seed func([][]float64, int, *rand.Rand) []int
	}{
		{"sample", func(p [][]float64, n int, r *rand.Rand) []int { return SampleIndices(len(p), n, r) }},
		{"farthest_first", FarthestFirst},
		{"kmeans++", PlusPlus},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			for _, n := range []int{1, 5, 50} {
				idx := tt.seed(points, n, rand.New(rand.NewPCG(1, 2)))
				require.Len(t, idx, n)
				seen := map[int]bool{}
				for _, i := range idx {
					require.GreaterOrEqual(t, i, 0)
					require.Less(t, i, len(points))
					require.False(t, seen[i], "index %d chosen twice", i)
					seen[i] = true
				}
			}
		})
	}
}

func TestSeeding_Duplicates(t *testing.T) {
	// all points coincide, so distance based seeding has to fall back to distinct picks
	points := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	for _, seed := range []func([][]float64, int, *rand.Rand) []int{FarthestFirst, PlusPlus} {
		idx := seed(points, 4, rand.New(rand.NewPCG(3, 4)))
		assert.ElementsMatch(t, []int{0, 1, 2, 3}, idx)
	}
}

func TestFarthestFirst(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 0}, {100, 0}, {2, 0}}
	for seed := range uint64(8) {
		idx := FarthestFirst(points, 2, rand.New(rand.NewPCG(seed, seed)))
		if idx[0] == 2 {
			assert.Equal(t, 0, idx[1])
		} else {
			assert.Equal(t, 2, idx[1])
		}
	}
}

func TestPlusPlus_Deterministic(t *testing.T) {
	points := [][]float64{{0, 0}, {0, 1}, {5, 5}, {10, 10}, {10, 11}, {20, 0}}
	a := PlusPlus(points, 3, rand.New(rand.NewPCG(42, 42)))
	b := PlusPlus(points, 3, rand.New(rand.NewPCG(42, 42)))
	assert.Equal(t, a, b)
}

func TestGather(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 1}, {2, 2}}
	centroids := Gather(points, []int{2, 0})
	assert.Equal(t, [][]float64{{2, 2}, {0, 0}}, centroids)
	centroids[0][0] = 9
	assert.Equal(t, 2.0, points[2][0])
}
