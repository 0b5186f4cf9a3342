// Package sample generates synthetic point sets for demonstrations.
package sample

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultPoints is the size of a demo point set when none is requested.
const DefaultPoints = 100

// Uniform returns n points of dimension dim whose coordinates are drawn uniformly from [0, 1).
// A nil src uses the global generator.
func Uniform(n, dim int, src rand.Source) [][]float64 {
	u := distuv.Uniform{Min: 0, Max: 1, Src: src}
	points := make([][]float64, n)
	for i := range points {
		p := make([]float64, dim)
		for j := range p {
			p[j] = u.Rand()
		}
		points[i] = p
	}
	return points
}

// NewSource returns a deterministic source for seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
