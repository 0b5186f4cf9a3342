package kmeans

import "gonum.org/v1/gonum/floats"

// MeanStore accumulates points of one cluster and reports their coordinate-wise mean.
type MeanStore struct {
	sum   []float64
	count int
}

func NewMeanStore(dim int) MeanStore {
	return MeanStore{sum: make([]float64, dim)}
}

func (s *MeanStore) Add(p []float64) {
	floats.Add(s.sum, p)
	s.count += 1
}

// Average returns a fresh slice holding the mean, or nil when nothing was added.
func (s *MeanStore) Average() []float64 {
	if s.count == 0 {
		return nil
	}
	avr := make([]float64, len(s.sum))
	n := float64(s.count)
	for i, v := range s.sum {
		avr[i] = v / n
	}
	return avr
}

func (s *MeanStore) Count() int { return s.count }

func (s *MeanStore) Sum() []float64 { return s.sum }
