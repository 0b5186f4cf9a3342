package kmeans

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_Predict(t *testing.T) {
	history, err := Fit(twoBlobs, WithManualCentroids([]Point{{0, 0}, {10, 10}}))
	require.NoError(t, err)

	labels, err := history.Predict([]Point{{1, 1}, {9, 12}, {-3, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, labels)

	_, err = history.Predict([]Point{{1, 1, 1}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = History(nil).Predict([]Point{{1, 1}})
	assert.ErrorIs(t, err, ErrEmptyHistory)

	_, err = History{{}}.Predict([]Point{{1, 1}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSnapshot_Inertia(t *testing.T) {
	history, err := Fit(twoBlobs, WithManualCentroids([]Point{{0, 0}, {10, 10}}))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, history[0].Inertia(twoBlobs), 1e-12)
	assert.InDelta(t, 1.0, history[1].Inertia(twoBlobs), 1e-12)
}

func TestHistory_Binary(t *testing.T) {
	test := []struct {
		name     string
		clusters int
	}{
		{"one_cluster", 1},
		{"three_clusters", 3},
		{"nine_clusters", 9},
	}
	points := randomPoints(40, 4)
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			history, err := Fit(points, WithClusters(tt.clusters), WithInitialization(KMeansPlusPlus), WithSeed(8))
			require.NoError(t, err)

			data, err := history.MarshalBinary()
			require.NoError(t, err)
			decoded, err := UnmarshalHistory(data)
			require.NoError(t, err)
			assert.Equal(t, history, decoded)
		})
	}

	t.Run("empty", func(t *testing.T) {
		data, err := History{}.MarshalBinary()
		require.NoError(t, err)
		decoded, err := UnmarshalHistory(data)
		require.NoError(t, err)
		assert.Empty(t, decoded)
	})
}

func TestUnmarshalHistory_Invalid(t *testing.T) {
	history, err := Fit(twoBlobs, WithManualCentroids([]Point{{0, 0}, {10, 10}}))
	require.NoError(t, err)
	data, err := history.MarshalBinary()
	require.NoError(t, err)

	_, err = UnmarshalHistory(data[:len(data)-3])
	assert.ErrorIs(t, err, ErrInvalidBinary)

	corrupt := append([]byte(nil), data...)
	corrupt[0] = 'X'
	_, err = UnmarshalHistory(corrupt)
	assert.ErrorIs(t, err, ErrInvalidBinary)

	_, err = UnmarshalHistory(nil)
	assert.ErrorIs(t, err, ErrInvalidBinary)

	header := func(hdr binaryHeader, tail ...uint32) []byte {
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, hdr))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, tail))
		return buf.Bytes()
	}
	test := []struct {
		name string
		data []byte
	}{
		{"snapshots_without_clusters", header(binaryHeader{
			Magic: binaryMagic, Version: binaryVersion, Snapshots: 1_000_000, Points: 4, Dim: 2,
		})},
		{"snapshots_without_dimension", header(binaryHeader{
			Magic: binaryMagic, Version: binaryVersion, Snapshots: 1_000_000, Clusters: 2, Points: 4,
		})},
		{"bits_beyond_words", header(binaryHeader{
			Magic: binaryMagic, Version: binaryVersion,
		}, 1<<31, 0)},
		{"version", header(binaryHeader{Magic: binaryMagic, Version: 9})},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			h, err := UnmarshalHistory(tt.data)
			assert.ErrorIs(t, err, ErrInvalidBinary)
			assert.Nil(t, h)
		})
	}
}

func TestHistory_MarshalBinaryShape(t *testing.T) {
	test := []struct {
		name    string
		history History
	}{
		{"no_centroids", History{{Labels: []int{0}}}},
		{"cluster_count", History{
			{Centroids: []Point{{0, 0}, {1, 1}}, Labels: []int{0, 1}},
			{Centroids: []Point{{0, 0}}, Labels: []int{0, 0}},
		}},
		{"centroid_dimension", History{
			{Centroids: []Point{{0, 0}, {1}}, Labels: []int{0, 1}},
		}},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.history.MarshalBinary()
			assert.ErrorIs(t, err, ErrInvalidBinary)
		})
	}
}
