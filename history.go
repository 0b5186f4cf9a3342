package kmeans

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/yyyoichi/kmeans_trace/internal/bitconv"
	innerkmeans "github.com/yyyoichi/kmeans_trace/internal/kmeans"
)

var (
	ErrEmptyHistory  = errors.New("history has no snapshots")
	ErrInvalidBinary = errors.New("invalid binary history")
)

// Snapshot is the state at the start of one iteration: the centroids in effect and the
// labels they produced, captured before the centroids were updated.
// Snapshots in a History are never modified after they are recorded.
type Snapshot struct {
	Centroids []Point `json:"centroids"`
	Labels    []int   `json:"labels"`
}

// Inertia is the sum of squared distances from each point to its labeled centroid.
// points must be the point set the snapshot was recorded for.
func (s Snapshot) Inertia(points []Point) float64 {
	return innerkmeans.Inertia(points, s.Labels, s.Centroids)
}

// History is the ordered sequence of snapshots of one fit, one per iteration.
type History []Snapshot

// Final returns the last recorded snapshot.
func (h History) Final() (Snapshot, bool) {
	if len(h) == 0 {
		return Snapshot{}, false
	}
	return h[len(h)-1], true
}

// Predict labels points against the centroids of the final snapshot.
func (h History) Predict(points []Point) ([]int, error) {
	last, ok := h.Final()
	if !ok {
		return nil, ErrEmptyHistory
	}
	if len(last.Centroids) == 0 {
		return nil, fmt.Errorf("%w: final snapshot has no centroids", ErrInvalidConfiguration)
	}
	dim := len(last.Centroids[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("%w: point %d has dimension %d, want %d",
				ErrInvalidConfiguration, i, len(p), dim)
		}
	}
	return innerkmeans.Assign(points, last.Centroids), nil
}

var binaryMagic = [4]byte{'K', 'M', 'T', 'R'}

const binaryVersion uint16 = 1

type binaryHeader struct {
	Magic     [4]byte
	Version   uint16
	Snapshots uint32
	Clusters  uint32
	Points    uint32
	Dim       uint32
}

// MarshalBinary encodes the history compactly.
//
// Layout (little endian):
//  1. Header: magic "KMTR", version, snapshot count, clusters, points, dimension.
//  2. Centroids of every snapshot as float64, snapshot by snapshot.
//  3. Bit count and word count of the label stream, then the words.
//
// Labels of all snapshots are packed back to back with the minimal number of bits
// per label for the cluster count.
func (h History) MarshalBinary() ([]byte, error) {
	var hdr = binaryHeader{Magic: binaryMagic, Version: binaryVersion, Snapshots: uint32(len(h))}
	if len(h) > 0 {
		hdr.Clusters = uint32(len(h[0].Centroids))
		hdr.Points = uint32(len(h[0].Labels))
		if hdr.Clusters > 0 {
			hdr.Dim = uint32(len(h[0].Centroids[0]))
		}
		if hdr.Clusters == 0 || hdr.Dim == 0 {
			return nil, fmt.Errorf("%w: snapshot 0 has no centroid coordinates", ErrInvalidBinary)
		}
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, hdr); err != nil {
		return nil, err
	}
	labels := make([]int, 0, len(h)*int(hdr.Points))
	for i, s := range h {
		if len(s.Centroids) != int(hdr.Clusters) || len(s.Labels) != int(hdr.Points) {
			return nil, fmt.Errorf("%w: snapshot %d does not match the shape of snapshot 0", ErrInvalidBinary, i)
		}
		for _, c := range s.Centroids {
			if len(c) != int(hdr.Dim) {
				return nil, fmt.Errorf("%w: snapshot %d has a centroid of dimension %d, want %d",
					ErrInvalidBinary, i, len(c), hdr.Dim)
			}
			if err := binary.Write(&buf, binary.LittleEndian, c); err != nil {
				return nil, err
			}
		}
		labels = append(labels, s.Labels...)
	}

	words, bits := bitconv.PackInts(labels, bitconv.Width(int(hdr.Clusters)))
	if err := binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(bits), uint32(len(words))}); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, words); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalHistory decodes the output of History.MarshalBinary.
func UnmarshalHistory(data []byte) (History, error) {
	r := bytes.NewReader(data)
	var hdr binaryHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBinary, err)
	}
	if hdr.Magic != binaryMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidBinary, hdr.Magic[:])
	}
	if hdr.Version != binaryVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidBinary, hdr.Version)
	}
	if hdr.Snapshots > 0 && (hdr.Clusters == 0 || hdr.Dim == 0) {
		return nil, fmt.Errorf("%w: %d snapshots with %d clusters of dimension %d",
			ErrInvalidBinary, hdr.Snapshots, hdr.Clusters, hdr.Dim)
	}
	centroidBytes := uint64(hdr.Snapshots) * uint64(hdr.Clusters) * uint64(hdr.Dim) * 8
	if centroidBytes > uint64(r.Len()) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBinary, io.ErrUnexpectedEOF)
	}

	h := make(History, hdr.Snapshots)
	for i := range h {
		h[i].Centroids = make([]Point, hdr.Clusters)
		for k := range h[i].Centroids {
			c := make(Point, hdr.Dim)
			if err := binary.Read(r, binary.LittleEndian, c); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidBinary, err)
			}
			h[i].Centroids[k] = c
		}
	}

	var counts [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &counts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBinary, err)
	}
	bits, nwords := int(counts[0]), int(counts[1])
	if uint64(nwords)*8 > uint64(r.Len()) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBinary, io.ErrUnexpectedEOF)
	}
	if uint64(bits) > uint64(nwords)*64 {
		return nil, fmt.Errorf("%w: %d bits do not fit in %d words", ErrInvalidBinary, bits, nwords)
	}
	words := make([]uint64, nwords)
	if err := binary.Read(r, binary.LittleEndian, words); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBinary, err)
	}
	labels, err := bitconv.UnpackInts(words, bits, bitconv.Width(int(hdr.Clusters)), len(h)*int(hdr.Points))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBinary, err)
	}
	for i, l := range labels {
		if l >= int(hdr.Clusters) {
			return nil, fmt.Errorf("%w: label %d at %d exceeds %d clusters", ErrInvalidBinary, l, i, hdr.Clusters)
		}
	}
	for i := range h {
		h[i].Labels = labels[i*int(hdr.Points) : (i+1)*int(hdr.Points) : (i+1)*int(hdr.Points)]
	}
	return h, nil
}
