package bitconv

import (
	"fmt"

	"github.com/yyyoichi/bitstream-go"
)

// Width returns the number of bits needed to store any value in [0, n).
// It is at least 1.
func Width(n int) int {
	w := 1
	for (1 << w) < n {
		w++
	}
	return w
}

// PackInts writes each value with width bits, most significant bit first.
// It returns the packed words and the number of bits written.
func PackInts(values []int, width int) ([]uint64, int) {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, v := range values {
		for i := width - 1; i >= 0; i-- {
			w.WriteBool((v>>uint(i))&1 == 1)
		}
	}
	return w.Data(), w.Bits()
}

// UnpackInts reads count values of width bits from data holding bits valid bits.
func UnpackInts(data []uint64, bits, width, count int) ([]int, error) {
	if need := width * count; need > bits {
		return nil, fmt.Errorf("need %d bits but only %d available", need, bits)
	}
	r := bitstream.NewBitReader(data, 0, 0)
	r.SetBits(bits)
	values := make([]int, count)
	for i := range values {
		var v int
		for j := range width {
			bit, err := r.ReadBitAt(i*width + j)
			if err != nil {
				return nil, err
			}
			v <<= 1
			if bit {
				v |= 1
			}
		}
		values[i] = v
	}
	return values, nil
}
