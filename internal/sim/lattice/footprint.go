package lattice

import (
	"encoding/binary"

	"github.com/klauspost/compress/zstd"
)

// NaiveCellBytes is the per-cell cost of the one-int32-per-spin layout the
// packed grid is compared against.
const NaiveCellBytes = 4

type Footprint struct {
	Cells int `json:"cells"`
	// PackedBytes is the size of the backing words, i.e. ceil(N²/64)*8.
	PackedBytes int `json:"packed_bytes"`
	NaiveBytes  int `json:"naive_bytes"`
}

func (g *Grid) Footprint() Footprint {
	cells := g.n * g.n
	return Footprint{
		Cells:       cells,
		PackedBytes: len(g.bits.Bytes()) * 8,
		NaiveBytes:  cells * NaiveCellBytes,
	}
}

// CompressedBytes reports how large the packed words become after zstd at
// the given level.
func (g *Grid) CompressedBytes(level zstd.EncoderLevel) (int, error) {
	words := g.bits.Bytes()
	raw := make([]byte, 8*len(words))
	for k, w := range words {
		binary.LittleEndian.PutUint64(raw[8*k:], w)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return 0, err
	}
	defer enc.Close()
	return len(enc.EncodeAll(raw, nil)), nil
}
