// Package lattice stores an N×N spin lattice at one bit per cell.
//
// Cells are addressed row-major (i*N+j). A set bit is spin.Up, a clear bit
// is spin.Down, so a freshly constructed grid is all Down. Coordinates
// outside [0,N) are caller bugs and panic.
//
// A Grid is not safe for concurrent use.
package lattice

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"spinbits.ai/internal/sim/encoding"
	"spinbits.ai/internal/sim/spin"
)

type Grid struct {
	n    int
	bits *bitset.BitSet

	dirty bool
	hash  [32]byte
}

type options struct {
	seed   uint64
	seeded bool
}

type Option func(*options)

// WithSeed pins the generator used by NewRandom. Without it every call
// draws a fresh seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// MaxSize caps the dimension so N² always fits an int and the backing
// words stay within 512 MiB.
const MaxSize = 1 << 16

// CheckSize reports whether n is a dimension New accepts.
func CheckSize(n int) error {
	if n < 1 || n > MaxSize {
		return fmt.Errorf("dimension %d outside [1,%d]", n, MaxSize)
	}
	return nil
}

// New returns an all-Down n×n grid. It panics when CheckSize(n) fails.
func New(n int) *Grid {
	if err := CheckSize(n); err != nil {
		panic("lattice: " + err.Error())
	}
	return &Grid{n: n, bits: bitset.New(uint(n * n)), dirty: true}
}

// NewRandom returns an n×n grid where every cell is an independent fair
// coin. The generator is seeded once and advanced once per cell.
func NewRandom(n int, opts ...Option) *Grid {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !o.seeded {
		o.seed = rand.Uint64()
	}
	g := New(n)
	r := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	for idx := uint(0); idx < uint(n*n); idx++ {
		g.bits.SetTo(idx, r.IntN(2) == 1)
	}
	return g
}

// FromRuns rebuilds a grid from the output of EncodeRuns.
func FromRuns(n int, runs string) (*Grid, error) {
	if err := CheckSize(n); err != nil {
		return nil, fmt.Errorf("lattice runs: %w", err)
	}
	cells, err := encoding.DecodeBitRuns(runs, n*n)
	if err != nil {
		return nil, fmt.Errorf("lattice runs: %w", err)
	}
	g := New(n)
	for idx, up := range cells {
		g.bits.SetTo(uint(idx), up)
	}
	return g, nil
}

func (g *Grid) Size() int { return g.n }

func (g *Grid) index(i, j int) uint {
	if i < 0 || i >= g.n || j < 0 || j >= g.n {
		panic(fmt.Sprintf("lattice: cell (%d,%d) out of range for %dx%d grid", i, j, g.n, g.n))
	}
	return uint(i*g.n + j)
}

func (g *Grid) Get(i, j int) spin.Spin {
	return spin.FromBool(g.bits.Test(g.index(i, j)))
}

func (g *Grid) Set(i, j int, v spin.Spin) {
	idx := g.index(i, j)
	if g.bits.Test(idx) == v.Bool() {
		return
	}
	g.bits.SetTo(idx, v.Bool())
	g.dirty = true
}

// FlipAt toggles a single cell.
func (g *Grid) FlipAt(i, j int) {
	g.bits.Flip(g.index(i, j))
	g.dirty = true
}

// Flip negates every spin in the lattice, one word at a time.
func (g *Grid) Flip() {
	g.bits.FlipRange(0, uint(g.n*g.n))
	g.dirty = true
}

// CountUp returns the number of Up cells.
func (g *Grid) CountUp() int { return int(g.bits.Count()) }

// Row returns a copy of row i.
func (g *Grid) Row(i int) []spin.Spin {
	row := make([]spin.Spin, g.n)
	for j := range row {
		row[j] = g.Get(i, j)
	}
	return row
}

func (g *Grid) Clone() *Grid {
	return &Grid{n: g.n, bits: g.bits.Clone(), dirty: g.dirty, hash: g.hash}
}

func (g *Grid) Equal(o *Grid) bool {
	return g.n == o.n && g.bits.Equal(o.bits)
}

// EncodeRuns dumps the cells in row-major order as base64 run lengths.
func (g *Grid) EncodeRuns() string {
	return encoding.EncodeBitRuns(g.n*g.n, func(idx int) bool {
		return g.bits.Test(uint(idx))
	})
}

// Digest hashes the dimension and the packed words. It is recomputed only
// after a mutation.
func (g *Grid) Digest() [32]byte {
	if g.dirty || g.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(g.n))
		h.Write(tmp[:])
		for _, w := range g.bits.Bytes() {
			binary.LittleEndian.PutUint64(tmp[:], w)
			h.Write(tmp[:])
		}
		copy(g.hash[:], h.Sum(nil))
		g.dirty = false
	}
	return g.hash
}

// String renders one bracketed row per line, preceded by a blank line:
//
//	[+1 -1 ]
//	[-1 -1 ]
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(1 + g.n*(3*g.n+3))
	sb.WriteByte('\n')
	for i := 0; i < g.n; i++ {
		sb.WriteByte('[')
		for j := 0; j < g.n; j++ {
			if g.bits.Test(uint(i*g.n + j)) {
				sb.WriteString("+1 ")
			} else {
				sb.WriteString("-1 ")
			}
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
