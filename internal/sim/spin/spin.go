// Package spin defines the two-valued cell stored in a lattice.
package spin

// Spin is +1 (Up) or -1 (Down). Build one with FromBool, FromInt or the
// Up/Down constants. The zero value is not one of the two states and reads
// as Down everywhere (Bool, Int, String, and when stored in a lattice).
type Spin int8

const (
	Down Spin = -1
	Up   Spin = 1
)

func FromBool(b bool) Spin {
	if b {
		return Up
	}
	return Down
}

// FromInt maps v > 0 to Up and everything else, zero included, to Down.
func FromInt(v int) Spin {
	if v > 0 {
		return Up
	}
	return Down
}

func (s Spin) Bool() bool { return s > 0 }

func (s Spin) Int() int {
	if s > 0 {
		return 1
	}
	return -1
}

func (s Spin) Neg() Spin { return FromBool(!s.Bool()) }

func (s Spin) String() string {
	if s > 0 {
		return "+1"
	}
	return "-1"
}
