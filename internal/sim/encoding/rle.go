package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// EncodeBitRuns encodes n bits into base64(uvarint run lengths).
// Runs alternate between 0 and 1 starting with 0, so the first run may be
// empty when bit 0 is set.
func EncodeBitRuns(n int, bit func(idx int) bool) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	cur := false
	i := 0
	for i < n {
		run := 0
		for i < n && bit(i) == cur {
			run++
			i++
		}
		k := binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:k])
		cur = !cur
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodeBitRuns reverses EncodeBitRuns. The decoded runs must add up to
// exactly n bits.
func DecodeBitRuns(b64 string, n int) ([]bool, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative bit count %d", n)
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	out := make([]bool, 0, n)
	cur := false
	for i := 0; i < len(raw); {
		run, k := binary.Uvarint(raw[i:])
		if k <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += k
		if run > uint64(n-len(out)) {
			return nil, fmt.Errorf("run of %d overflows %d bits", run, n)
		}
		for r := uint64(0); r < run; r++ {
			out = append(out, cur)
		}
		cur = !cur
	}
	if len(out) != n {
		return nil, fmt.Errorf("decoded %d bits, want %d", len(out), n)
	}
	return out, nil
}
