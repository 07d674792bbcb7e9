package demo

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"spinbits.ai/internal/sim/lattice"
	"spinbits.ai/internal/sim/spin"
	"spinbits.ai/internal/sim/tuning"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRun_ZeroGridTranscript(t *testing.T) {
	cfg := tuning.Default()
	cfg.Size = 2
	cfg.Random = false

	var out bytes.Buffer
	rep, err := Run(&out, cfg, quiet())
	require.NoError(t, err)

	want := "Zero array\n\n[-1 -1 ]\n[-1 -1 ]\n\n" +
		"Random column +1\n\n[+1 -1 ]\n[+1 -1 ]\n\n" +
		"Random row -1\n\n[-1 -1 ]\n[+1 -1 ]\n\n" +
		"Flip\n\n[+1 +1 ]\n[-1 +1 ]\n\n" +
		"Sizes comparison\nWith bitset: 8\nWith int array: 16\nWith zstd: "
	require.True(t, strings.HasPrefix(out.String(), want), out.String())

	require.Equal(t, []int{0, 2, 1, 3}, ups(rep))
	require.Equal(t, uint64(0), rep.Seed)
	require.Equal(t, lattice.Footprint{Cells: 4, PackedBytes: 8, NaiveBytes: 16}, rep.Footprint)
}

func TestRun_RandomGrid(t *testing.T) {
	cfg := tuning.Default()
	cfg.Seed = 99

	var out bytes.Buffer
	rep, err := Run(&out, cfg, quiet())
	require.NoError(t, err)
	require.Equal(t, uint64(99), rep.Seed)

	titles := []string{"Random array", "Random column +1", "Random row -1", "Flip", "Sizes comparison"}
	last := -1
	for _, title := range titles {
		at := strings.Index(out.String(), title+"\n")
		require.Greater(t, at, last, title)
		last = at
	}
	require.Contains(t, out.String(), "With bitset: 32\nWith int array: 1024\n")

	start, err := rep.Replay(0)
	require.NoError(t, err)
	require.True(t, start.Equal(lattice.NewRandom(16, lattice.WithSeed(99))))

	rowFilled, err := rep.Replay(2)
	require.NoError(t, err)
	flipped, err := rep.Replay(3)
	require.NoError(t, err)
	for i := 0; i < 16; i++ {
		for j := 0; j < 16; j++ {
			require.Equal(t, rowFilled.Get(i, j).Neg(), flipped.Get(i, j))
		}
	}
	for j := 0; j < 16; j++ {
		require.Equal(t, spin.Up, flipped.Get(0, j))
	}
	for i := 1; i < 16; i++ {
		require.Equal(t, spin.Down, flipped.Get(i, 0))
	}

	_, err = rep.Replay(4)
	require.Error(t, err)
}

func TestRun_DrawsSeedWhenUnset(t *testing.T) {
	rep, err := Run(io.Discard, tuning.Default(), quiet())
	require.NoError(t, err)
	g, err := rep.Replay(0)
	require.NoError(t, err)
	require.True(t, g.Equal(lattice.NewRandom(16, lattice.WithSeed(rep.Seed))))
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := tuning.Default()
	cfg.Size = 0
	_, err := Run(io.Discard, cfg, quiet())
	require.Error(t, err)
}

func TestRun_NilLogger(t *testing.T) {
	cfg := tuning.Default()
	cfg.Seed = 3
	var rep Report
	var err error
	require.NotPanics(t, func() { rep, err = Run(io.Discard, cfg, nil) })
	require.NoError(t, err)
	require.Len(t, rep.Steps, 4)
}

func TestReplay_BadSizeIsAnError(t *testing.T) {
	for _, size := range []int{0, -4, 1 << 32} {
		rep := Report{Size: size, Steps: []Step{{Cells: ""}}}
		var err error
		require.NotPanicsf(t, func() { _, err = rep.Replay(0) }, "size=%d", size)
		require.Errorf(t, err, "size=%d", size)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRun_WriteError(t *testing.T) {
	_, err := Run(failingWriter{}, tuning.Default(), quiet())
	require.ErrorContains(t, err, "disk full")
}

func TestReport_MatchesSchema(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "..", "schemas", "report.schema.json"))
	require.NoError(t, err)

	cfg := tuning.Default()
	cfg.Seed = 7
	rep, err := Run(io.Discard, cfg, quiet())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteJSON(&buf))

	var doc any
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	require.NoError(t, dec.Decode(&doc))
	require.NoError(t, schema.Validate(doc))

	var broken any
	require.NoError(t, json.Unmarshal([]byte(`{"size":0,"steps":[]}`), &broken))
	require.Error(t, schema.Validate(broken))
}

func ups(rep Report) []int {
	out := make([]int, len(rep.Steps))
	for k, s := range rep.Steps {
		out[k] = s.Up
	}
	return out
}
