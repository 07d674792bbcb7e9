package tuning

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"spinbits.ai/internal/platform/logger"
	"spinbits.ai/internal/sim/lattice"
)

type Tuning struct {
	Size   int  `yaml:"size"`
	Random bool `yaml:"random"`
	// Seed 0 means draw a fresh seed for every run.
	Seed uint64 `yaml:"seed"`

	CompressionLevel string `yaml:"compression_level"`
	LogLevel         string `yaml:"log_level"`
}

func Default() Tuning {
	return Tuning{
		Size:             16,
		Random:           true,
		CompressionLevel: "default",
		LogLevel:         "info",
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default values.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	var errs []error
	if err := lattice.CheckSize(t.Size); err != nil {
		errs = append(errs, fmt.Errorf("size: %w", err))
	}
	if _, err := t.EncoderLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logger.ParseLevel(t.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

func (t Tuning) EncoderLevel() (zstd.EncoderLevel, error) {
	switch strings.ToLower(t.CompressionLevel) {
	case "fastest":
		return zstd.SpeedFastest, nil
	case "", "default":
		return zstd.SpeedDefault, nil
	case "better":
		return zstd.SpeedBetterCompression, nil
	case "best":
		return zstd.SpeedBestCompression, nil
	}
	return 0, fmt.Errorf("unknown compression_level %q", t.CompressionLevel)
}
