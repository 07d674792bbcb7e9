package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"spinbits.ai/internal/platform/logger"
	"spinbits.ai/internal/sim/demo"
	"spinbits.ai/internal/sim/tuning"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "spinbits:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		size       int
		seed       uint64
		zero       bool
		asJSON     bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "spinbits",
		Short:         "Walk through a bit-packed N×N spin lattice",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := tuning.Default()
			if configPath != "" {
				var err error
				if cfg, err = tuning.Load(configPath); err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			flags := cmd.Flags()
			if flags.Changed("size") {
				cfg.Size = size
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("zero") {
				cfg.Random = !zero
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			log, err := logger.Setup(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			log.Debug("config", "size", cfg.Size, "random", cfg.Random, "seed", cfg.Seed)

			out := cmd.OutOrStdout()
			if asJSON {
				rep, err := demo.Run(io.Discard, cfg, log)
				if err != nil {
					return err
				}
				return rep.WriteJSON(out)
			}
			_, err = demo.Run(out, cfg, log)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "path to a demo YAML config (see configs/demo.yaml)")
	f.IntVar(&size, "size", 16, "lattice dimension N")
	f.Uint64Var(&seed, "seed", 0, "random seed (0 draws a fresh one)")
	f.BoolVar(&zero, "zero", false, "start from an all -1 lattice instead of a random one")
	f.BoolVar(&asJSON, "json", false, "print a JSON report instead of the text walkthrough")
	f.StringVar(&logLevel, "log-level", "info", "debug|info|warn|error")
	return cmd
}
