package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cbegin/lofi-go"
	"github.com/cbegin/lofi-go/internal/config"
	"github.com/cbegin/lofi-go/internal/prng"
	"github.com/cbegin/lofi-go/internal/samples"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "lofi",
	Short: "Endless procedurally generated lo-fi music",
	Long: `lofi - generate and play lo-fi songs from a seed.

Every song is derived from a 32-bit seed: the same seed always gives the
same song. When a song ends the next one is generated with a fresh seed.

Settings are read from an optional YAML file (--config); flags override it.

Examples:
  # Play forever
  lofi play

  # Play a known song, then stop
  lofi play --seed 1234 --songs 1

  # Render 30 seconds to a file
  lofi render --seed 1234 --seconds 30 -o song.wav

  # Show how a song is put together
  lofi inspect --seed 1234`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
}

// loadConfig reads --config, or the defaults when it is not set.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", configPath, err)
	}
	slog.Debug("config loaded", "path", configPath)
	return cfg, nil
}

// pickSeed returns --seed when it was given, even 0, then the configured seed,
// then a fresh one.
func pickSeed(cmd *cobra.Command, cfg *config.Config, flag uint32) uint32 {
	if cmd.Flags().Changed("seed") {
		return flag
	}
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return prng.NewSeed()
}

// playerOptions turns cfg into player options, loading any configured
// samples. Samples that fail to load fall back to the built-in kit.
func playerOptions(cfg *config.Config) []lofi.PlayerOption {
	opts := []lofi.PlayerOption{lofi.WithConfig(cfg), lofi.WithLogger(slog.Default())}
	if paths := cfg.Samples.Paths(); len(paths) > 0 {
		bank, err := samples.LoadBank(paths, cfg.SampleRate)
		if err != nil {
			slog.Warn("some samples failed to load, using the built-in kit for them", "error", err)
		}
		opts = append(opts, lofi.WithSamples(bank))
	}
	return opts
}
