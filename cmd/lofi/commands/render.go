package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cbegin/lofi-go"
	"github.com/cbegin/lofi-go/internal/engine"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one song to a WAV file",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

var (
	renderSeed    uint32
	renderSeconds float64
	renderOutput  string
)

func init() {
	renderCmd.Flags().Uint32Var(&renderSeed, "seed", 0, "song seed (random when unset)")
	renderCmd.Flags().Float64Var(&renderSeconds, "seconds", 0, "length to render (0 = whole song)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "lofi.wav", "output WAV path")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	seed := pickSeed(cmd, cfg, renderSeed)

	out, s, err := lofi.Render(seed, cfg.SampleRate, renderSeconds, playerOptions(cfg)...)
	if err != nil {
		return err
	}
	f, err := os.Create(renderOutput)
	if err != nil {
		return err
	}
	if err := lofi.WriteWAV(f, out, cfg.SampleRate, engine.Channels); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", renderOutput, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("rendered", "seed", seed, "tempo", s.Tempo, "seconds", float64(len(out)/engine.Channels)/float64(cfg.SampleRate), "path", renderOutput)
	return nil
}
