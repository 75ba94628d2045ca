package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cbegin/lofi-go"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play generated songs until interrupted",
	Long: `Play songs on the audio device. The first song uses --seed when given;
each following song draws a fresh seed. Stop with Ctrl-C or --songs.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

var (
	playSeed    uint32
	playSongs   int
	playBackend string
	playVolume  float64
)

func init() {
	playCmd.Flags().Uint32Var(&playSeed, "seed", 0, "seed of the first song (random when unset)")
	playCmd.Flags().IntVar(&playSongs, "songs", 0, "stop after N songs (0 = forever)")
	playCmd.Flags().StringVar(&playBackend, "backend", "", "audio backend: ebiten|oto")
	playCmd.Flags().Float64Var(&playVolume, "volume", -1, "master volume scalar")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if playBackend != "" {
		cfg.Backend = playBackend
	}
	if playVolume >= 0 {
		cfg.Volume = playVolume
	}

	opts := playerOptions(cfg)
	if cmd.Flags().Changed("seed") {
		opts = append(opts, lofi.WithSeed(playSeed))
	}
	pl, err := lofi.NewPlayer(cfg.SampleRate, opts...)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := pl.Watch()
	if err := pl.Play(ctx); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	started := 0
	for {
		select {
		case <-ctx.Done():
			pl.Wait()
			return nil
		case ev := <-events:
			switch ev.Kind {
			case lofi.EventSongStarted, lofi.EventRegenerated:
				started++
				if playSongs > 0 && started > playSongs {
					return pl.Stop()
				}
				fmt.Printf("song %d: seed %d, %.0f bpm, %.0f bars (%.1fs)\n",
					started, ev.Seed, ev.Song.Tempo, ev.Song.Length, ev.Song.Duration())
			case lofi.EventStopped:
				return nil
			}
		}
	}
}
