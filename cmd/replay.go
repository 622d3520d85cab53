package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kagesign/jutsu/internal/effects"
	"github.com/kagesign/jutsu/internal/gesture"
	"github.com/kagesign/jutsu/internal/stats"
	"github.com/kagesign/jutsu/internal/stream"
	"github.com/kagesign/jutsu/internal/tracker"
)

var replaySpeed float64

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-run a recorded gesture stream through the detector",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		tr, err := tracker.New(cat)
		if err != nil {
			return err
		}
		dispatcher := effects.NewDispatcher(cfg.EffectCooldown())

		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}
		defer f.Close()

		session := &stats.Session{
			ID:        uuid.NewString(),
			StartTime: time.Now().UTC(),
			Mode:      "replay",
		}
		rec := &sessionRecorder{session: session}

		src := stream.New(f, time.Now())
		err = stream.Replay(context.Background(), src, replaySpeed, func(ev gesture.Event) error {
			out := tr.Update(ev.Seal, ev.Confidence, ev.At)
			rec.observe(out, ev)
			printOutcome(out, ev, dispatcher)
			return nil
		})
		if err != nil {
			return err
		}

		stop := time.Now().UTC()
		session.StopTime = &stop

		store, err := stats.NewStore()
		if err != nil {
			return err
		}
		if err := store.Append(session); err != nil {
			return fmt.Errorf("saving replay session: %w", err)
		}

		fmt.Printf("\n  replay done: %d attempt(s), %d completion(s)\n",
			session.Attempts, len(session.Completions))
		return nil
	},
}

func init() {
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "playback speed multiplier (0 disables pacing)")
	rootCmd.AddCommand(replayCmd)
}
