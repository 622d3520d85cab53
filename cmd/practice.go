package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kagesign/jutsu/internal/effects"
	"github.com/kagesign/jutsu/internal/gesture"
	"github.com/kagesign/jutsu/internal/stats"
	"github.com/kagesign/jutsu/internal/stream"
	"github.com/kagesign/jutsu/internal/tracker"
	"github.com/kagesign/jutsu/internal/tui"
)

var (
	practiceHold  bool
	practicePlain bool
	practiceInput string
)

var practiceCmd = &cobra.Command{
	Use:   "practice <combo-id>",
	Short: "Drill a single jutsu and record your times",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comboID := args[0]

		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		combo, ok := cat.ByID(comboID)
		if !ok {
			return fmt.Errorf("unknown combo %q — run 'jutsu combos' to list them", comboID)
		}

		opts := []tracker.Option{tracker.WithTarget(comboID)}
		if !practiceHold {
			opts = append(opts, tracker.WithInstantAcceptance())
		}
		tr, err := tracker.New(cat, opts...)
		if err != nil {
			return err
		}
		dispatcher := effects.NewDispatcher(cfg.EffectCooldown())

		in := os.Stdin
		if practiceInput != "" {
			f, err := os.Open(practiceInput)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		src := stream.New(in, time.Now())

		session := &stats.Session{
			ID:          uuid.NewString(),
			StartTime:   time.Now().UTC(),
			Mode:        "practice",
			TargetCombo: comboID,
		}
		rec := &sessionRecorder{session: session}

		if practicePlain {
			err = pumpPlain(tr, dispatcher, src, rec.observe)
		} else {
			m := tui.New(tr, dispatcher, "practice — "+combo.Name)
			m.OnOutcome = rec.observe
			err = tui.Run(m, func(send func(tea.Msg)) {
				pumpEvents(src, send)
			})
		}
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
			return fmt.Errorf("saving practice session: %w", err)
		}

		fmt.Printf("  %s: %d attempt(s), %d completion(s)\n",
			combo.Name, session.Attempts, len(session.Completions))
		if best, ok := session.BestTime(comboID); ok {
			fmt.Printf("  best time: %.1fs\n", best.Seconds())
		}
		return nil
	},
}

// sessionRecorder accumulates session statistics from tracker outcomes.
type sessionRecorder struct {
	session      *stats.Session
	attemptStart time.Time
}

func (r *sessionRecorder) observe(out tracker.Outcome, ev gesture.Event) {
	switch o := out.(type) {
	case tracker.Progressed:
		if len(o.Prefix) == 1 {
			r.session.Attempts++
			r.attemptStart = ev.At
		}
	case tracker.Completed:
		r.session.Completions = append(r.session.Completions, stats.Completion{
			ComboID: o.Combo.ID,
			Name:    o.Combo.Name,
			Elapsed: ev.At.Sub(r.attemptStart),
			At:      ev.At,
		})
	case tracker.Reset:
		r.session.RecordReset(o.Reason.String())
		if o.Then != nil {
			r.observe(o.Then, ev)
		}
	}
}

func init() {
	practiceCmd.Flags().BoolVar(&practiceHold, "hold", false, "require the configured hold time per seal (off by default in practice)")
	practiceCmd.Flags().BoolVar(&practicePlain, "plain", false, "plain text output instead of TUI")
	practiceCmd.Flags().StringVar(&practiceInput, "input", "", "read gesture events from a file instead of stdin")
	rootCmd.AddCommand(practiceCmd)
}
