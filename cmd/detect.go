package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kagesign/jutsu/internal/catalog"
	"github.com/kagesign/jutsu/internal/effects"
	"github.com/kagesign/jutsu/internal/gesture"
	"github.com/kagesign/jutsu/internal/stream"
	"github.com/kagesign/jutsu/internal/tracker"
	"github.com/kagesign/jutsu/internal/tui"
)

var (
	detectInput   string
	detectPlain   bool
	detectNoWatch bool
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Watch the gesture stream and announce every completed jutsu",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		tr, err := tracker.New(cat)
		if err != nil {
			return err
		}
		dispatcher := effects.NewDispatcher(cfg.EffectCooldown())

		in := os.Stdin
		if detectInput != "" {
			f, err := os.Open(detectInput)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		src := stream.New(in, time.Now())

		if detectPlain {
			return pumpPlain(tr, dispatcher, src, nil)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		m := tui.New(tr, dispatcher, "detect")
		return tui.Run(m, func(send func(tea.Msg)) {
			if cfg.CatalogPath != "" && !detectNoWatch {
				go watchCatalog(ctx, cfg.CatalogPath, send)
			}
			pumpEvents(src, send)
		})
	},
}

// pumpEvents forwards stream events into a running view until the source
// is exhausted. Malformed lines are dropped.
func pumpEvents(src *stream.Source, send func(tea.Msg)) {
	for {
		ev, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				send(tui.StreamClosedMsg{})
				return
			}
			var de *stream.DecodeError
			if errors.As(err, &de) {
				continue
			}
			send(tui.StreamClosedMsg{Err: err})
			return
		}
		send(tui.EventMsg(ev))
	}
}

// watchCatalog forwards catalog file changes into a running view.
func watchCatalog(ctx context.Context, path string, send func(tea.Msg)) {
	_ = catalog.Watch(ctx, path, func(cat *catalog.Catalog, err error) {
		if err == nil {
			cat, err = overlaySettings(cat)
		}
		send(tui.CatalogMsg{Catalog: cat, Err: err})
	})
}

// pumpPlain drives the tracker from src and prints outcomes to stdout.
// observe, when set, sees the outcome of every processed event.
func pumpPlain(tr *tracker.Tracker, dispatcher *effects.Dispatcher, src *stream.Source, observe func(tracker.Outcome, gesture.Event)) error {
	for {
		ev, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var de *stream.DecodeError
			if errors.As(err, &de) {
				fmt.Fprintf(os.Stderr, "line %d: %v\n", de.Line, de.Err)
				continue
			}
			return err
		}
		out := tr.Update(ev.Seal, ev.Confidence, ev.At)
		if observe != nil {
			observe(out, ev)
		}
		printOutcome(out, ev, dispatcher)
	}
}

// printOutcome writes a one-line account of a tracker outcome.
func printOutcome(out tracker.Outcome, ev gesture.Event, dispatcher *effects.Dispatcher) {
	switch o := out.(type) {
	case tracker.Ignored:
		// Per-frame noise, nothing to report.
	case tracker.Progressed:
		fmt.Printf("seal   %s (%.2f)  %s  [%d candidate(s)]\n",
			ev.Seal, ev.Confidence, gesture.FormatSequence(o.Prefix), len(o.Candidates))
	case tracker.Completed:
		fmt.Printf("jutsu  %s (%s)\n", o.Combo.Name, o.Combo.Japanese)
		if dispatcher != nil {
			if action, ok := dispatcher.Dispatch(o.Combo, ev.At); ok && action.Sound != "" {
				fmt.Printf("       ♪ %s\n", action.Sound)
			}
		}
	case tracker.Reset:
		fmt.Printf("reset  attempt discarded (%s)\n", o.Reason)
		if o.Then != nil {
			printOutcome(o.Then, ev, dispatcher)
		}
	}
}

func init() {
	detectCmd.Flags().StringVar(&detectInput, "input", "", "read gesture events from a file instead of stdin")
	detectCmd.Flags().BoolVar(&detectPlain, "plain", false, "plain text output instead of TUI")
	detectCmd.Flags().BoolVar(&detectNoWatch, "no-watch", false, "disable catalog hot reload")
	rootCmd.AddCommand(detectCmd)
}
