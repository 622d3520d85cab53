// Package progress derives display-facing progress information from tracker
// state. Snapshots are pure reads: taking one never mutates the tracker, and
// two snapshots with no intervening update are identical.
package progress

import (
	"sort"
	"time"

	"github.com/kagesign/jutsu/internal/gesture"
	"github.com/kagesign/jutsu/internal/tracker"
)

// Candidate describes one still-reachable combo for display.
type Candidate struct {
	ComboID   string
	Name      string
	Next      gesture.Seal
	Remaining []gesture.Seal
	TimeLeft  time.Duration // clamped to ≥ 0
}

// Report is a point-in-time view of the detection state.
type Report struct {
	Active   bool
	Accepted []gesture.Seal
	Elapsed  time.Duration
	Possible []Candidate // ascending TimeLeft
}

// Snapshot builds a report from the tracker's current state. In targeted
// mode an idle tracker still reports the target's opening seal and full
// window, so guided practice can show what to do before the first accept.
func Snapshot(tr *tracker.Tracker, now time.Time) Report {
	cat := tr.Catalog()
	accepted := tr.Accepted()

	if !tr.Tracking() {
		r := Report{}
		if target := tr.Target(); target != nil {
			r.Active = true
			r.Possible = []Candidate{{
				ComboID:   target.ID,
				Name:      target.Name,
				Next:      target.Sequence[0],
				Remaining: target.Sequence,
				TimeLeft:  cat.EffectiveTimeWindow(target),
			}}
		}
		return r
	}

	started, _ := tr.StartedAt()
	elapsed := now.Sub(started)
	if elapsed < 0 {
		elapsed = 0
	}

	live := tr.Live()
	possible := make([]Candidate, 0, len(live))
	for _, combo := range live {
		remaining := combo.Sequence[len(accepted):]
		timeLeft := cat.EffectiveTimeWindow(combo) - elapsed
		if timeLeft < 0 {
			timeLeft = 0
		}
		c := Candidate{
			ComboID:   combo.ID,
			Name:      combo.Name,
			Remaining: remaining,
			TimeLeft:  timeLeft,
		}
		if len(remaining) > 0 {
			c.Next = remaining[0]
		}
		possible = append(possible, c)
	}
	sort.SliceStable(possible, func(i, j int) bool {
		if possible[i].TimeLeft != possible[j].TimeLeft {
			return possible[i].TimeLeft < possible[j].TimeLeft
		}
		return possible[i].ComboID < possible[j].ComboID
	})

	return Report{
		Active:   true,
		Accepted: accepted,
		Elapsed:  elapsed,
		Possible: possible,
	}
}

// Urgency bands a candidate's remaining time for display.
type Urgency int

const (
	UrgencyLow      Urgency = iota // more than 2s left
	UrgencyMedium                  // between 1s and 2s
	UrgencyCritical                // under 1s
)

// UrgencyFor maps remaining time to its display band.
func UrgencyFor(left time.Duration) Urgency {
	switch {
	case left > 2*time.Second:
		return UrgencyLow
	case left >= time.Second:
		return UrgencyMedium
	default:
		return UrgencyCritical
	}
}
