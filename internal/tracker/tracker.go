// Package tracker implements the ordered-gesture sequence state machine.
// It consumes classified seal observations one at a time and reports, per
// observation, whether an attempt progressed, completed a combo, or was
// abandoned. The tracker performs no I/O and is driven by a single caller;
// timeouts are evaluated lazily on the next Update call.
package tracker

import (
	"fmt"
	"time"

	"github.com/kagesign/jutsu/internal/catalog"
	"github.com/kagesign/jutsu/internal/gesture"
)

// Tracker is the mutable per-session detection state. One tracker per
// session; the shared catalog stays read-only.
type Tracker struct {
	cat      *catalog.Catalog
	settings catalog.Settings
	instant  bool
	target   *catalog.Combo

	accepted  []gesture.Seal
	live      []*catalog.Combo
	startedAt time.Time

	pending      gesture.Seal
	pendingSet   bool
	pendingSince time.Time

	lastAccepted gesture.Seal
	lastSet      bool
}

// Option configures a Tracker at construction. Mode selection is fixed up
// front so the transition logic itself stays uniform.
type Option func(*Tracker) error

// WithInstantAcceptance disables the hold-time debounce: every observation
// that passes the confidence gate is immediately eligible for acceptance.
// Used in guided practice where responsiveness beats noise robustness.
func WithInstantAcceptance() Option {
	return func(t *Tracker) error {
		t.instant = true
		return nil
	}
}

// WithTarget restricts the candidate set to a single combo regardless of
// what else the catalog would match.
func WithTarget(comboID string) Option {
	return func(t *Tracker) error {
		combo, ok := t.cat.ByID(comboID)
		if !ok {
			return fmt.Errorf("unknown combo %q", comboID)
		}
		t.target = combo
		return nil
	}
}

// New builds a tracker over the given catalog, starting idle.
func New(cat *catalog.Catalog, opts ...Option) (*Tracker, error) {
	t := &Tracker{cat: cat, settings: cat.Settings()}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Catalog returns the catalog the tracker matches against.
func (t *Tracker) Catalog() *catalog.Catalog { return t.cat }

// Target returns the single target combo, or nil in full-catalog mode.
func (t *Tracker) Target() *catalog.Combo { return t.target }

// Tracking reports whether an attempt is in progress.
func (t *Tracker) Tracking() bool { return len(t.accepted) > 0 }

// Accepted returns a copy of the seals confirmed so far in this attempt.
func (t *Tracker) Accepted() []gesture.Seal {
	out := make([]gesture.Seal, len(t.accepted))
	copy(out, t.accepted)
	return out
}

// StartedAt returns the instant the first seal of the attempt was accepted.
// ok is false when idle.
func (t *Tracker) StartedAt() (at time.Time, ok bool) {
	return t.startedAt, t.Tracking()
}

// Live returns the combos still reachable from the accepted prefix.
func (t *Tracker) Live() []*catalog.Combo {
	out := make([]*catalog.Combo, len(t.live))
	copy(out, t.live)
	return out
}

// Update feeds one observation through the machine and returns what it did.
// The state transitions atomically: either the observation is fully applied
// or the tracker is untouched.
func (t *Tracker) Update(seal gesture.Seal, confidence float64, now time.Time) Outcome {
	// Low-confidence observations are invisible to the machine.
	if confidence < t.settings.ConfidenceThreshold {
		return Ignored{}
	}

	// Hold-time debounce, free mode only. A changed seal starts a new hold
	// timer; acceptance waits until the seal has been held long enough.
	if !t.instant {
		if !t.pendingSet || seal != t.pending {
			t.pending = seal
			t.pendingSet = true
			t.pendingSince = now
			return Ignored{}
		}
		if now.Sub(t.pendingSince) < t.settings.GestureHoldTime {
			return Ignored{}
		}
	}

	// Lazy timeout: abandon an expired attempt, then re-evaluate the current
	// seal as the possible start of a fresh one.
	if t.Tracking() && now.Sub(t.startedAt) > t.maxLiveWindow() {
		t.clearAttempt()
		return Reset{Reason: ResetTimeout, Then: t.accept(seal, now)}
	}

	out := t.accept(seal, now)
	if out == nil {
		return Ignored{}
	}
	return out
}

// accept runs the acceptance test for a confirmed seal. It returns nil when
// the seal neither extends a candidate nor triggers a reset, so callers can
// distinguish "nothing happened" from an explicit outcome.
func (t *Tracker) accept(seal gesture.Seal, now time.Time) Outcome {
	trial := append(t.Accepted(), seal)
	candidates := t.matching(trial)

	if len(candidates) > 0 {
		if len(t.accepted) == 0 {
			t.startedAt = now
		}
		t.accepted = trial
		t.live = candidates
		t.lastAccepted = seal
		t.lastSet = true

		if len(candidates) == 1 && len(trial) == len(candidates[0].Sequence) {
			combo := candidates[0]
			t.clearAttempt()
			return Completed{Combo: combo}
		}
		return Progressed{Prefix: t.Accepted(), Candidates: candidates}
	}

	// The seal extends no candidate. An immediate repeat of the last
	// accepted seal is a tolerated no-op, not an invalid gesture: combos
	// that legitimately repeat a seal are handled by the match above.
	if t.lastSet && seal == t.lastAccepted {
		return nil
	}

	if !t.settings.ResetOnInvalid {
		return nil
	}

	if !t.Tracking() {
		// Idle and the seal starts nothing: plain noise.
		return nil
	}

	// Abandon the attempt, then retry the seal as a fresh start.
	t.clearAttempt()
	return Reset{Reason: ResetInvalidGesture, Then: t.accept(seal, now)}
}

// Reset unconditionally abandons the current attempt. Used when the player
// switches target or leaves the mode.
func (t *Tracker) Reset() Outcome {
	t.clearAttempt()
	return Reset{Reason: ResetManual}
}

// matching returns the candidate combos for a prefix, honoring target mode.
func (t *Tracker) matching(prefix []gesture.Seal) []*catalog.Combo {
	if t.target != nil {
		if hasSealPrefix(t.target.Sequence, prefix) {
			return []*catalog.Combo{t.target}
		}
		return nil
	}
	return t.cat.CandidatesMatching(prefix)
}

// maxLiveWindow is the largest effective window among live candidates: an
// attempt stays alive as long as any candidate could still complete in time.
func (t *Tracker) maxLiveWindow() time.Duration {
	var widest time.Duration
	for _, c := range t.live {
		if w := t.cat.EffectiveTimeWindow(c); w > widest {
			widest = w
		}
	}
	return widest
}

// clearAttempt returns the machine to idle. The debounce hold restarts too:
// a seal still raised after a completion or reset must be held anew before
// it can open the next attempt.
func (t *Tracker) clearAttempt() {
	t.accepted = nil
	t.live = nil
	t.startedAt = time.Time{}
	t.lastSet = false
	t.pendingSet = false
}

func hasSealPrefix(seq, prefix []gesture.Seal) bool {
	if len(prefix) > len(seq) {
		return false
	}
	for i, s := range prefix {
		if seq[i] != s {
			return false
		}
	}
	return true
}
