// Package effects resolves a completed combo's opaque effect payload into
// the actions the presentation layer should fire. Actual audio and visual
// playback stays outside this program; the dispatcher only decides what
// would play, and rate-limits repeat completions with a per-combo cooldown.
package effects

import (
	"encoding/json"
	"time"

	"github.com/kagesign/jutsu/internal/catalog"
)

// Action is the resolved effect for one completion.
type Action struct {
	ComboID  string
	Name     string
	Sound    string
	Flash    string
	Duration time.Duration
}

// payload is the conventional shape of a combo's effects field. Unknown
// fields are ignored so catalogs can carry data for other consumers.
type payload struct {
	Sound       string  `json:"sound"`
	Flash       string  `json:"flash"`
	DurationSec float64 `json:"duration"`
}

const defaultDuration = 2 * time.Second

// Dispatcher turns completions into actions, suppressing retriggers of the
// same combo inside the cooldown window.
type Dispatcher struct {
	cooldown  time.Duration
	lastFired map[string]time.Time
}

// NewDispatcher builds a dispatcher with the given per-combo cooldown.
func NewDispatcher(cooldown time.Duration) *Dispatcher {
	return &Dispatcher{
		cooldown:  cooldown,
		lastFired: make(map[string]time.Time),
	}
}

// Dispatch resolves the action for a completed combo. ok is false when the
// combo is still cooling down from a previous completion.
func (d *Dispatcher) Dispatch(combo *catalog.Combo, now time.Time) (Action, bool) {
	if last, seen := d.lastFired[combo.ID]; seen && now.Sub(last) < d.cooldown {
		return Action{}, false
	}
	d.lastFired[combo.ID] = now

	action := Action{
		ComboID:  combo.ID,
		Name:     combo.Name,
		Duration: defaultDuration,
	}
	if len(combo.Effects) > 0 {
		var p payload
		// Malformed payloads degrade to the bare announce action: the
		// payload is opaque to the detector and must never fail a session.
		if err := json.Unmarshal(combo.Effects, &p); err == nil {
			action.Sound = p.Sound
			action.Flash = p.Flash
			if p.DurationSec > 0 {
				action.Duration = time.Duration(p.DurationSec * float64(time.Second))
			}
		}
	}
	return action, true
}
