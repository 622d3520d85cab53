package stats

import "time"

// Session records one practice or detection run for later review.
type Session struct {
	ID          string         `json:"id"`
	StartTime   time.Time      `json:"start_time"`
	StopTime    *time.Time     `json:"stop_time,omitempty"`
	Mode        string         `json:"mode"`                   // "free" | "practice" | "replay"
	TargetCombo string         `json:"target_combo,omitempty"` // practice mode only
	Attempts    int            `json:"attempts"`               // attempts opened (first seal accepted)
	Completions []Completion   `json:"completions"`
	Resets      map[string]int `json:"resets,omitempty"` // reset reason → count
}

// Completion records a single finished combo within a session.
type Completion struct {
	ComboID string        `json:"combo_id"`
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed_ns"` // first seal to completion
	At      time.Time     `json:"at"`
}

// BestTime returns the fastest completion of the given combo, or ok=false
// if the session never completed it.
func (s *Session) BestTime(comboID string) (best time.Duration, ok bool) {
	for _, c := range s.Completions {
		if c.ComboID != comboID {
			continue
		}
		if !ok || c.Elapsed < best {
			best = c.Elapsed
			ok = true
		}
	}
	return best, ok
}

// RecordReset bumps the counter for a reset reason.
func (s *Session) RecordReset(reason string) {
	if s.Resets == nil {
		s.Resets = make(map[string]int)
	}
	s.Resets[reason]++
}
