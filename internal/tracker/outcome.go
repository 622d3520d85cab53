package tracker

import (
	"github.com/kagesign/jutsu/internal/catalog"
	"github.com/kagesign/jutsu/internal/gesture"
)

// Outcome is the result of a single Update call. Exactly one of the four
// variants is returned; callers switch on the concrete type.
type Outcome interface {
	outcome()
}

// Ignored means the observation left the tracker unchanged: low confidence,
// an unfinished hold, or a tolerated duplicate.
type Ignored struct{}

// Progressed means the seal was accepted into the current attempt.
// Candidates holds every combo still reachable from the new prefix.
type Progressed struct {
	Prefix     []gesture.Seal
	Candidates []*catalog.Combo
}

// Completed means the attempt finished a combo; the tracker is idle again.
type Completed struct {
	Combo *catalog.Combo
}

// ResetReason says why an attempt was abandoned.
type ResetReason int

const (
	ResetTimeout ResetReason = iota
	ResetInvalidGesture
	ResetManual
)

func (r ResetReason) String() string {
	switch r {
	case ResetTimeout:
		return "timeout"
	case ResetInvalidGesture:
		return "invalid-gesture"
	case ResetManual:
		return "manual"
	}
	return "unknown"
}

// Reset means the in-progress attempt was abandoned. When the triggering
// seal immediately started a fresh attempt (timeout fall-through, or the
// reset-on-invalid retry), Then carries that follow-up result; otherwise
// Then is nil.
type Reset struct {
	Reason ResetReason
	Then   Outcome
}

func (Ignored) outcome()    {}
func (Progressed) outcome() {}
func (Completed) outcome()  {}
func (Reset) outcome()      {}
