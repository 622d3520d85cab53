// Package catalog holds the immutable registry of jutsu combo definitions
// and the detection settings applied to them. Catalogs are validated at
// construction and read-only afterwards, so a single catalog may be shared
// across trackers.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kagesign/jutsu/internal/gesture"
)

// Combo is a named ordered seal sequence with a completion time limit.
// Effects is an opaque payload resolved by the effects layer; the detector
// core never inspects it.
type Combo struct {
	ID         string
	Name       string
	Japanese   string
	Sequence   []gesture.Seal
	TimeWindow time.Duration // zero means "use the catalog default"
	Effects    json.RawMessage
}

// Settings are the detection thresholds applied uniformly to all combos.
type Settings struct {
	ConfidenceThreshold float64
	GestureHoldTime     time.Duration
	ResetOnInvalid      bool
	DefaultTimeWindow   time.Duration
}

// DefaultSettings returns the thresholds used when a catalog file declares none.
func DefaultSettings() Settings {
	return Settings{
		ConfidenceThreshold: 0.7,
		GestureHoldTime:     500 * time.Millisecond,
		ResetOnInvalid:      true,
		DefaultTimeWindow:   5 * time.Second,
	}
}

// Catalog is the validated, immutable set of combos plus settings.
type Catalog struct {
	combos   []*Combo
	byID     map[string]*Combo
	settings Settings
}

// InvalidCatalogError reports every validation problem found at construction.
type InvalidCatalogError struct {
	Issues []string
}

func (e *InvalidCatalogError) Error() string {
	return fmt.Sprintf("invalid catalog: %s", strings.Join(e.Issues, "; "))
}

// New validates the combo definitions and builds a catalog. It fails with
// *InvalidCatalogError if any combo has a sequence shorter than two seals,
// a negative time window, or a duplicate id, or if the settings carry a
// non-positive default time window.
func New(combos []*Combo, settings Settings) (*Catalog, error) {
	var issues []string
	if settings.DefaultTimeWindow <= 0 {
		issues = append(issues, "default time window must be positive")
	}
	byID := make(map[string]*Combo, len(combos))
	for i, c := range combos {
		switch {
		case c.ID == "":
			issues = append(issues, fmt.Sprintf("combo #%d: missing id", i))
		case byID[c.ID] != nil:
			issues = append(issues, fmt.Sprintf("combo %q: duplicate id", c.ID))
		}
		if len(c.Sequence) < 2 {
			issues = append(issues, fmt.Sprintf("combo %q: sequence needs at least 2 seals, has %d", c.ID, len(c.Sequence)))
		}
		if c.TimeWindow < 0 {
			issues = append(issues, fmt.Sprintf("combo %q: time window must not be negative", c.ID))
		}
		if c.ID != "" {
			byID[c.ID] = c
		}
	}
	if len(issues) > 0 {
		return nil, &InvalidCatalogError{Issues: issues}
	}
	return &Catalog{combos: combos, byID: byID, settings: settings}, nil
}

// Settings returns the detection settings the catalog was built with.
func (c *Catalog) Settings() Settings { return c.settings }

// Combos returns all combos in declaration order.
func (c *Catalog) Combos() []*Combo { return c.combos }

// ByID looks a combo up by id.
func (c *Catalog) ByID(id string) (*Combo, bool) {
	combo, ok := c.byID[id]
	return combo, ok
}

// CandidatesMatching returns every combo whose sequence starts with exactly
// the given prefix, in declaration order. An empty prefix matches all combos.
func (c *Catalog) CandidatesMatching(prefix []gesture.Seal) []*Combo {
	var out []*Combo
	for _, combo := range c.combos {
		if hasPrefix(combo.Sequence, prefix) {
			out = append(out, combo)
		}
	}
	return out
}

// EffectiveTimeWindow returns the combo's own time window when set,
// otherwise the catalog default.
func (c *Catalog) EffectiveTimeWindow(combo *Combo) time.Duration {
	if combo.TimeWindow > 0 {
		return combo.TimeWindow
	}
	return c.settings.DefaultTimeWindow
}

func hasPrefix(seq, prefix []gesture.Seal) bool {
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
