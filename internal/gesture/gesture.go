// Package gesture defines the closed hand-seal vocabulary and the typed
// event produced by the upstream classifier.
package gesture

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Seal is one of the twelve hand-seal labels the classifier can emit.
// The vocabulary is closed: every value outside the declared constants
// is invalid and rejected at the parse boundary.
type Seal uint8

const (
	Bird Seal = iota
	Boar
	Dog
	Dragon
	Hare
	Horse
	Monkey
	Ox
	Ram
	Rat
	Snake
	Tiger
	sealCount
)

var sealNames = [sealCount]string{
	"Bird", "Boar", "Dog", "Dragon", "Hare", "Horse",
	"Monkey", "Ox", "Ram", "Rat", "Snake", "Tiger",
}

// All returns every seal in declaration order.
func All() []Seal {
	out := make([]Seal, sealCount)
	for i := range out {
		out[i] = Seal(i)
	}
	return out
}

func (s Seal) String() string {
	if s < sealCount {
		return sealNames[s]
	}
	return fmt.Sprintf("Seal(%d)", uint8(s))
}

// Parse resolves a seal label case-insensitively.
func Parse(label string) (Seal, error) {
	for i, name := range sealNames {
		if strings.EqualFold(name, label) {
			return Seal(i), nil
		}
	}
	return 0, fmt.Errorf("unknown seal %q", label)
}

// MarshalJSON encodes the seal as its label string.
func (s Seal) MarshalJSON() ([]byte, error) {
	if s >= sealCount {
		return nil, fmt.Errorf("cannot marshal invalid seal %d", uint8(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a seal from its label string.
func (s *Seal) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := Parse(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Event is a single classified observation from the upstream pipeline.
type Event struct {
	Seal       Seal      `json:"seal"`
	Confidence float64   `json:"confidence"`
	At         time.Time `json:"at"`
}

// Validate checks the event's fields are within their allowed ranges.
func (e Event) Validate() error {
	if e.Seal >= sealCount {
		return fmt.Errorf("invalid seal %d", uint8(e.Seal))
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1, got %f", e.Confidence)
	}
	return nil
}

// FormatSequence joins a seal sequence for display, e.g. "Snake → Ram → Tiger".
func FormatSequence(seals []Seal) string {
	parts := make([]string, len(seals))
	for i, s := range seals {
		parts[i] = s.String()
	}
	return strings.Join(parts, " → ")
}
