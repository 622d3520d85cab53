package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kagesign/jutsu/internal/gesture"
)

// File shapes for the jutsus JSON document. Durations are declared in
// seconds in the file and converted on load.
type fileDoc struct {
	Jutsus   []fileCombo  `json:"jutsus"`
	Settings fileSettings `json:"settings"`
}

type fileCombo struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Japanese      string          `json:"japanese"`
	Sequence      []string        `json:"sequence"`
	TimeWindowSec float64         `json:"time_window"`
	Effects       json.RawMessage `json:"effects"`
}

type fileSettings struct {
	ConfidenceThreshold  *float64 `json:"confidence_threshold"`
	GestureHoldTimeSec   *float64 `json:"gesture_hold_time"`
	ResetOnInvalid       *bool    `json:"reset_on_invalid"`
	DefaultTimeWindowSec *float64 `json:"default_time_window"`
}

// ParseError is returned when a catalog file exists but cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse catalog file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load decodes and validates a catalog from JSON bytes.
func Load(data []byte) (*Catalog, error) {
	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	settings := DefaultSettings()
	if doc.Settings.ConfidenceThreshold != nil {
		settings.ConfidenceThreshold = *doc.Settings.ConfidenceThreshold
	}
	if doc.Settings.GestureHoldTimeSec != nil {
		settings.GestureHoldTime = secondsToDuration(*doc.Settings.GestureHoldTimeSec)
	}
	if doc.Settings.ResetOnInvalid != nil {
		settings.ResetOnInvalid = *doc.Settings.ResetOnInvalid
	}
	if doc.Settings.DefaultTimeWindowSec != nil {
		settings.DefaultTimeWindow = secondsToDuration(*doc.Settings.DefaultTimeWindowSec)
	}

	combos := make([]*Combo, 0, len(doc.Jutsus))
	var issues []string
	for _, fc := range doc.Jutsus {
		seq := make([]gesture.Seal, 0, len(fc.Sequence))
		for _, label := range fc.Sequence {
			s, err := gesture.Parse(label)
			if err != nil {
				issues = append(issues, fmt.Sprintf("combo %q: %v", fc.ID, err))
				continue
			}
			seq = append(seq, s)
		}
		combos = append(combos, &Combo{
			ID:         fc.ID,
			Name:       fc.Name,
			Japanese:   fc.Japanese,
			Sequence:   seq,
			TimeWindow: secondsToDuration(fc.TimeWindowSec),
			Effects:    fc.Effects,
		})
	}
	if len(issues) > 0 {
		return nil, &InvalidCatalogError{Issues: issues}
	}
	return New(combos, settings)
}

// LoadFile reads and validates a catalog from a file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog file not found: %s", path)
		}
		return nil, err
	}
	cat, err := Load(data)
	if err != nil {
		var invalid *InvalidCatalogError
		if errors.As(err, &invalid) {
			return nil, err
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	return cat, nil
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// Default returns the built-in catalog used when no catalog file is
// configured. It mirrors the sequences players know from the show.
func Default() *Catalog {
	combos := []*Combo{
		{
			ID:       "fireball",
			Name:     "Fire Style: Fireball Jutsu",
			Japanese: "Katon: Gōkakyū no Jutsu",
			Sequence: []gesture.Seal{gesture.Snake, gesture.Ram, gesture.Tiger},
			Effects:  json.RawMessage(`{"sound":"fireball.wav","flash":"orange","duration":2.0}`),
		},
		{
			ID:       "shadow-clone",
			Name:     "Shadow Clone Jutsu",
			Japanese: "Kage Bunshin no Jutsu",
			Sequence: []gesture.Seal{gesture.Ram, gesture.Snake, gesture.Tiger},
			Effects:  json.RawMessage(`{"sound":"clone.wav","flash":"white","duration":1.5}`),
		},
		{
			ID:         "chidori",
			Name:       "Chidori",
			Japanese:   "Chidori",
			Sequence:   []gesture.Seal{gesture.Ox, gesture.Hare, gesture.Monkey},
			TimeWindow: 4 * time.Second,
			Effects:    json.RawMessage(`{"sound":"chidori.wav","flash":"blue","duration":2.0}`),
		},
		{
			ID:         "summoning",
			Name:       "Summoning Jutsu",
			Japanese:   "Kuchiyose no Jutsu",
			Sequence:   []gesture.Seal{gesture.Boar, gesture.Dog, gesture.Bird, gesture.Monkey, gesture.Ram},
			TimeWindow: 8 * time.Second,
			Effects:    json.RawMessage(`{"sound":"summon.wav","flash":"purple","duration":2.5}`),
		},
		{
			ID:         "water-dragon",
			Name:       "Water Style: Water Dragon Jutsu",
			Japanese:   "Suiton: Suiryūdan no Jutsu",
			Sequence:   []gesture.Seal{gesture.Ox, gesture.Monkey, gesture.Hare, gesture.Rat, gesture.Boar, gesture.Bird},
			TimeWindow: 10 * time.Second,
			Effects:    json.RawMessage(`{"sound":"water.wav","flash":"cyan","duration":3.0}`),
		},
	}
	cat, err := New(combos, DefaultSettings())
	if err != nil {
		// The built-in definitions are fixed at compile time.
		panic(err)
	}
	return cat
}
