package effects_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kagesign/jutsu/internal/catalog"
	"github.com/kagesign/jutsu/internal/effects"
	"github.com/kagesign/jutsu/internal/gesture"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func testCombo(raw string) *catalog.Combo {
	return &catalog.Combo{
		ID:       "fireball",
		Name:     "Fire Style: Fireball Jutsu",
		Sequence: []gesture.Seal{gesture.Snake, gesture.Ram, gesture.Tiger},
		Effects:  json.RawMessage(raw),
	}
}

func TestDispatchResolvesPayload(t *testing.T) {
	d := effects.NewDispatcher(3 * time.Second)

	action, ok := d.Dispatch(testCombo(`{"sound":"fireball.wav","flash":"orange","duration":2.5}`), epoch)
	if !ok {
		t.Fatal("first dispatch should fire")
	}
	if action.Sound != "fireball.wav" || action.Flash != "orange" {
		t.Fatalf("action %+v", action)
	}
	if action.Duration != 2500*time.Millisecond {
		t.Fatalf("duration %v", action.Duration)
	}
}

func TestDispatchCooldown(t *testing.T) {
	d := effects.NewDispatcher(3 * time.Second)
	combo := testCombo(`{"sound":"fireball.wav"}`)

	if _, ok := d.Dispatch(combo, epoch); !ok {
		t.Fatal("first dispatch should fire")
	}
	if _, ok := d.Dispatch(combo, epoch.Add(time.Second)); ok {
		t.Fatal("dispatch inside cooldown should be suppressed")
	}
	if _, ok := d.Dispatch(combo, epoch.Add(3*time.Second)); !ok {
		t.Fatal("dispatch after cooldown should fire")
	}
}

func TestCooldownIsPerCombo(t *testing.T) {
	d := effects.NewDispatcher(3 * time.Second)

	if _, ok := d.Dispatch(testCombo(`{}`), epoch); !ok {
		t.Fatal("fireball should fire")
	}
	other := &catalog.Combo{
		ID:       "chidori",
		Name:     "Chidori",
		Sequence: []gesture.Seal{gesture.Ox, gesture.Hare, gesture.Monkey},
	}
	if _, ok := d.Dispatch(other, epoch.Add(time.Second)); !ok {
		t.Fatal("a different combo is not covered by fireball's cooldown")
	}
}

func TestDispatchToleratesBadPayload(t *testing.T) {
	d := effects.NewDispatcher(time.Second)

	action, ok := d.Dispatch(testCombo(`"not an object"`), epoch)
	if !ok {
		t.Fatal("bad payload must still announce the completion")
	}
	if action.ComboID != "fireball" || action.Name == "" {
		t.Fatalf("action %+v", action)
	}
	if action.Duration <= 0 {
		t.Fatal("default duration expected")
	}
}
