package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kagesign/jutsu/internal/stats"
)

func TestPracticePlainRecordsBestTime(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(fireballRecording()), 0o644); err != nil {
		t.Fatal(err)
	}

	var cmdErr error
	out := captureStdout(t, func() {
		_, cmdErr = executeCommand(rootCmd, "practice", "fireball", "--plain", "--input", path)
	})
	if cmdErr != nil {
		t.Fatalf("practice command error: %v", cmdErr)
	}

	if !strings.Contains(out, "jutsu  Fire Style: Fireball Jutsu") {
		t.Errorf("expected completion line, got:\n%s", out)
	}
	// Instant acceptance: the combo completes on the first Tiger frame,
	// 1.4s after the first Snake.
	if !strings.Contains(out, "best time: 1.4s") {
		t.Errorf("expected best time line, got:\n%s", out)
	}

	store, err := stats.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	history, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(history) != 1 || history[0].Mode != "practice" || history[0].TargetCombo != "fireball" {
		t.Fatalf("expected one practice session targeting fireball, got %+v", history)
	}
}

func TestPracticeUnknownCombo(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := executeCommand(rootCmd, "practice", "rasengan")
	if err == nil {
		t.Fatal("expected an error for an unknown combo, got nil")
	}
	if !strings.Contains(err.Error(), "unknown combo") {
		t.Errorf("expected an unknown-combo error, got: %v", err)
	}
}
