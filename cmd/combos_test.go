package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

func TestCombosListsBuiltinCatalog(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := executeCommand(rootCmd, "combos")
	if err != nil {
		t.Fatalf("combos command error: %v", err)
	}

	for _, want := range []string{
		"fireball — Fire Style: Fireball Jutsu",
		"Snake → Ram → Tiger",
		"chidori",
		"window: 4.0s",
		"water-dragon",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestCombosUsesConfiguredCatalog(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	catalogPath := filepath.Join(home, "jutsus.json")
	doc := `{
  "jutsus": [
    {"id": "bullet", "name": "Water Bullet", "japanese": "Teppōdama",
     "sequence": ["Tiger", "Ox"], "time_window": 3.0}
  ],
  "settings": {"confidence_threshold": 0.5}
}`
	if err := os.WriteFile(catalogPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	confDir := filepath.Join(home, ".config", "jutsu")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatal(err)
	}
	conf, _ := json.Marshal(map[string]string{"catalog_path": catalogPath})
	if err := os.WriteFile(filepath.Join(confDir, "config.json"), conf, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "combos")
	if err != nil {
		t.Fatalf("combos command error: %v", err)
	}

	if !strings.Contains(out, "bullet — Water Bullet (Teppōdama)") {
		t.Errorf("expected configured catalog entry, got:\n%s", out)
	}
	if !strings.Contains(out, "Tiger → Ox") {
		t.Errorf("expected sequence line, got:\n%s", out)
	}
	if strings.Contains(out, "fireball") {
		t.Errorf("built-in catalog should be replaced, got:\n%s", out)
	}
}
