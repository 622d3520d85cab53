package config

import (
	"errors"
	"os"
	"testing"

	"pgregory.net/rapid"
)

// Property: project values win over global values, which win over defaults,
// field by field.
func TestConfigMergePrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	// Generator for a Config with each field independently set or unset.
	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasCatalogPath") {
			cfg.CatalogPath = nonEmptyString.Draw(t, "catalogPath")
		}
		if rapid.Bool().Draw(t, "hasDefaultFormat") {
			cfg.DefaultFormat = nonEmptyString.Draw(t, "defaultFormat")
		}
		if rapid.Bool().Draw(t, "hasThreshold") {
			v := rapid.Float64Range(0, 1).Draw(t, "threshold")
			cfg.ConfidenceThreshold = &v
		}
		if rapid.Bool().Draw(t, "hasHoldTime") {
			v := rapid.Int64Range(0, 5000).Draw(t, "holdTime")
			cfg.GestureHoldTimeMS = &v
		}
		if rapid.Bool().Draw(t, "hasResetOnInvalid") {
			v := rapid.Bool().Draw(t, "resetOnInvalid")
			cfg.ResetOnInvalid = &v
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "CatalogPath",
			global.CatalogPath, project.CatalogPath, defaults.CatalogPath,
			merged.CatalogPath)
		checkStringField(t, "DefaultFormat",
			global.DefaultFormat, project.DefaultFormat, defaults.DefaultFormat,
			merged.DefaultFormat)

		checkFloatPtr(t, "ConfidenceThreshold",
			global.ConfidenceThreshold, project.ConfidenceThreshold,
			merged.ConfidenceThreshold)
		checkInt64Ptr(t, "GestureHoldTimeMS",
			global.GestureHoldTimeMS, project.GestureHoldTimeMS,
			merged.GestureHoldTimeMS)
		checkBoolPtr(t, "ResetOnInvalid",
			global.ResetOnInvalid, project.ResetOnInvalid,
			merged.ResetOnInvalid)
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set — expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set — expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set — expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func checkFloatPtr(t *rapid.T, name string, globalVal, projectVal, mergedVal *float64) {
	t.Helper()
	switch {
	case projectVal != nil:
		if mergedVal == nil || *mergedVal != *projectVal {
			t.Fatalf("%s: expected project value", name)
		}
	case globalVal != nil:
		if mergedVal == nil || *mergedVal != *globalVal {
			t.Fatalf("%s: expected global value", name)
		}
	default:
		if mergedVal != nil {
			t.Fatalf("%s: expected unset, got %v", name, *mergedVal)
		}
	}
}

func checkInt64Ptr(t *rapid.T, name string, globalVal, projectVal, mergedVal *int64) {
	t.Helper()
	switch {
	case projectVal != nil:
		if mergedVal == nil || *mergedVal != *projectVal {
			t.Fatalf("%s: expected project value", name)
		}
	case globalVal != nil:
		if mergedVal == nil || *mergedVal != *globalVal {
			t.Fatalf("%s: expected global value", name)
		}
	default:
		if mergedVal != nil {
			t.Fatalf("%s: expected unset, got %v", name, *mergedVal)
		}
	}
}

func checkBoolPtr(t *rapid.T, name string, globalVal, projectVal, mergedVal *bool) {
	t.Helper()
	switch {
	case projectVal != nil:
		if mergedVal == nil || *mergedVal != *projectVal {
			t.Fatalf("%s: expected project value", name)
		}
	case globalVal != nil:
		if mergedVal == nil || *mergedVal != *globalVal {
			t.Fatalf("%s: expected global value", name)
		}
	default:
		if mergedVal != nil {
			t.Fatalf("%s: expected unset, got %v", name, *mergedVal)
		}
	}
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.DefaultFormat != "markdown" {
		t.Errorf("DefaultFormat: want %q, got %q", "markdown", d.DefaultFormat)
	}
	if d.CatalogPath != "" {
		t.Errorf("CatalogPath: want empty (built-in catalog), got %q", d.CatalogPath)
	}
	if d.EffectCooldownMS != 3000 {
		t.Errorf("EffectCooldownMS: want 3000, got %d", d.EffectCooldownMS)
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	defaults := Defaults()
	if cfg.DefaultFormat != defaults.DefaultFormat {
		t.Errorf("DefaultFormat: want %q, got %q", defaults.DefaultFormat, cfg.DefaultFormat)
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	// Write an invalid JSON file where LoadGlobal expects it.
	cfgDir := tmp + "/.config/jutsu"
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgDir+"/config.json", []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}
