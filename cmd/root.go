package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/kagesign/jutsu/internal/catalog"
	"github.com/kagesign/jutsu/internal/config"
	"github.com/kagesign/jutsu/internal/profile"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded player profile.
var activeProfile *profile.Profile

var rootCmd = &cobra.Command{
	Use:   "jutsu",
	Short: "Detect ordered hand-seal sequences from a gesture stream",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to jutsu! Looks like this is your first time.")
				if err := runSetup(true); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults, no profile required.
		}

		// Load profile (optional — may not exist in non-interactive environments).
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		// Profile values fill in config gaps.
		if activeProfile != nil {
			if cfg.DefaultFormat == "" || cfg.DefaultFormat == "markdown" {
				if activeProfile.DefaultFormat != "" {
					cfg.DefaultFormat = activeProfile.DefaultFormat
				}
			}
		}

		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetProfile returns the active player profile.
func GetProfile() *profile.Profile {
	return activeProfile
}

// loadCatalog loads the configured catalog file, or falls back to the
// built-in definitions, and overlays any detection overrides from the
// merged config onto the catalog's settings block.
func loadCatalog() (*catalog.Catalog, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}
	return overlaySettings(cat)
}

// overlaySettings rebuilds cat with the config's detection overrides applied.
func overlaySettings(cat *catalog.Catalog) (*catalog.Catalog, error) {
	s := cat.Settings()
	if cfg.ConfidenceThreshold != nil {
		s.ConfidenceThreshold = *cfg.ConfidenceThreshold
	}
	if cfg.GestureHoldTimeMS != nil {
		s.GestureHoldTime = time.Duration(*cfg.GestureHoldTimeMS) * time.Millisecond
	}
	if cfg.ResetOnInvalid != nil {
		s.ResetOnInvalid = *cfg.ResetOnInvalid
	}
	if cfg.DefaultTimeWindowMS != nil {
		s.DefaultTimeWindow = time.Duration(*cfg.DefaultTimeWindowMS) * time.Millisecond
	}
	return catalog.New(cat.Combos(), s)
}
