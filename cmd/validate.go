package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kagesign/jutsu/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalog file for definition errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		cat, err := catalog.LoadFile(path)
		if err != nil {
			var invalid *catalog.InvalidCatalogError
			if errors.As(err, &invalid) {
				cmd.Printf("%s: %d issue(s)\n", path, len(invalid.Issues))
				for _, issue := range invalid.Issues {
					cmd.Printf("  ✗ %s\n", issue)
				}
				return fmt.Errorf("catalog is invalid")
			}
			return err
		}

		cmd.Printf("%s: ok (%d combos)\n", path, len(cat.Combos()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
