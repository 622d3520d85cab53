package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kagesign/jutsu/internal/gesture"
)

var combosCmd = &cobra.Command{
	Use:   "combos",
	Short: "List every jutsu in the active catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		for _, c := range cat.Combos() {
			cmd.Printf("%s — %s (%s)\n", c.ID, c.Name, c.Japanese)
			cmd.Printf("    %s\n", gesture.FormatSequence(c.Sequence))
			cmd.Printf("    window: %.1fs\n", cat.EffectiveTimeWindow(c).Seconds())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(combosCmd)
}
