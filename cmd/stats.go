package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kagesign/jutsu/internal/stats"
)

var statsExport string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice history and best times",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := stats.NewStore()
		if err != nil {
			return err
		}
		history, err := store.Load()
		if err != nil {
			if errors.Is(err, stats.ErrNoHistory) {
				cmd.Println("no practice history yet — run 'jutsu practice <combo-id>' first")
				return nil
			}
			return err
		}

		format := statsExport
		if format == "" {
			format = cfg.DefaultFormat
		}

		var renderer stats.Renderer
		switch format {
		case "json":
			renderer = &stats.JSONRenderer{}
		case "markdown", "":
			player := ""
			if activeProfile != nil {
				player = activeProfile.Name
			}
			renderer = &stats.MarkdownRenderer{Player: player}
		default:
			return fmt.Errorf("unknown format %q (want markdown or json)", format)
		}

		data, err := renderer.Render(history)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsExport, "export", "", "output format: markdown or json (default from config)")
	rootCmd.AddCommand(statsCmd)
}
