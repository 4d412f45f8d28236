package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jjenkins/nichefinder/internal/metrics"
	"github.com/jjenkins/nichefinder/internal/service"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Print keyword suggestions for a partial query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		client := service.NewSuggestClient(cfg.SuggestEndpoint, cfg.HTTPTimeout, metrics.Nop, logger)
		suggestions, err := client.Suggest(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(suggestions) == 0 {
			fmt.Fprintln(out, "No suggestions.")
			return nil
		}
		for _, s := range suggestions {
			fmt.Fprintln(out, s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
