package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jjenkins/nichefinder/internal/metrics"
	"github.com/jjenkins/nichefinder/internal/service"
)

var (
	channelsMax    int
	channelsCSV    bool
	channelsOutput string
)

var channelsCmd = &cobra.Command{
	Use:   "channels <keyword>",
	Short: "Search channels for a keyword and record a snapshot of each",
	Long: `Search channels matching a keyword and append today's statistics for each
one to the snapshot store. Run it regularly (for example from cron) to build
the history the growth command compares against.

Examples:
  nichefinder channels "drone reviews" --max 25
  STORE_BACKEND=postgres DATABASE_URL=postgres://... nichefinder channels fpv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChannels,
}

func init() {
	rootCmd.AddCommand(channelsCmd)

	channelsCmd.Flags().IntVarP(&channelsMax, "max", "m", 10, "Number of channels (5-50)")
	channelsCmd.Flags().BoolVar(&channelsCSV, "csv", false, "Write results to niche_results.csv")
	channelsCmd.Flags().StringVarP(&channelsOutput, "output", "o", "", "CSV output path (implies --csv)")
}

func runChannels(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	client, err := newYouTubeClient(ctx, metrics.Nop)
	if err != nil {
		return err
	}

	snapshots, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	fetcher := service.NewChannelFetcher(client, snapshots, metrics.Nop, cfg.DedupeSameDay, logger)
	result, err := fetcher.Fetch(ctx, strings.Join(args, " "), channelsMax)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(result.Channels) == 0 {
		fmt.Fprintln(out, "No channels found for this keyword.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBSCRIBERS\tVIEWS\tVIDEOS\tID\tCHANNEL")
	for _, c := range result.Channels {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\n", c.Subscribers, c.Views, c.Videos, c.ChannelID, c.ChannelTitle)
	}
	tw.Flush()

	fmt.Fprintf(out, "\nSnapshot %s: %d rows appended", result.Date.Format("2006-01-02"), result.Appended)
	if result.Skipped > 0 {
		fmt.Fprintf(out, ", %d already recorded today", result.Skipped)
	}
	fmt.Fprintln(out)

	if channelsCSV || channelsOutput != "" {
		path := channelsOutput
		if path == "" {
			path = service.ChannelsFilename
		}
		return writeCSVFile(out, path, func(w io.Writer) error {
			return service.WriteChannelsCSV(w, result.Channels)
		})
	}
	return nil
}
