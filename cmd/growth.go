package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jjenkins/nichefinder/internal/service"
)

var (
	growthQuery     service.GrowthQuery
	growthMaxSubs   uint64
	growthMaxVideos uint64
	growthCSV       bool
	growthOutput    string
)

var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Rank tracked channels by subscriber growth",
	Long: `Compare each tracked channel's latest snapshot with its most recent snapshot
at least --timeframe days old. Channels without such a snapshot are skipped.

Examples:
  nichefinder growth --timeframe 30
  nichefinder growth --timeframe 7 --min-subs 1000 --max-subs 100000 --min-views 50000 --csv`,
	Args: cobra.NoArgs,
	RunE: runGrowth,
}

func init() {
	rootCmd.AddCommand(growthCmd)

	growthCmd.Flags().IntVarP(&growthQuery.Timeframe, "timeframe", "t", 7, "Growth window in days (7, 30 or 90)")
	growthCmd.Flags().Uint64Var(&growthQuery.Subscribers.Min, "min-subs", 0, "Minimum subscribers")
	growthCmd.Flags().Uint64Var(&growthMaxSubs, "max-subs", 0, "Maximum subscribers (no limit when unset)")
	growthCmd.Flags().Uint64Var(&growthQuery.Videos.Min, "min-videos", 0, "Minimum video count")
	growthCmd.Flags().Uint64Var(&growthMaxVideos, "max-videos", 0, "Maximum video count (no limit when unset)")
	growthCmd.Flags().Uint64Var(&growthQuery.MinViews, "min-views", 0, "Minimum total channel views")
	growthCmd.Flags().BoolVar(&growthCSV, "csv", false, "Write results to channel_growth.csv")
	growthCmd.Flags().StringVarP(&growthOutput, "output", "o", "", "CSV output path (implies --csv)")
}

func runGrowth(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	snapshots, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	if cmd.Flags().Changed("max-subs") {
		growthQuery.Subscribers.Max = &growthMaxSubs
	}
	if cmd.Flags().Changed("max-videos") {
		growthQuery.Videos.Max = &growthMaxVideos
	}

	records, err := service.NewGrowthAnalyzer(snapshots, logger).Analyze(ctx, growthQuery)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "No tracked channel has a snapshot older than %d days that matches these filters.\n", growthQuery.Timeframe)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUB GROWTH\tVIEW GROWTH\tSUBSCRIBERS\tVIEWS\tVIDEOS\tSINCE\tCHANNEL")
	for _, r := range records {
		fmt.Fprintf(tw, "%+d\t%+d\t%d\t%d\t%d\t%s\t%s\n",
			r.SubGrowth, r.ViewGrowth, r.Subscribers, r.Views, r.Videos,
			r.PastDate.Format("2006-01-02"), r.ChannelTitle)
	}
	tw.Flush()

	if growthCSV || growthOutput != "" {
		path := growthOutput
		if path == "" {
			path = service.GrowthFilename
		}
		return writeCSVFile(out, path, func(w io.Writer) error {
			return service.WriteGrowthCSV(w, records)
		})
	}
	return nil
}
