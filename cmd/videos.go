package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jjenkins/nichefinder/internal/metrics"
	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/service"
)

var (
	videosMax        int
	videosRecentDays int
	videosCSV        bool
	videosOutput     string
)

var videosCmd = &cobra.Command{
	Use:   "videos <keyword>",
	Short: "Search videos for a keyword and rank them by demand score",
	Long: `Search videos matching a keyword, ordered by view count, and score each one.

Demand Score is views / (channel subscribers + 1): a video that reaches far
beyond its channel's audience points at unmet demand.

Examples:
  # Top 10 videos for a keyword
  nichefinder videos "drone reviews"

  # Only videos uploaded in the last 30 days, exported to CSV
  nichefinder videos "drone reviews" --max 25 --recent-days 30 --csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVideos,
}

func init() {
	rootCmd.AddCommand(videosCmd)

	videosCmd.Flags().IntVarP(&videosMax, "max", "m", 10, "Number of results (5-50)")
	videosCmd.Flags().IntVarP(&videosRecentDays, "recent-days", "r", 0, "Only videos uploaded in the last N days (0 = no filter)")
	videosCmd.Flags().BoolVar(&videosCSV, "csv", false, "Write results to {keyword}_niche_analysis.csv")
	videosCmd.Flags().StringVarP(&videosOutput, "output", "o", "", "CSV output path (implies --csv)")
}

func runVideos(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	client, err := newYouTubeClient(ctx, metrics.Nop)
	if err != nil {
		return err
	}

	q := service.VideoQuery{
		Keyword:    strings.Join(args, " "),
		MaxResults: videosMax,
		RecentDays: videosRecentDays,
	}
	records, err := service.NewVideoFetcher(client, logger).Fetch(ctx, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No videos found for this filter.")
		return nil
	}

	printVideos(out, records)

	if videosCSV || videosOutput != "" {
		path := videosOutput
		if path == "" {
			path = service.VideosFilename(q.Keyword)
		}
		return writeCSVFile(out, path, func(w io.Writer) error {
			return service.WriteVideosCSV(w, records)
		})
	}
	return nil
}

func printVideos(out io.Writer, records []model.VideoRecord) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEMAND\tENGAGEMENT %\tVIEWS\tSUBSCRIBERS\tPUBLISHED\tCHANNEL\tTITLE")
	for _, r := range records {
		fmt.Fprintf(tw, "%.2f\t%.2f\t%d\t%d\t%s\t%s\t%s\n",
			r.DemandScore,
			r.EngagementPct,
			r.Views,
			r.Subscribers,
			r.PublishedAt.Format("2006-01-02"),
			r.ChannelTitle,
			r.Title,
		)
	}
	tw.Flush()
}
