package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mindguard/pkg"

	"github.com/spf13/cobra"
)

func newMoodsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "moods",
		Short:   "Show the daily mood log",
		Long:    "Print the latest recorded day and the per-day mood counts.",
		Example: "  mindguard moods",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			moods, err := a.pipeline.LoadMoods(cmd.Context())
			if err != nil {
				return err
			}
			printMoods(cmd.OutOrStdout(), moods)
			return nil
		},
	}
}

func printMoods(out io.Writer, moods pkg.MoodLog) {
	date, latest, ok := moods.Latest()
	if !ok {
		fmt.Fprintln(out, "No mood data yet. Start chatting to build your mood log.")
		return
	}

	fmt.Fprintf(out, "Latest recorded day: %s\n", date)
	counts := make([]string, 0, len(pkg.MoodBuckets))
	for _, b := range pkg.MoodBuckets {
		counts = append(counts, fmt.Sprintf("%s: %d", b, latest.Count(b)))
	}
	fmt.Fprintf(out, "  %s\n\n", strings.Join(counts, "  "))

	fmt.Fprintln(out, "Mood trend:")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tPOSITIVE\tNEUTRAL\tNEGATIVE")
	for _, d := range moods.Dates() {
		r := moods[d]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", d, r.Positive, r.Neutral, r.Negative)
	}
	tw.Flush()

	totals := moods.Totals()
	fmt.Fprintf(out, "%s\nTotal: %d positive, %d neutral, %d negative\n",
		strings.Repeat("-", 40), totals.Positive, totals.Neutral, totals.Negative)
}
