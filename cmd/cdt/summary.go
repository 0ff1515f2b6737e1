package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/j-veylop/capacity-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/capacity-dashboard-tui/internal/models"
)

var (
	summaryFilters filterFlags
	summaryGroupBy string
	summaryOrder   string
	summaryTop     int
)

// summaryCmd prints headline numbers and grouped statistics.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print headline numbers and grouped statistics",
	Long: `Load the data file, apply the filter flags and print the headline numbers
followed by statistics of the chosen metric grouped by hour, provider or site.

With --top the groups are ranked by descending sum and cut to that many.`,
	Example: `  cdt summary --provider AI --hours 6-18 --group-by site --top 5
  cdt summary --mode site_focus --site S1 --metric delay`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryFilters.register(summaryCmd.Flags())
	summaryCmd.Flags().StringVarP(&summaryGroupBy, "group-by", "g", string(aggregate.ByHour), "hour, provider or site")
	summaryCmd.Flags().StringVar(&summaryOrder, "order", aggregate.OrderByKey.String(), "key or sum")
	summaryCmd.Flags().IntVarP(&summaryTop, "top", "n", 0, "show only the top N groups by sum (0 shows all)")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	dim, err := aggregate.ParseDimension(summaryGroupBy)
	if err != nil {
		return err
	}
	order, err := aggregate.ParseOrder(summaryOrder)
	if err != nil {
		return err
	}
	if summaryTop < 0 {
		return fmt.Errorf("--top must not be negative, got %d", summaryTop)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ds, err := loadDataset(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	spec, view, err := summaryFilters.view(ds)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printHeadline(w, ds, spec, view)

	agg := aggregate.GroupBy(view, spec.Metric, dim, order)
	groups := agg.Groups
	if summaryTop > 0 {
		groups = aggregate.TopN(agg, summaryTop)
	}
	_, _ = fmt.Fprintln(w)
	return printGroups(w, dim, spec.Metric, groups, aggregate.Summary(view, spec.Metric))
}

func printHeadline(w io.Writer, ds *models.Dataset, spec models.FilterSpec, view []models.MetricRecord) {
	bold := color.New(color.Bold)
	h := aggregate.ComputeHeadline(view)

	_, _ = fmt.Fprintf(w, "%s %s (%s records", bold.Sprint("Data:"), ds.Path, humanize.Comma(int64(ds.Len())))
	if n := ds.DroppedCount(); n > 0 {
		_, _ = fmt.Fprintf(w, ", %s", color.YellowString("%d dropped", n))
	}
	_, _ = fmt.Fprintln(w, ")")
	_, _ = fmt.Fprintf(w, "%s hours %s, %d providers, %d sites, metric %s\n",
		bold.Sprint("Filter:"), spec.Hours, len(spec.Providers), len(spec.Sites), spec.Metric.Label())

	if len(view) == 0 {
		_, _ = fmt.Fprintln(w, color.YellowString("No records match the filter."))
		return
	}

	_, _ = fmt.Fprintf(w, "%s %s records, %d providers, %d sites, %d hours\n",
		bold.Sprint("View:"), humanize.Comma(int64(h.DataPoints)), h.Providers, h.Sites, h.Hours)
	_, _ = fmt.Fprintf(w, "%s avg %.2f, max %.2f\n", bold.Sprint("TPH:"), h.AvgTPH, h.MaxTPH)
	_, _ = fmt.Fprintf(w, "%s avg %.2f min, best %.2f min\n", bold.Sprint("Delay:"), h.AvgDelay, h.MinDelay)
	_, _ = fmt.Fprintf(w, "%s %s total, %.1f per record\n", bold.Sprint("Count:"), humanize.Comma(h.TotalCount), h.AvgCount)
	if !h.LatestUpdate.IsZero() {
		_, _ = fmt.Fprintf(w, "%s %s\n", bold.Sprint("Updated:"), h.LatestUpdate.Format("2006-01-02 15:04:05"))
	}
}

func printGroups(w io.Writer, dim aggregate.Dimension, metric models.Metric, groups []aggregate.Group, total aggregate.Stats) error {
	bold := color.New(color.Bold)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
		bold.Sprint(dimLabel(dim)), bold.Sprint("N"), bold.Sprint("SUM"), bold.Sprint("MEAN"),
		bold.Sprint("MEDIAN"), bold.Sprint("MIN"), bold.Sprint("MAX"))
	for _, g := range groups {
		writeStatsRow(tw, g.Key, g.Stats)
	}
	if len(groups) > 0 {
		writeStatsRow(tw, color.CyanString("all"), total)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s by %s\n", metric.Label(), dimLabel(dim))
	return err
}

func writeStatsRow(w io.Writer, label string, s aggregate.Stats) {
	_, _ = fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
		label, s.Count, s.Sum, s.Mean, s.Median, s.Min, s.Max)
}

func dimLabel(dim aggregate.Dimension) string {
	switch dim {
	case aggregate.ByProvider:
		return "PROVIDER"
	case aggregate.BySite:
		return "SITE"
	default:
		return "HOUR"
	}
}
