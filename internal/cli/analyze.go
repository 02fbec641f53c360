package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

type analyzeOptions struct {
	file     string
	date     string
	days     int
	noDerive bool
	json     bool
}

type analyzeReport struct {
	Daily           *domain.DailyAnalysis `json:"daily"`
	Trend           *domain.TrendAnalysis `json:"trend"`
	Recommendations []string              `json:"recommendations"`
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	defaults := domain.DefaultAnalyticsConfig()

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Daily analysis, trends and recommendations for a JSON export",
		Long: "Analyze reads an export with a profile, products, recipes and food log entries.\n" +
			"The analysed day defaults to the day of the most recent entry.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.file == "" {
				return fmt.Errorf("--file is required (use - for stdin)")
			}

			var in io.Reader = cmd.InOrStdin()
			if opts.file != "-" {
				f, err := os.Open(opts.file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			export, err := decodeExport(in)
			if err != nil {
				return err
			}

			cfg := domain.DefaultAnalyticsConfig()
			cfg.DeriveGoals = !opts.noDerive

			report, err := opts.run(cmd, export, cfg)
			if err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to the JSON export, - for stdin")
	cmd.Flags().StringVar(&opts.date, "date", "", "Day to analyse (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.days, "days", defaults.DefaultWindowDays, "Trend window in days, ending on the analysed day")
	cmd.Flags().BoolVar(&opts.noDerive, "no-derive", false, "Do not derive missing goals from body metrics")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output JSON")
	return cmd
}

func (o *analyzeOptions) run(cmd *cobra.Command, export *Export, cfg domain.AnalyticsConfig) (*analyzeReport, error) {
	ctx := cmd.Context()
	eng, err := export.load(ctx, cfg)
	if err != nil {
		return nil, err
	}

	day := eng.lastDay
	if o.date != "" {
		day, err = time.Parse(domain.DateLayout, o.date)
		if err != nil {
			return nil, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", o.date)
		}
	}
	if day.IsZero() {
		day = domain.DateOf(time.Now())
	}

	daily, err := eng.analytics.ComputeDailyAnalysis(ctx, localUser, day)
	if err != nil {
		return nil, err
	}

	input := domain.TrendInput{UserID: localUser, Days: o.days, EndDate: day}
	trend, err := eng.analytics.ComputeTrends(ctx, input)
	if err != nil {
		return nil, err
	}
	recs, err := eng.analytics.ComputeRecommendations(ctx, input)
	if err != nil {
		return nil, err
	}

	return &analyzeReport{Daily: daily, Trend: trend, Recommendations: recs}, nil
}

func printReport(out io.Writer, r *analyzeReport) {
	d := r.Daily
	fmt.Fprintf(out, "Day %s: %s (%d entries)\n", d.Date, d.OverallStatus, d.EntryCount)
	for _, n := range domain.AllNutrients {
		total := d.Get(n)
		goal, ok := d.Goals.Get(n).Value()
		if !ok {
			fmt.Fprintf(out, "  %-14s %9.2f  (no goal)\n", n.DisplayName(), total)
			continue
		}
		progress, _ := d.Progress(n)
		fmt.Fprintf(out, "  %-14s %9.2f / %.0f (%.1f%%)\n", n.DisplayName(), total, goal, progress)
	}

	t := r.Trend
	fmt.Fprintf(out, "\nTrend over %d days (%d logged): %s\n", t.WindowDays, t.TotalDaysAnalyzed, t.OverallTrend)
	if t.TotalDaysAnalyzed > 0 {
		fmt.Fprintf(out, "  %s to %s, goal adherence %.0f%%, %.2f meals per day\n",
			t.StartDate, t.EndDate, t.GoalAdherenceRate, t.AverageMealsPerDay)
		for _, n := range domain.AllNutrients {
			fmt.Fprintf(out, "  %-14s avg %9.2f  %-9s consistency %.0f\n",
				n.DisplayName(), t.AveragePerNutrient[n], t.TrendDirection[n], t.ConsistencyScore[n])
		}
	}
	for _, insight := range t.Insights {
		fmt.Fprintf(out, "  - %s\n", insight)
	}

	fmt.Fprintln(out, "\nRecommendations:")
	for i, rec := range r.Recommendations {
		fmt.Fprintf(out, "  %d. %s\n", i+1, rec)
	}
}
