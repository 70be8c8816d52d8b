package cmd

import (
	"fmt"

	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Month-to-date pace, allocation, and recent months",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	r, err := runAnalysis("")
	if err != nil {
		return err
	}
	pace := r.Pace

	printTitle("SUMMARY", r)

	rows := [][]string{
		{"Total budget", cli.FormatMoney(r.Total)},
		{"Allocated", cli.FormatMoney(r.Check.Allocated) + "  (" + cli.FormatStatus(r.Check) + ")"},
		{"---"},
		{"Spent so far", cli.FormatMoney(pace.TotalSpent) + "  (" + cli.FormatPercent(pace.UsedFraction) + ")"},
		{"Daily rate", cli.FormatMoney(pace.DailyRate) + "/day"},
		{"Days left", fmt.Sprintf("%d", pace.DaysLeft)},
		{"Projected at pace", cli.FormatMoney(pace.Projected)},
		{"Over/Under", cli.FormatSigned(pace.OverBy)},
		{"---"},
		{"Transactions", cli.FormatNumber(int64(len(r.Transactions)))},
		{"History months", fmt.Sprintf("%d", len(pipeline.AggregateMonths(r.Period.History)))},
		{"Suggested transfers", fmt.Sprintf("%d", len(r.Plan.Transfers))},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	// Category spend this month as horizontal bars
	cats := pipeline.AggregateCategories(r.Period.Current)
	if len(cats) > 0 {
		peak := cats[0].Amount.InexactFloat64()
		fmt.Println(cli.Muted("  This month by category"))
		for _, c := range cats {
			fmt.Printf("%s %s\n",
				cli.RenderHorizontalBar(c.Category, c.Amount.InexactFloat64(), peak, 16, 30),
				cli.FormatMoney(c.Amount))
		}
		fmt.Println()
	}

	// Recent months
	months := pipeline.AggregateMonths(r.Transactions)
	if n := len(months); n > 6 {
		months = months[n-6:]
	}
	monthRows := make([][]string, 0, len(months))
	totals := make([]float64, 0, len(months))
	for _, m := range months {
		monthRows = append(monthRows, []string{cli.FormatMonth(m.Month), cli.FormatMoney(m.Total)})
		totals = append(totals, m.Total.InexactFloat64())
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Recent months",
		Headers: []string{"Month", "Spend"},
		Rows:    monthRows,
		Footer:  cli.RenderSparkline(totals),
	}))

	printWarnings(r)
	return nil
}
