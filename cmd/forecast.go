package cmd

import (
	"fmt"

	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/forecast"

	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Projected month-end spend per category",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	r, err := runAnalysis("")
	if err != nil {
		return err
	}

	printTitle("FORECAST", r)

	rows := make([][]string, 0, len(r.Forecasts))
	for _, f := range r.Forecasts {
		basis := "flat rate"
		curve := ""
		if !f.FlatRate {
			basis = "curve " + cli.FormatPercent(f.Fraction)
			curve = cli.RenderSparkline(r.Curve[f.Category])
		}
		rows = append(rows, []string{
			f.Category,
			cli.FormatPriority(f.Priority),
			cli.FormatMoney(f.Budget),
			cli.FormatMoney(f.Spent),
			cli.FormatMoney(f.Projected),
			cli.FormatSigned(f.OverUnder()),
			basis,
			curve,
		})
	}

	budget, spent, projected := forecast.Totals(r.Forecasts)
	rows = append(rows, []string{"---"}, []string{
		"Total", "",
		cli.FormatMoney(budget),
		cli.FormatMoney(spent),
		cli.FormatMoney(projected),
		cli.FormatSigned(projected.Sub(budget)),
		"", "",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Pri", "Budget", "Spent", "Projected", "Over/Under", "Basis", "Curve"},
		Rows:    rows,
		Footer: fmt.Sprintf("At pace: %s of %s (%s)",
			cli.FormatMoney(r.Pace.Projected), cli.FormatMoney(r.Pace.TotalBudget), cli.FormatSigned(r.Pace.OverBy)),
	}))

	if over := r.Over(); len(over) > 0 {
		fmt.Println()
		for _, f := range over {
			fmt.Printf("  %s  %s\n", cli.RenderBudgetBar(f.Projected, f.Budget, 20), f.Category)
		}
	}

	printWarnings(r)
	return nil
}
