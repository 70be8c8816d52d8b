package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/pbudget/internal/analysis"
	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagApply bool
	flagMode  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Suggest budget transfers for categories heading over budget",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&flagApply, "apply", false, "Write the updated budgets to the config file")
	planCmd.Flags().StringVar(&flagMode, "mode", "", "Reallocation mode: category or buffer (default from config)")
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	mode := model.ReallocationMode(flagMode)
	switch mode {
	case "", model.ModeCategory, model.ModeBuffer:
	default:
		return fmt.Errorf("--mode must be %q or %q", model.ModeCategory, model.ModeBuffer)
	}

	r, err := runAnalysis(mode)
	if err != nil {
		return err
	}
	plan := r.Plan

	printTitle(fmt.Sprintf("PLAN (%s)", plan.Mode), r)
	writeExplanation(os.Stdout, r)

	if plan.Empty() {
		if plan.Uncovered.IsPositive() {
			fmt.Println(cli.Warn(cli.FormatMoney(plan.Uncovered) + " projected overspend has no donor"))
		}
		printWarnings(r)
		return nil
	}

	rows := make([][]string, 0, len(plan.Transfers))
	for _, t := range plan.Transfers {
		rows = append(rows, []string{t.From, cli.FormatPriority(t.FromPriority), t.To, cli.FormatMoney(t.Amount)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Transfers",
		Headers: []string{"From", "Pri", "To", "Amount"},
		Rows:    rows,
		Footer: fmt.Sprintf("Moved %s · covered %s · uncovered %s",
			cli.FormatMoney(plan.TotalMoved()), cli.FormatMoney(plan.Covered), cli.FormatMoney(plan.Uncovered)),
	}))
	fmt.Println()

	budgetRows := make([][]string, 0, len(r.Applied))
	for _, after := range r.Applied {
		before, _ := model.FindBudget(r.Budgets, after.Category)
		change := ""
		if d := after.Budget.Sub(before.Budget); !d.IsZero() {
			change = cli.FormatSigned(d)
		}
		budgetRows = append(budgetRows, []string{
			after.Category,
			cli.FormatPriority(after.Priority),
			cli.FormatMoney(before.Budget),
			cli.FormatMoney(after.Budget),
			change,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Updated budgets",
		Headers: []string{"Category", "Pri", "Before", "After", "Change"},
		Rows:    budgetRows,
		Footer:  "Total " + cli.FormatMoney(model.SumBudgets(r.Applied)),
	}))

	if plan.Uncovered.IsPositive() {
		fmt.Println(cli.Warn(cli.FormatMoney(plan.Uncovered) + " of projected overspend is still uncovered"))
	}
	printWarnings(r)

	if !flagApply {
		fmt.Println(cli.Muted("\n  Run with --apply to save these budgets."))
		return nil
	}

	c, err := requireConfig()
	if err != nil {
		return err
	}
	config.SetBudgets(&c, r.Applied)
	if err := config.Save(c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	log.WithField("moved", plan.TotalMoved().String()).Info("plan applied")
	fmt.Printf("\n  Saved updated budgets to %s\n", config.Path())
	return nil
}

// writeExplanation prints what drives the risk and why each donor can give.
func writeExplanation(w io.Writer, r *analysis.Report) {
	fmt.Fprintf(w, "  %s\n\n", cli.PlanDriver(r.Forecasts, r.Pace))
	if r.Plan.Empty() {
		fmt.Fprintln(w, "  No transfers needed.")
		return
	}
	for i, t := range r.Plan.Transfers {
		fmt.Fprintf(w, "  %d. %s\n", i+1, cli.DescribeTransfer(t))
		fmt.Fprintf(w, "     %s\n", cli.Muted(cli.TransferReason(t, r.Forecasts)))
	}
	fmt.Fprintln(w)
}
