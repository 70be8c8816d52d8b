package source

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
)

// SimulateOptions controls synthetic history generation.
type SimulateOptions struct {
	Budgets []model.CategoryBudget
	Months  int       // complete months generated before Through's month
	Through time.Time // last day generated; the current month runs up to it
	Seed    uint64
	Rate    float64 // mean transactions per category per day
	Sigma   float64 // lognormal spread of transaction amounts
	Cards   []string
}

// DefaultSimulateOptions returns the generator defaults for the given budgets.
func DefaultSimulateOptions(budgets []model.CategoryBudget, through time.Time) SimulateOptions {
	return SimulateOptions{
		Budgets: budgets,
		Months:  3,
		Through: through,
		Seed:    42,
		Rate:    0.9,
		Sigma:   0.6,
	}
}

// Simulate generates reproducible synthetic transactions. Each category gets
// a Poisson number of transactions per day with lognormal amounts whose
// median is the category's budget spread evenly over the month.
func Simulate(opts SimulateOptions) []model.Transaction {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // reproducible test data

	through := time.Date(opts.Through.Year(), opts.Through.Month(), opts.Through.Day(), 0, 0, 0, 0, time.UTC)
	first := time.Date(through.Year(), through.Month()-time.Month(opts.Months), 1, 0, 0, 0, 0, time.UTC)

	budgets := append([]model.CategoryBudget(nil), opts.Budgets...)
	sort.SliceStable(budgets, func(i, j int) bool { return budgets[i].Category < budgets[j].Category })

	var txns []model.Transaction
	for day := first; !day.After(through); day = day.AddDate(0, 0, 1) {
		dim := model.DaysInMonth(day)
		for _, b := range budgets {
			dailyMean := math.Max(b.Budget.InexactFloat64()/float64(dim), 1e-6)
			n := poisson(rng, opts.Rate)
			for range n {
				amt := math.Exp(math.Log(dailyMean) + opts.Sigma*rng.NormFloat64())
				t := model.Transaction{
					Date:     day,
					Category: b.Category,
					Amount:   decimal.NewFromFloat(amt).Round(2),
				}
				if len(opts.Cards) > 0 {
					t.CardID = opts.Cards[rng.IntN(len(opts.Cards))]
				}
				txns = append(txns, t)
			}
		}
	}
	return txns
}

// poisson samples with Knuth's multiplication method; fine for small rates.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}
