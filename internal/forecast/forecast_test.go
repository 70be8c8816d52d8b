package forecast

import (
	"math/rand/v2"
	"testing"

	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func defaults() []model.CategoryBudget {
	return []model.CategoryBudget{
		{Category: "Groceries", Priority: 5, Budget: dec("350")},
		{Category: "Eating out", Priority: 3, Budget: dec("250")},
		{Category: "Leisure", Priority: 2, Budget: dec("200")},
		{Category: "Transport", Priority: 4, Budget: dec("100")},
	}
}

func scenario(t *testing.T) []model.Forecast {
	t.Helper()
	mtd := map[string]decimal.Decimal{
		"Groceries":  dec("150"),
		"Eating out": dec("50"),
		"Leisure":    dec("20"),
		"Transport":  dec("40"),
	}
	fs, err := Forecasts(defaults(), mtd, 10, 30, model.Curve{})
	require.NoError(t, err)
	return fs
}

func TestProjectUsesCurve(t *testing.T) {
	curve := model.Curve{"Food": make([]float64, 30)}
	curve["Food"][9] = 0.25

	p, err := Project(dec("100"), 10, 30, curve, "Food")
	require.NoError(t, err)
	assert.False(t, p.FlatRate)
	assert.InDelta(t, 0.25, p.Fraction, 1e-9)
	assert.True(t, p.Projected.Equal(dec("400")), p.Projected.String())
}

func TestProjectZeroHistoryFallsBackToFlatRate(t *testing.T) {
	p, err := Project(dec("100"), 10, 30, nil, "Food")
	require.NoError(t, err)
	assert.True(t, p.FlatRate)
	assert.True(t, p.Projected.Equal(dec("300")))

	// A zero curve entry is treated as missing history, never divided by.
	curve := model.Curve{"Food": make([]float64, 30)}
	p, err = Project(dec("100"), 10, 30, curve, "Food")
	require.NoError(t, err)
	assert.True(t, p.FlatRate)

	p, err = Project(decimal.Zero, 1, 31, nil, "Food")
	require.NoError(t, err)
	assert.True(t, p.Projected.IsZero())
}

func TestProjectNonPositiveSpendUnchanged(t *testing.T) {
	p, err := Project(dec("-12.5"), 5, 30, nil, "Food")
	require.NoError(t, err)
	assert.True(t, p.Projected.Equal(dec("-12.5")))
}

func TestProjectRejectsDayOutOfRange(t *testing.T) {
	for _, day := range []int{0, -1, 31} {
		_, err := Project(dec("1"), day, 30, nil, "Food")
		require.ErrorIs(t, err, ErrDayOutOfRange, "day %d", day)
	}
}

func TestForecastsAndUnbudgeted(t *testing.T) {
	fs := scenario(t)
	require.Len(t, fs, 4)
	assert.True(t, fs[0].Projected.Equal(dec("450")))
	assert.True(t, fs[0].IsOver())
	assert.True(t, fs[2].Projected.Equal(dec("60")))

	mtd := map[string]decimal.Decimal{"Groceries": dec("1"), "Pets": dec("4"), "Gifts": decimal.Zero}
	assert.Equal(t, []string{"Pets"}, Unbudgeted(defaults(), mtd))
}

func TestReallocateCategoryMode(t *testing.T) {
	plan, err := Reallocate(scenario(t), Options{Mode: model.ModeCategory, MaxCut: DefaultMaxCut})
	require.NoError(t, err)

	want := []model.Transfer{
		{From: "Leisure", FromPriority: 2, To: "Groceries", Amount: dec("60")},
		{From: "Eating out", FromPriority: 3, To: "Groceries", Amount: dec("40")},
		{From: "Eating out", FromPriority: 3, To: "Transport", Amount: dec("20")},
	}
	require.Len(t, plan.Transfers, len(want))
	for i, w := range want {
		got := plan.Transfers[i]
		assert.Equal(t, w.From, got.From, "transfer %d", i)
		assert.Equal(t, w.To, got.To, "transfer %d", i)
		assert.True(t, w.Amount.Equal(got.Amount), "transfer %d: %s", i, got.Amount)
	}
	assert.True(t, plan.Covered.Equal(dec("120")))
	assert.True(t, plan.Uncovered.IsZero())
	assert.True(t, plan.Needed["Groceries"].Equal(dec("100")))

	updated, err := Apply(defaults(), plan)
	require.NoError(t, err)
	assert.True(t, updated[0].Budget.Equal(dec("450")))
	assert.True(t, updated[1].Budget.Equal(dec("190")))
	assert.True(t, updated[2].Budget.Equal(dec("140")))
	assert.True(t, updated[3].Budget.Equal(dec("120")))
}

func TestReallocateReportsUncovered(t *testing.T) {
	fs := []model.Forecast{
		{Category: "Rent", Priority: 5, Budget: dec("100"), Spent: dec("100"), Projected: dec("300")},
		{Category: "Fun", Priority: 1, Budget: dec("100"), Spent: dec("0"), Projected: dec("0")},
	}
	plan, err := Reallocate(fs, Options{MaxCut: DefaultMaxCut})
	require.NoError(t, err)
	require.Len(t, plan.Transfers, 1)
	assert.True(t, plan.Transfers[0].Amount.Equal(dec("30")), "capped at 30 percent of budget")
	assert.True(t, plan.Uncovered.Equal(dec("170")))
}

func TestReallocateZeroMaxCutMovesNothing(t *testing.T) {
	fs := []model.Forecast{
		{Category: "Rent", Priority: 5, Budget: dec("100"), Spent: dec("100"), Projected: dec("300")},
		{Category: "Fun", Priority: 1, Budget: dec("100"), Spent: dec("0"), Projected: dec("0")},
	}
	for _, mode := range []model.ReallocationMode{model.ModeCategory, model.ModeBuffer} {
		plan, err := Reallocate(fs, Options{
			Mode: mode, MaxCut: decimal.Zero, TotalBudget: dec("200"), Day: 10, DaysInMonth: 30,
		})
		require.NoError(t, err)
		assert.True(t, plan.Empty(), "%s mode moved %s", mode, plan.TotalMoved())
		assert.True(t, plan.Uncovered.IsPositive(), "%s mode", mode)
	}
}

func TestReallocateEqualPriorityNeverDonates(t *testing.T) {
	fs := []model.Forecast{
		{Category: "A", Priority: 3, Budget: dec("100"), Projected: dec("150")},
		{Category: "B", Priority: 3, Budget: dec("100"), Projected: dec("10")},
	}
	plan, err := Reallocate(fs, Options{MaxCut: DefaultMaxCut})
	require.NoError(t, err)
	assert.True(t, plan.Empty())
	assert.True(t, plan.Uncovered.Equal(dec("50")))
}

func TestReallocateLowestPriorityRecipientGetsNothing(t *testing.T) {
	fs := []model.Forecast{
		{Category: "Low", Priority: 1, Budget: dec("100"), Projected: dec("150")},
		{Category: "High", Priority: 5, Budget: dec("100"), Projected: dec("10")},
	}
	plan, err := Reallocate(fs, Options{MaxCut: DefaultMaxCut})
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestReallocateBufferMode(t *testing.T) {
	fs := scenario(t)
	plan, err := Reallocate(fs, Options{
		Mode:        model.ModeBuffer,
		MaxCut:      DefaultMaxCut,
		TotalBudget: dec("600"),
		Day:         10,
		DaysInMonth: 30,
	})
	require.NoError(t, err)

	// Spent 260 in 10 days -> 780 projected, 180 over a 600 budget.
	assert.True(t, plan.Needed[model.BufferCategory].Equal(dec("180")))
	require.NotEmpty(t, plan.Transfers)
	assert.Equal(t, "Leisure", plan.Transfers[0].From)
	assert.True(t, plan.Transfers[0].Amount.Equal(dec("60")))
	assert.Equal(t, "Eating out", plan.Transfers[1].From)
	assert.True(t, plan.Transfers[1].Amount.Equal(dec("75")))
	assert.Equal(t, "Transport", plan.Transfers[2].From)
	assert.True(t, plan.Transfers[2].Amount.Equal(dec("30")))
	assert.Equal(t, "Groceries", plan.Transfers[3].From)
	assert.True(t, plan.Transfers[3].Amount.Equal(dec("15")))
	assert.True(t, plan.Uncovered.IsZero())

	updated, err := Apply(defaults(), plan)
	require.NoError(t, err)
	require.Len(t, updated, 5)
	assert.Equal(t, model.BufferCategory, updated[4].Category)
	assert.True(t, updated[4].Budget.Equal(dec("180")))
}

func TestReallocateBufferNothingNeeded(t *testing.T) {
	plan, err := Reallocate(scenario(t), Options{
		Mode: model.ModeBuffer, MaxCut: DefaultMaxCut, TotalBudget: dec("1600"), Day: 10, DaysInMonth: 30,
	})
	require.NoError(t, err)
	assert.True(t, plan.Empty())
	assert.Empty(t, plan.Needed)
}

func TestReallocateUnknownMode(t *testing.T) {
	_, err := Reallocate(nil, Options{Mode: "nope"})
	assert.Error(t, err)
}

func TestApplyRejectsOverdraw(t *testing.T) {
	plan := model.Plan{Transfers: []model.Transfer{{From: "Leisure", To: "Groceries", Amount: dec("500")}}}
	_, err := Apply(defaults(), plan)
	require.ErrorIs(t, err, ErrNegativeBudget)

	plan = model.Plan{Transfers: []model.Transfer{{From: "Ghost", To: "Groceries", Amount: dec("1")}}}
	_, err = Apply(defaults(), plan)
	assert.Error(t, err)
}

// Randomized scenarios: every plan conserves the total, leaves no budget
// negative, keeps donors at or above their projection, and respects the cap.
func TestReallocateInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	cut := dec("0.3")

	for i := 0; i < 500; i++ {
		n := 2 + rng.IntN(6)
		budgets := make([]model.CategoryBudget, n)
		mtd := make(map[string]decimal.Decimal, n)
		for j := range budgets {
			name := string(rune('A' + j))
			budgets[j] = model.CategoryBudget{
				Category: name,
				Priority: 1 + rng.IntN(5),
				Budget:   decimal.New(rng.Int64N(50000), -2),
			}
			mtd[name] = decimal.New(rng.Int64N(40000), -2)
		}
		dim := 28 + rng.IntN(4)
		day := 1 + rng.IntN(dim)

		fs, err := Forecasts(budgets, mtd, day, dim, nil)
		require.NoError(t, err)

		for _, mode := range []model.ReallocationMode{model.ModeCategory, model.ModeBuffer} {
			plan, err := Reallocate(fs, Options{
				Mode: mode, MaxCut: cut, TotalBudget: model.SumBudgets(budgets), Day: day, DaysInMonth: dim,
			})
			require.NoError(t, err)

			updated, err := Apply(budgets, plan)
			require.NoError(t, err, "case %d %s", i, mode)
			require.True(t, model.SumBudgets(updated).Equal(model.SumBudgets(budgets)), "case %d %s: sum changed", i, mode)

			given := make(map[string]decimal.Decimal)
			for _, tr := range plan.Transfers {
				require.True(t, tr.Amount.IsPositive())
				given[tr.From] = given[tr.From].Add(tr.Amount)
			}
			for _, b := range updated {
				require.False(t, b.Budget.IsNegative(), "case %d %s: %s negative", i, mode, b.Category)
			}
			for _, f := range fs {
				g := given[f.Category]
				require.True(t, g.LessThanOrEqual(f.Budget.Mul(cut)), "case %d %s: %s over cap", i, mode, f.Category)
				if mode == model.ModeCategory && g.IsPositive() {
					require.True(t, f.Budget.Sub(g).GreaterThanOrEqual(f.Projected), "case %d: donor below projection", i)
				}
				if mode == model.ModeBuffer && g.IsPositive() {
					require.True(t, f.Budget.Sub(g).GreaterThanOrEqual(f.Spent), "case %d: donor below spend", i)
				}
			}
		}
	}
}
