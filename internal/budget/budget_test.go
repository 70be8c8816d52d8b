package budget

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

func TestCheck(t *testing.T) {
	under := Check(dec("1600"), defaults())
	assert.Equal(t, model.AllocationUnder, under.Status)
	assert.True(t, under.Allocated.Equal(dec("900")))
	assert.True(t, under.Gap.Equal(dec("700")))

	over := Check(dec("800"), defaults())
	assert.Equal(t, model.AllocationOver, over.Status)
	assert.True(t, over.Gap.Equal(dec("-100")))

	exact := Check(dec("900"), defaults())
	assert.Equal(t, model.AllocationExact, exact.Status)
	assert.True(t, exact.Gap.IsZero())
}

func TestRescaleProportional(t *testing.T) {
	got, err := Rescale(defaults(), dec("1800"))
	require.NoError(t, err)
	assert.True(t, got[0].Budget.Equal(dec("700")))
	assert.True(t, got[1].Budget.Equal(dec("500")))
	assert.True(t, got[2].Budget.Equal(dec("400")))
	assert.True(t, got[3].Budget.Equal(dec("200")))
	assert.Equal(t, 5, got[0].Priority)

	// Input untouched.
	assert.True(t, defaults()[0].Budget.Equal(dec("350")))
}

func TestRescaleLargestRemainder(t *testing.T) {
	in := []model.CategoryBudget{
		{Category: "A", Priority: 1, Budget: dec("1")},
		{Category: "B", Priority: 1, Budget: dec("1")},
		{Category: "C", Priority: 1, Budget: dec("1")},
	}
	got, err := Rescale(in, dec("100"))
	require.NoError(t, err)
	assert.True(t, model.SumBudgets(got).Equal(dec("100")))
	assert.True(t, got[0].Budget.Equal(dec("33.34")))
	assert.True(t, got[1].Budget.Equal(dec("33.33")))
}

func TestRescaleAllZeroSplitsEvenly(t *testing.T) {
	in := []model.CategoryBudget{{Category: "A"}, {Category: "B"}}
	got, err := Rescale(in, dec("10.01"))
	require.NoError(t, err)
	assert.True(t, model.SumBudgets(got).Equal(dec("10.01")))
	assert.True(t, got[0].Budget.Equal(dec("5.01")))
	assert.True(t, got[1].Budget.Equal(dec("5")))
}

func TestRescaleSumsExactly(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		n := 1 + rng.IntN(8)
		in := make([]model.CategoryBudget, n)
		for j := range in {
			in[j] = model.CategoryBudget{
				Category: string(rune('A' + j)),
				Priority: 1 + rng.IntN(5),
				Budget:   decimal.New(rng.Int64N(100000), -2),
			}
		}
		total := decimal.New(rng.Int64N(1000000), -2)

		got, err := Rescale(in, total)
		require.NoError(t, err)
		require.True(t, model.SumBudgets(got).Equal(total), "case %d: %s != %s", i, model.SumBudgets(got), total)
		for _, b := range got {
			require.False(t, b.Budget.IsNegative())
		}
	}
}

func TestRescaleRejectsNegative(t *testing.T) {
	_, err := Rescale(defaults(), dec("-1"))
	require.ErrorIs(t, err, ErrNegativeTotal)
}

func TestPace(t *testing.T) {
	p, err := Pace(dec("600"), 10, 30, dec("1600"))
	require.NoError(t, err)
	assert.True(t, p.Projected.Equal(dec("1800")))
	assert.True(t, p.OverBy.Equal(dec("200")))
	assert.True(t, p.DailyRate.Equal(dec("60")))
	assert.Equal(t, 20, p.DaysLeft)
	assert.InDelta(t, 0.375, p.UsedFraction, 1e-9)

	_, err = Pace(dec("1"), 0, 30, dec("1"))
	assert.Error(t, err)
	_, err = Pace(dec("1"), 31, 30, dec("1"))
	assert.Error(t, err)
}
