package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/theirongolddev/pbudget/internal/analysis"
	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func juneReport(t *testing.T, mode model.ReallocationMode) *analysis.Report {
	t.Helper()
	d := func(day int) time.Time { return time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC) }
	amt := decimal.RequireFromString
	r, err := analysis.Run(analysis.Input{
		Transactions: []model.Transaction{
			{Date: d(2), Category: "Groceries", Amount: amt("150")},
			{Date: d(5), Category: "Eating out", Amount: amt("50")},
			{Date: d(7), Category: "Leisure", Amount: amt("20")},
			{Date: d(10), Category: "Transport", Amount: amt("40")},
		},
		Config: config.DefaultConfig(),
		Mode:   mode,
	})
	require.NoError(t, err)
	return r
}

func TestWriteExplanation(t *testing.T) {
	var buf bytes.Buffer
	writeExplanation(&buf, juneReport(t, model.ModeCategory))
	out := buf.String()

	assert.Contains(t, out, "Groceries is projected $100.00 over its budget at the current pace.")
	assert.Contains(t, out, "1. Move $60.00 from Leisure (P2) to Groceries")
	assert.Contains(t, out, "Why: Leisure has priority P2 and still has $180.00 remaining (budget $200.00, spent $20.00, projected $60.00).")
}

func TestWriteExplanationNothingToMove(t *testing.T) {
	var buf bytes.Buffer
	writeExplanation(&buf, juneReport(t, model.ModeBuffer))
	assert.Contains(t, buf.String(), "No transfers needed.")
	assert.NotContains(t, buf.String(), "Why:")
}
