package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func juneSpend() []model.Transaction {
	d := func(day int) time.Time { return time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC) }
	return []model.Transaction{
		{Date: d(2), Category: "Groceries", Amount: dec("150")},
		{Date: d(5), Category: "Eating out", Amount: dec("50")},
		{Date: d(7), Category: "Leisure", Amount: dec("20")},
		{Date: d(10), Category: "Transport", Amount: dec("40")},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, a App, msgs ...tea.Msg) App {
	t.Helper()
	var m tea.Model = a
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	app, ok := m.(App)
	require.True(t, ok)
	return app
}

func loadedApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	a := NewApp(Options{CSVPath: "statements.csv"})
	a = send(t, a,
		tea.WindowSizeMsg{Width: 140, Height: 60},
		DataLoadedMsg{Transactions: juneSpend(), Files: 1},
	)
	require.NotNil(t, a.report)
	return a
}

func TestLoadedAppRendersTabs(t *testing.T) {
	a := loadedApp(t)
	assert.Contains(t, a.View(), "Spent this month")

	a = send(t, a, key("f"))
	assert.Equal(t, tabForecast, a.activeTab)
	assert.Contains(t, a.View(), "Month-end forecast")

	a = send(t, a, key("p"))
	assert.Contains(t, a.View(), "Suggested transfers")

	a = send(t, a, key("h"))
	assert.Contains(t, a.View(), "Daily spend")

	a = send(t, a, key("x"))
	assert.Contains(t, a.View(), "Total budget")
}

func TestPlanTabExplainsTransfers(t *testing.T) {
	a := loadedApp(t)

	out := a.renderTransfers(400)
	assert.Contains(t, out, "Groceries is projected $100.00 over its budget at the current pace.")
	assert.Contains(t, out, "Move $60.00 from Leisure (P2) to Groceries")
	assert.Contains(t, out, "Why: Leisure has priority P2 and still has $180.00 remaining")

	// Buffer mode: 780 projected against a 1600 total leaves nothing to cover.
	a = send(t, a, key("m"))
	out = a.renderTransfers(400)
	assert.Contains(t, out, "No transfers needed.")
	assert.NotContains(t, out, "Why: ")
}

func TestModeToggleAndDayShift(t *testing.T) {
	a := loadedApp(t)
	require.Equal(t, model.ModeCategory, a.mode)

	a = send(t, a, key("m"))
	assert.Equal(t, model.ModeBuffer, a.mode)
	assert.Equal(t, model.ModeBuffer, a.report.Plan.Mode)

	a = send(t, a, key("["))
	assert.Equal(t, 9, a.report.Period.Day)
	a = send(t, a, key("0"))
	assert.Equal(t, 10, a.report.Period.Day)
}

func TestApplyPlanWritesConfig(t *testing.T) {
	a := loadedApp(t)
	require.False(t, a.report.Plan.Empty())

	a = send(t, a, key("p"), key("a"))
	assert.True(t, a.planPreview)
	a = send(t, a, key("w"))
	assert.Contains(t, a.notice, "Applied")

	cfg, err := config.Load()
	require.NoError(t, err)
	groceries, ok := model.FindBudget(config.Budgets(cfg), "Groceries")
	require.True(t, ok)
	assert.True(t, groceries.Budget.Equal(dec("450")), groceries.Budget.String())
	assert.True(t, model.SumBudgets(config.Budgets(cfg)).Equal(dec("900")))
}

func TestLoadErrorShowsNoData(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	a := NewApp(Options{CSVPath: "missing.csv"})
	a = send(t, a,
		tea.WindowSizeMsg{Width: 120, Height: 40},
		DataLoadedMsg{Err: errNoCSVPath},
	)
	assert.Nil(t, a.report)
	assert.Contains(t, a.View(), "no CSV path configured")
}

func TestSettingsAddAndDeleteCategory(t *testing.T) {
	a := loadedApp(t)
	a = send(t, a, key("x"))

	a.settings.cursor = a.settingsFieldCount() - 1
	a.settings.input = newSettingsInput()
	a.settings.input.SetValue("Gifts, 50, 2")
	a.settingsSave()
	require.NoError(t, a.settings.saveErr)
	require.Len(t, a.cfg.Budget.Categories, 5)
	assert.Equal(t, "Gifts", a.cfg.Budget.Categories[4].Name)

	a.settings.cursor = settingsFieldStatic + 2*4 // Gifts budget row
	a.settingsDeleteCategory()
	assert.Len(t, a.cfg.Budget.Categories, 4)
}

func TestSettingsTotalRescalesWhenAutoAllocating(t *testing.T) {
	a := loadedApp(t)
	a.cfg.Budget.AutoAllocate = true

	a.settings.cursor = settingsFieldTotal
	a.settings.input = newSettingsInput()
	a.settings.input.SetValue("1800")
	a.settingsSave()
	require.NoError(t, a.settings.saveErr)
	assert.True(t, model.SumBudgets(config.Budgets(a.cfg)).Equal(dec("1800")))
}

func TestSettingsRejectsInvalidPriority(t *testing.T) {
	a := loadedApp(t)
	a.settings.cursor = settingsFieldStatic + 1 // first category priority
	a.settings.input = newSettingsInput()
	a.settings.input.SetValue("9")
	a.settingsSave()
	assert.Error(t, a.settings.saveErr)
	assert.Equal(t, 5, a.cfg.Budget.Categories[0].Priority)
}

func TestParseCategory(t *testing.T) {
	c, err := parseCategory("Gifts, $50, 2")
	require.NoError(t, err)
	assert.Equal(t, config.CategoryConfig{Name: "Gifts", Budget: 50, Priority: 2}, c)

	c, err = parseCategory("Pets, 20")
	require.NoError(t, err)
	assert.Equal(t, model.MinPriority, c.Priority)

	_, err = parseCategory(", 20")
	assert.Error(t, err)
}

func TestParseAmountSettings(t *testing.T) {
	for in, want := range map[string]float64{"1,234.56": 1234.56, "12,50": 12.5, "1.234,56": 1234.56, "$40": 40} {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 0.001, in)
	}
	_, err := parseAmount("-5")
	assert.Error(t, err)
	_, err = parseAmount("12,5000")
	assert.Error(t, err)
}

func TestSaveSetup(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	csv := filepath.Join(dir, "spend.csv")
	require.NoError(t, os.WriteFile(csv, []byte("date,category,amount\n2024-06-01,Groceries,10\n"), 0o600))

	vals := SetupValues{CSVPath: csv, Total: "900", AutoAllocate: true, Theme: "tokyo-night"}
	require.NoError(t, validateCSVPath(vals.CSVPath))

	cfg, err := SaveSetup(config.DefaultConfig(), vals)
	require.NoError(t, err)
	assert.Equal(t, csv, cfg.General.CSVPath)
	assert.True(t, config.Exists())
	assert.True(t, model.SumBudgets(config.Budgets(cfg)).Equal(dec("900")))

	_, err = SaveSetup(config.DefaultConfig(), SetupValues{CSVPath: csv, Total: "-5"})
	assert.Error(t, err)
}

func TestChartDateLabels(t *testing.T) {
	days := []model.DailySpend{
		{Date: time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, []string{"May", "31", "Jun", "2"}, chartDateLabels(days))
}
