package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/pbudget/internal/budget"
	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/model"
	"github.com/theirongolddev/pbudget/internal/pipeline"
	"github.com/theirongolddev/pbudget/internal/source"
	"github.com/theirongolddev/pbudget/internal/tui/components"
	"github.com/theirongolddev/pbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	settingsFieldCSVPath = iota
	settingsFieldTotal
	settingsFieldAutoAllocate
	settingsFieldMode
	settingsFieldMaxCut
	settingsFieldHistory
	settingsFieldDay
	settingsFieldTheme
	settingsFieldStatic // sentinel; category rows follow
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message
	saveErr error // non-nil if last save failed
}

// settingsFieldCount covers the static fields, a budget and a priority row
// per category, and the trailing "add category" row.
func (a App) settingsFieldCount() int {
	return settingsFieldStatic + 2*len(a.cfg.Budget.Categories) + 1
}

// categoryField maps a cursor position to a category index and whether the
// row edits its priority. ok is false outside the category rows.
func (a App) categoryField(cursor int) (idx int, priority, ok bool) {
	off := cursor - settingsFieldStatic
	if off < 0 || off >= 2*len(a.cfg.Budget.Categories) {
		return 0, false, false
	}
	return off / 2, off%2 == 1, true
}

func (a App) isAddCategoryField(cursor int) bool {
	return cursor == a.settingsFieldCount()-1
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := a.cfg
	a.settings.saved = false
	a.settings.saveErr = nil

	// Toggles apply immediately without a text input.
	switch a.settings.cursor {
	case settingsFieldAutoAllocate:
		cfg.Budget.AutoAllocate = !cfg.Budget.AutoAllocate
		a.settingsCommit(cfg)
		return a, nil
	case settingsFieldMode:
		if config.Mode(cfg) == model.ModeBuffer {
			cfg.Reallocation.Mode = string(model.ModeCategory)
		} else {
			cfg.Reallocation.Mode = string(model.ModeBuffer)
		}
		if a.settingsCommit(cfg) {
			a.mode = config.Mode(cfg)
			a.recompute()
		}
		return a, nil
	case settingsFieldTheme:
		cfg.Appearance.Theme = theme.Next(cfg.Appearance.Theme)
		if a.settingsCommit(cfg) {
			theme.SetActive(cfg.Appearance.Theme)
		}
		return a, nil
	}

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldCSVPath:
		ti.Placeholder = "~/statements.csv or a directory of CSVs"
		ti.SetValue(cfg.General.CSVPath)
	case settingsFieldTotal:
		ti.Placeholder = "1600"
		ti.SetValue(formatAmount(cfg.Budget.Total))
	case settingsFieldMaxCut:
		ti.Placeholder = "30 (percent of a donor's budget)"
		ti.SetValue(formatAmount(cfg.Reallocation.MaxCutPercent))
	case settingsFieldHistory:
		ti.Placeholder = "6 (0 = all complete months)"
		ti.SetValue(strconv.Itoa(cfg.General.HistoryMonths))
	case settingsFieldDay:
		ti.Placeholder = "day of month, empty for the latest date"
		if a.dayOverride > 0 {
			ti.SetValue(strconv.Itoa(a.dayOverride))
		}
	default:
		if idx, prio, ok := a.categoryField(a.settings.cursor); ok {
			c := cfg.Budget.Categories[idx]
			if prio {
				ti.Placeholder = "1 (lowest) to 5 (highest)"
				ti.SetValue(strconv.Itoa(c.Priority))
			} else {
				ti.Placeholder = "monthly amount"
				ti.SetValue(formatAmount(c.Budget))
			}
		} else if a.isAddCategoryField(a.settings.cursor) {
			ti.Placeholder = "Name, budget, priority (e.g. Gifts, 50, 2)"
		}
	}

	a.settings.editing = true
	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, cmd
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited value. It returns a reload command when
// the CSV path changed.
func (a *App) settingsSave() tea.Cmd {
	cfg := a.cfg
	cfg.Budget.Categories = append([]config.CategoryConfig(nil), cfg.Budget.Categories...)
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldCSVPath:
		cfg.General.CSVPath = val
		if a.settingsCommit(cfg) && a.opts.CSVPath == "" {
			a.refreshing = true
			return refreshDataCmd(a.csvPath(), a.opts.NoCache)
		}
		return nil

	case settingsFieldTotal:
		total, err := parseAmount(val)
		if err != nil {
			a.settings.saveErr = err
			return nil
		}
		cfg.Budget.Total = total
		if cfg.Budget.AutoAllocate {
			scaled, err := budget.Rescale(config.Budgets(cfg), decimal.NewFromFloat(total))
			if err != nil {
				a.settings.saveErr = err
				return nil
			}
			config.SetBudgets(&cfg, scaled)
		}

	case settingsFieldMaxCut:
		pct, err := parseAmount(val)
		if err != nil {
			a.settings.saveErr = err
			return nil
		}
		cfg.Reallocation.MaxCutPercent = pct

	case settingsFieldHistory:
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			a.settings.saveErr = fmt.Errorf("history months must be a whole number ≥ 0")
			return nil
		}
		cfg.General.HistoryMonths = n

	case settingsFieldDay:
		// Session-only what-if; not written to the config file.
		day := 0
		if val != "" {
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 || n > 31 {
				a.settings.saveErr = fmt.Errorf("day must be 1..31")
				return nil
			}
			day = n
		}
		a.dayOverride = day
		a.recompute()
		return nil

	default:
		if idx, prio, ok := a.categoryField(a.settings.cursor); ok {
			if prio {
				p, err := strconv.Atoi(val)
				if err != nil {
					a.settings.saveErr = fmt.Errorf("priority must be a whole number")
					return nil
				}
				cfg.Budget.Categories[idx].Priority = p
			} else {
				amt, err := parseAmount(val)
				if err != nil {
					a.settings.saveErr = err
					return nil
				}
				cfg.Budget.Categories[idx].Budget = amt
			}
		} else if a.isAddCategoryField(a.settings.cursor) {
			c, err := parseCategory(val)
			if err != nil {
				a.settings.saveErr = err
				return nil
			}
			cfg.Budget.Categories = append(cfg.Budget.Categories, c)
		}
	}

	a.settingsCommit(cfg)
	return nil
}

// settingsCommit validates, saves, and recomputes. It reports success.
func (a *App) settingsCommit(cfg config.Config) bool {
	a.settings.saveErr = a.saveConfig(cfg)
	a.settings.saved = a.settings.saveErr == nil
	if a.settings.saveErr != nil {
		return false
	}
	a.recompute()
	return true
}

// settingsDeleteCategory removes the category under the cursor.
func (a *App) settingsDeleteCategory() {
	idx, _, ok := a.categoryField(a.settings.cursor)
	if !ok {
		return
	}
	cfg := a.cfg
	cats := append([]config.CategoryConfig(nil), cfg.Budget.Categories[:idx]...)
	cfg.Budget.Categories = append(cats, cfg.Budget.Categories[idx+1:]...)
	if a.settingsCommit(cfg) && a.settings.cursor >= a.settingsFieldCount() {
		a.settings.cursor = a.settingsFieldCount() - 1
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	type field struct {
		label string
		value string
	}

	csvDisplay := cfg.General.CSVPath
	if csvDisplay == "" {
		csvDisplay = "(not set)"
	}
	if a.opts.CSVPath != "" {
		csvDisplay += "  (overridden by --csv)"
	}
	dayDisplay := "latest"
	if a.dayOverride > 0 {
		dayDisplay = strconv.Itoa(a.dayOverride)
	}
	historyDisplay := strconv.Itoa(cfg.General.HistoryMonths) + " months"
	if cfg.General.HistoryMonths == 0 {
		historyDisplay = "all"
	}

	fields := []field{
		{"CSV path", csvDisplay},
		{"Total budget", cli.FormatMoney(config.TotalBudget(cfg))},
		{"Auto-allocate", strconv.FormatBool(cfg.Budget.AutoAllocate)},
		{"Reallocation", string(config.Mode(cfg))},
		{"Max cut", formatAmount(cfg.Reallocation.MaxCutPercent) + "%"},
		{"History window", historyDisplay},
		{"As-of day", dayDisplay},
		{"Theme", cfg.Appearance.Theme},
	}
	for _, c := range cfg.Budget.Categories {
		fields = append(fields,
			field{c.Name + " budget", cli.FormatMoney(decimal.NewFromFloat(c.Budget))},
			field{c.Name + " priority", cli.FormatPriority(c.Priority)},
		)
	}
	fields = append(fields, field{"+ Add category", ""})

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if i == settingsFieldStatic {
			formBody.WriteString("\n")
			formBody.WriteString(sectionStyle.Render("Categories"))
			formBody.WriteString("\n")
		}

		// Show text input if currently editing this field
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-22s ", truncStr(f.label, 22))))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		label := fmt.Sprintf("%-22s ", truncStr(f.label, 21)+":")
		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			lbl := selectedLabelStyle.Render(label)
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(lbl)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(lbl) + lipgloss.Width(value)
			if padLen := innerW - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(label))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit/toggle  [d] delete category  [Esc] cancel"))

	// Data info card
	var infoBody strings.Builder
	info := []field{
		{"Data path:", orDash(a.csvPath())},
		{"Files:", cli.FormatNumber(int64(a.files))},
		{"Transactions:", cli.FormatNumber(int64(len(a.txns)))},
		{"Load time:", fmt.Sprintf("%.1fs", a.loadTime.Seconds())},
		{"Config file:", config.Path()},
		{"Cache:", pipeline.CachePath()},
	}
	for i, f := range info {
		if i > 0 {
			infoBody.WriteString("\n")
		}
		infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-15s", f.label)) + valueStyle.Render(f.value))
	}
	if a.loadErr != nil {
		infoBody.WriteString("\n")
		infoBody.WriteString(lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render("Load error: " + a.loadErr.Error()))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Data", infoBody.String(), cw))

	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatAmount renders a config float without trailing zeros.
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseAmount parses a non-negative amount in the same notations the CSV
// reader accepts.
func parseAmount(s string) (float64, error) {
	d, err := source.ParseAmount(s)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, errors.New("amount must not be negative")
	}
	return d.Round(2).InexactFloat64(), nil
}

// parseCategory parses "Name, budget, priority". Priority defaults to the lowest.
func parseCategory(s string) (config.CategoryConfig, error) {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return config.CategoryConfig{}, errors.New("expected: Name, budget, priority")
	}
	amt, err := parseAmount(parts[1])
	if err != nil {
		return config.CategoryConfig{}, err
	}
	c := config.CategoryConfig{Name: parts[0], Budget: amt, Priority: model.MinPriority}
	if len(parts) == 3 {
		p, err := strconv.Atoi(parts[2])
		if err != nil {
			return config.CategoryConfig{}, errors.New("priority must be a whole number")
		}
		c.Priority = p
	}
	return c, nil
}
