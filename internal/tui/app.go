// Package tui provides the interactive Bubble Tea dashboard for pbudget.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/pbudget/internal/analysis"
	"github.com/theirongolddev/pbudget/internal/cli"
	"github.com/theirongolddev/pbudget/internal/config"
	"github.com/theirongolddev/pbudget/internal/logging"
	"github.com/theirongolddev/pbudget/internal/model"
	"github.com/theirongolddev/pbudget/internal/pipeline"
	"github.com/theirongolddev/pbudget/internal/store"
	"github.com/theirongolddev/pbudget/internal/tui/components"
	"github.com/theirongolddev/pbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var log = logging.Get()

// errNoCSVPath is reported when neither a flag, env var, nor config names a CSV.
var errNoCSVPath = errors.New("no CSV path configured")

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Transactions []model.Transaction
	Files        int
	CacheHits    int
	LoadTime     time.Duration
	Err          error
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background data refresh completes.
type RefreshDataMsg DataLoadedMsg

// Options configures the dashboard from command-line flags.
type Options struct {
	CSVPath string    // overrides the configured path when set
	AsOf    time.Time // zero means the latest transaction date
	Card    string
	NoCache bool
	Mode    model.ReallocationMode // empty means the configured mode
}

// App is the root Bubble Tea model.
type App struct {
	opts Options
	cfg  config.Config

	// Data
	txns      []model.Transaction
	loaded    bool
	loadErr   error
	loadTime  time.Duration
	files     int
	cacheHits int

	// Derived for the current config, day, and mode
	report    *analysis.Report
	reportErr error
	daily     []model.DailySpend
	monthly   []model.MonthlySpend

	// What-if controls
	mode        model.ReallocationMode
	dayOverride int // 0 follows the as-of date

	// UI state
	width       int
	height      int
	activeTab   int
	showHelp    bool
	notice      string
	refreshing  bool
	curveCursor int  // selected category on the Forecast tab
	planPreview bool // show budgets with the plan applied

	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	// Loading, channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg // progress + completion messages from loader goroutine
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	dailyChartDays = 60
)

const (
	tabOverview = iota
	tabForecast
	tabPlan
	tabHistory
	tabSettings
)

// loadConfigOrDefault loads config, returning defaults on error.
// This ensures the TUI can always start even if config is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Warn("config unreadable, using defaults")
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	cfg := loadConfigOrDefault()
	theme.SetActive(cfg.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	mode := opts.Mode
	if mode == "" {
		mode = config.Mode(cfg)
	}

	return App{
		opts:      opts,
		cfg:       cfg,
		mode:      mode,
		needSetup: !config.Exists() && opts.CSVPath == "",
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.csvPath(), a.opts.NoCache, a.loadSub),
		a.spinner.Tick,
	)
}

// csvPath resolves the data path: flag, then env var, then config.
func (a App) csvPath() string {
	if a.opts.CSVPath != "" {
		return a.opts.CSVPath
	}
	return config.GetCSVPath(a.cfg)
}

func (a *App) recompute() {
	a.report, a.reportErr = nil, nil
	a.daily, a.monthly = nil, nil
	if len(a.txns) == 0 {
		return
	}

	r, err := analysis.Run(analysis.Input{
		Transactions: a.txns,
		Config:       a.cfg,
		AsOf:         a.opts.AsOf,
		Card:         a.opts.Card,
		Day:          a.dayOverride,
		Mode:         a.mode,
	})
	if err != nil {
		a.reportErr = err
		return
	}
	a.report = r

	asOf := r.Period.AsOf
	a.daily = pipeline.AggregateDays(r.Transactions, asOf.AddDate(0, 0, -(dailyChartDays-1)), asOf)
	a.monthly = pipeline.AggregateMonths(pipeline.FilterByTime(r.Transactions, time.Time{}, asOf))

	if a.curveCursor >= len(r.Forecasts) {
		a.curveCursor = len(r.Forecasts) - 1
	}
	if a.curveCursor < 0 {
		a.curveCursor = 0
	}
}

// saveConfig persists cfg and makes it the live config.
func (a *App) saveConfig(cfg config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Forward to setup form if active
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabForecast && a.curveCursor > 0 {
				a.curveCursor--
			}
			return a, nil

		case tea.MouseButtonWheelDown:
			if a.activeTab == tabForecast && a.report != nil && a.curveCursor < len(a.report.Forecasts)-1 {
				a.curveCursor++
			}
			return a, nil

		case tea.MouseButtonLeft:
			// Check if click is in tab bar area (first 2 lines)
			if msg.Y <= 1 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Settings tab has its own keybindings (text input)
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		// Help toggle
		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		a.notice = ""

		switch a.activeTab {
		case tabForecast:
			switch key {
			case "j", "down":
				if a.report != nil && a.curveCursor < len(a.report.Forecasts)-1 {
					a.curveCursor++
				}
				return a, nil
			case "k", "up":
				if a.curveCursor > 0 {
					a.curveCursor--
				}
				return a, nil
			}

		case tabPlan:
			switch key {
			case "a", " ":
				a.planPreview = !a.planPreview
				return a, nil
			case "w":
				a.applyPlan()
				return a, nil
			}

		case tabSettings:
			switch key {
			case "j", "down":
				if a.settings.cursor < a.settingsFieldCount()-1 {
					a.settings.cursor++
				}
				return a, nil
			case "k", "up":
				if a.settings.cursor > 0 {
					a.settings.cursor--
				}
				return a, nil
			case "enter":
				return a.settingsStartEdit()
			case "d":
				a.settingsDeleteCategory()
				return a, nil
			}
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			if !a.refreshing {
				a.refreshing = true
				return a, refreshDataCmd(a.csvPath(), a.opts.NoCache)
			}
			return a, nil
		case "m":
			if a.mode == model.ModeBuffer {
				a.mode = model.ModeCategory
			} else {
				a.mode = model.ModeBuffer
			}
			a.recompute()
			return a, nil
		case "[":
			a.shiftDay(-1)
			return a, nil
		case "]":
			a.shiftDay(1)
			return a, nil
		case "0":
			a.dayOverride = 0
			a.recompute()
			return a, nil
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}

		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.applyLoad(msg)

		// Activate first-run setup after data loads
		if a.needSetup {
			a.setupVals = defaultSetupValues(a.cfg, a.csvPath())
			a.setupForm = NewSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.applyLoad(DataLoadedMsg(msg))
		if msg.Err == nil {
			a.notice = "Reloaded"
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a *App) applyLoad(msg DataLoadedMsg) {
	a.loadTime = msg.LoadTime
	a.loadErr = msg.Err
	if msg.Err != nil {
		log.WithError(msg.Err).Warn("load failed")
		a.txns = nil
	} else {
		a.txns = msg.Transactions
		a.files = msg.Files
		a.cacheHits = msg.CacheHits
	}
	a.recompute()
}

// shiftDay moves the what-if day within the as-of month.
func (a *App) shiftDay(delta int) {
	if a.report == nil {
		return
	}
	day := a.report.Period.Day + delta
	if day < 1 || day > a.report.Period.DaysInMonth {
		return
	}
	a.dayOverride = day
	a.recompute()
}

// applyPlan writes the plan's updated budgets to the config file.
func (a *App) applyPlan() {
	if a.report == nil || a.report.Plan.Empty() {
		a.notice = "Nothing to apply"
		return
	}
	cfg := a.cfg
	config.SetBudgets(&cfg, a.report.Applied)
	if err := a.saveConfig(cfg); err != nil {
		a.notice = "Save failed: " + err.Error()
		return
	}
	moved := a.report.Plan.TotalMoved()
	a.planPreview = false
	a.recompute()
	a.notice = "Applied " + cli.FormatMoney(moved) + " in transfers"
	log.WithField("moved", moved.String()).Info("plan applied to config")
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		a.needSetup = false
		a.setupForm = nil
		cfg, err := SaveSetup(a.cfg, a.setupVals)
		if err != nil {
			a.notice = "Setup not saved: " + err.Error()
			return a, nil
		}
		a.cfg = cfg
		a.refreshing = true
		return a, refreshDataCmd(a.csvPath(), a.opts.NoCache)
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  pbudget needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ pbudget"))
	b.WriteString(subtitleStyle.Render(" · Budget Forecaster"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := 40
		if barW > w-30 {
			barW = w - 30
		}
		if barW < 20 {
			barW = 20
		}
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Reading statements\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
		b.WriteString(subtitleStyle.Render(" files"))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Looking for transactions..."))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o f p h x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Select category / setting"},
		}},
		{"What-if", []struct{ key, desc string }{
			{"[ ]", "Move the as-of day"},
			{"0", "Reset to the latest date"},
			{"m", "Switch reallocation mode"},
		}},
		{"Plan", []struct{ key, desc string }{
			{"a", "Preview budgets with the plan"},
			{"w", "Write updated budgets to config"},
		}},
		{"Settings", []struct{ key, desc string }{
			{"Enter", "Edit / toggle"},
			{"d", "Delete category"},
			{"Esc", "Cancel edit"},
		}},
		{"General", []struct{ key, desc string }{
			{"r", "Reload data"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Render header (tab bar + context pill)
	header := components.RenderTabBar(a.activeTab, w) +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(a.contextPill())

	// 2. Render status bar
	statusBar := components.RenderStatusBar(w, "[?]help [q]uit", a.notice, a.dataInfo())

	// 3. Calculate content zone height
	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Render tab content
	var content string
	switch {
	case a.activeTab == tabSettings:
		content = a.renderSettingsTab(cw)
	case a.report == nil:
		content = a.renderNoData(cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabForecast:
		content = a.renderForecastTab(cw)
	case a.activeTab == tabPlan:
		content = a.renderPlanTab(cw)
	case a.activeTab == tabHistory:
		content = a.renderHistoryTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background (fixes gaps between cards)
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Place content with background fill (handles centering when w > cw)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	// 8. Stack vertically
	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	// 9. Ensure entire terminal is filled with background
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// contextPill summarizes the as-of date, what-if day, mode, and card filter.
func (a App) contextPill() string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	sep := dim.Render(" │ ")

	parts := []string{}
	if a.report != nil {
		p := a.report.Period
		parts = append(parts,
			dim.Render("as of ")+accent.Render(cli.FormatDate(p.AsOf)),
			dim.Render("day ")+accent.Render(fmt.Sprintf("%d/%d", p.Day, p.DaysInMonth)),
		)
	}
	parts = append(parts, dim.Render("mode ")+accent.Render(string(a.mode)))
	if a.opts.Card != "" {
		parts = append(parts, dim.Render("card ")+accent.Render(a.opts.Card))
	}
	if a.dayOverride > 0 {
		parts = append(parts, accent.Render("what-if"))
	}
	if a.refreshing {
		parts = append(parts, dim.Render("reloading…"))
	}
	return dim.Render(" ") + strings.Join(parts, sep) + dim.Render(" ")
}

func (a App) dataInfo() string {
	if a.loadErr != nil {
		return "no data"
	}
	info := cli.FormatNumber(int64(len(a.txns))) + " txns"
	if a.files > 1 {
		info += " · " + strconv.Itoa(a.files) + " files"
	}
	if a.cacheHits > 0 {
		info += " · cached"
	}
	return info + fmt.Sprintf(" · %.1fs", a.loadTime.Seconds())
}

// renderNoData explains why there is nothing to show.
func (a App) renderNoData(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	err := a.loadErr
	if err == nil {
		err = a.reportErr
	}
	msg := "No transactions loaded."
	if err != nil {
		msg = err.Error()
	}

	var b strings.Builder
	b.WriteString(warn.Render(msg))
	b.WriteString("\n\n")
	b.WriteString(muted.Render("Set the CSV path on the Settings tab [x], or run `pbudget simulate` for sample data."))
	if p := a.csvPath(); p != "" {
		b.WriteString("\n")
		b.WriteString(muted.Render("Current path: " + p))
	}
	return components.ContentCard("No data", b.String(), cw)
}

// ─── Helpers ────────────────────────────────────────────────────

// loadDataCmd starts the data loading pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(path string, noCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Progress callback: non-blocking send so workers aren't stalled.
			// If the channel is full, we skip this update and the next one catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			sub <- loadData(path, noCache, progressFn)
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads data in the background (no progress UI).
func refreshDataCmd(path string, noCache bool) tea.Cmd {
	return func() tea.Msg {
		return RefreshDataMsg(loadData(path, noCache, nil))
	}
}

// loadData tries the cached load first and falls back to a plain parse.
func loadData(path string, noCache bool, progressFn pipeline.ProgressFunc) DataLoadedMsg {
	start := time.Now()
	if path == "" {
		return DataLoadedMsg{Err: errNoCSVPath}
	}

	if !noCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			cr, loadErr := pipeline.LoadWithCache(path, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				return DataLoadedMsg{
					Transactions: cr.Transactions,
					Files:        cr.TotalFiles,
					CacheHits:    cr.CacheHits,
					LoadTime:     time.Since(start),
				}
			}
			log.WithError(loadErr).Debug("cached load failed, parsing directly")
		}
	}

	result, err := pipeline.Load(path, progressFn)
	if err != nil {
		return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
	}
	return DataLoadedMsg{
		Transactions: result.Transactions,
		Files:        result.TotalFiles,
		LoadTime:     time.Since(start),
	}
}

// chartDateLabels builds compact X-axis labels for a chronological date series.
// First label and month boundaries: month abbreviation. Everything else: day number.
func chartDateLabels(days []model.DailySpend) []string {
	labels := make([]string, len(days))
	prevMonth := time.Month(0)
	for i, d := range days {
		m := d.Date.Month()
		switch {
		case i == 0, m != prevMonth && i != len(days)-1:
			labels[i] = d.Date.Format("Jan")
		default:
			labels[i] = strconv.Itoa(d.Date.Day())
		}
		prevMonth = m
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
// This ensures gaps between cards and empty lines have proper background fill.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
