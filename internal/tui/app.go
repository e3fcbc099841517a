// Package tui provides the interactive Bubble Tea dashboard for finsight.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/ledger"
	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/store"
	"github.com/finsight/finsight/internal/tui/components"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tab indices, matching components.Tabs order.
const (
	tabDashboard = iota
	tabSubscriptions
	tabPlanning
	tabOverview
	tabCalendar
	tabDebt
	tabIntelligence
	tabSettings
)

// ledgerData is everything the dashboard reads from the store.
type ledgerData struct {
	Transactions  []model.Transaction
	Subscriptions []model.Subscription
	Debts         []model.DebtAccount
	DebtPayments  []model.DebtPayment
}

// DataLoadedMsg is sent when the initial store read finishes.
type DataLoadedMsg struct {
	Data     ledgerData
	LoadTime time.Duration
	Err      error
}

// RefreshDataMsg is sent when a background data refresh completes.
type RefreshDataMsg struct {
	Data     ledgerData
	LoadTime time.Duration
	Err      error
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	data     ledgerData
	loaded   bool
	loadErr  error
	loadTime time.Duration

	lastRefresh time.Time
	refreshing  bool

	// Pre-computed for the current window
	summary     model.MonthlySummary
	prevSummary model.MonthlySummary
	categories  []model.CategoryStat
	days        []model.DailyStat
	monthly     []model.MonthStat
	detected    []model.DetectedSubscription
	anomalies   []model.Anomaly
	forecast    []model.ForecastDay
	upcoming    []model.UpcomingPayment
	trend       model.TrendLine

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Filter state
	months   int
	category string

	// Per-tab state
	subsState subsState
	debtState debtState
	settings  settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	// Loading
	spinner spinner.Model

	dataDir      string
	currency     string
	monthlyLimit *float64
	leadDays     int
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	forecastHorizon  = 30 // days projected on the planning tab
)

// subsState tracks cursor position on the subscriptions tab.
type subsState struct {
	cursor int
}

// debtState tracks cursor position on the debt tab.
type debtState struct {
	cursor int
}

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start even with a corrupted config file.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(dataDir string, months int, category string) App {
	needSetup := !config.Exists()

	cfg := loadConfigOrDefault()
	if months <= 0 {
		months = cfg.General.DefaultMonths
	}
	if months <= 0 {
		months = 3
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		dataDir:      dataDir,
		months:       months,
		category:     category,
		needSetup:    needSetup,
		currency:     cfg.General.Currency,
		monthlyLimit: cfg.Budget.MonthlyLimit,
		leadDays:     cfg.Notify.LeadDays,
		spinner:      sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dataDir),
		a.spinner.Tick,
	)
}

func (a *App) recompute() {
	now := time.Now()
	since := now.AddDate(0, -a.months, 0)

	txs := a.data.Transactions
	if a.category != "" {
		txs = ledger.FilterByCategory(txs, a.category)
	}

	a.summary = ledger.Summarize(txs, a.data.DebtPayments, since, now)
	a.categories = ledger.AggregateCategories(txs, since, now)
	a.days = ledger.AggregateDays(txs, since, now)

	// Previous window of the same length, immediately before
	prevSince := since.AddDate(0, -a.months, 0)
	a.prevSummary = ledger.Summarize(txs, a.data.DebtPayments, prevSince, since)

	// Overview always shows a rolling year regardless of the filter window
	a.monthly = ledger.AggregateMonths(txs, now.AddDate(-1, 0, 0), now)

	a.detected = ledger.DetectSubscriptions(txs, a.data.Subscriptions)
	a.anomalies = ledger.DetectAnomalies(txs, now.AddDate(0, -3, 0), now, ledger.AnomalyOptions{Now: now})
	a.forecast = ledger.Forecast(a.data.Transactions, a.data.Subscriptions, now, forecastHorizon)
	a.upcoming = ledger.UpcomingPayments(a.data.Subscriptions, a.data.Debts, now, a.leadDays)

	// Daily spend trend, oldest first for the fit
	vals := make([]float64, len(a.days))
	for i, d := range a.days {
		vals[len(a.days)-1-i] = d.Expenses.InexactFloat64()
	}
	a.trend = ledger.LinearTrend(vals)

	// Clamp cursors to the new list bounds
	a.subsState.cursor = clampCursor(a.subsState.cursor, len(a.data.Subscriptions)+len(a.detected))
	a.debtState.cursor = clampCursor(a.debtState.cursor, len(a.data.Debts))
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
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
			a.moveCursor(-1)
			return a, nil
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
			return a, nil
		case tea.MouseButtonLeft:
			// Tab bar occupies the first two lines
			if tab := a.tabAt(msg.X, msg.Y); tab >= 0 {
				a.activeTab = tab
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			if key == "q" && a.loadErr != nil {
				return a, tea.Quit
			}
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Settings tab text input intercepts all keys while editing
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		// List navigation on cursor-driven tabs
		switch key {
		case "j", "down":
			if a.activeTab == tabSettings {
				if a.settings.cursor < settingsFieldCount-1 {
					a.settings.cursor++
				}
			} else {
				a.moveCursor(1)
			}
			return a, nil
		case "k", "up":
			if a.activeTab == tabSettings {
				if a.settings.cursor > 0 {
					a.settings.cursor--
				}
			} else {
				a.moveCursor(-1)
			}
			return a, nil
		case "g":
			a.setCursor(0)
			return a, nil
		case "G":
			a.setCursor(1 << 30)
			return a, nil
		case "enter":
			if a.activeTab == tabSettings {
				return a.settingsStartEdit()
			}
			return a, nil
		}

		if key == "q" {
			return a, tea.Quit
		}

		if key == "r" && !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.dataDir)
		}

		// Tab navigation
		switch key {
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = msg.Err == nil
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		if msg.Err == nil {
			a.data = msg.Data
			a.recompute()
		}

		// Activate first-run setup after data loads
		if a.loaded && a.needSetup {
			a.setupForm = newSetupForm(len(a.data.Transactions), a.dataDir, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if msg.Err == nil {
			a.data = msg.Data
			a.loadTime = msg.LoadTime
			a.recompute()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded && a.loadErr == nil {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

// moveCursor shifts the list cursor on tabs that have one.
func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabSubscriptions:
		n := len(a.data.Subscriptions) + len(a.detected)
		a.subsState.cursor = clampCursor(a.subsState.cursor+delta, n)
	case tabDebt:
		a.debtState.cursor = clampCursor(a.debtState.cursor+delta, len(a.data.Debts))
	}
}

func (a *App) setCursor(pos int) {
	switch a.activeTab {
	case tabSubscriptions:
		a.subsState.cursor = clampCursor(pos, len(a.data.Subscriptions)+len(a.detected))
	case tabDebt:
		a.debtState.cursor = clampCursor(pos, len(a.data.Debts))
	case tabSettings:
		a.settings.cursor = clampCursor(pos, settingsFieldCount)
	}
}

func clampCursor(pos, n int) int {
	if pos >= n {
		pos = n - 1
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		_ = a.saveSetupConfig()
		a.recompute()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
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

	if a.loadErr != nil {
		return a.viewLoadError()
	}

	if !a.loaded {
		return a.viewLoading()
	}

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
		"\n  Terminal too narrow (%d cols)\n\n  finsight needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoadError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Could not open the ledger"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.loadErr.Error()))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Run `finsight import <file.csv>` or `finsight seed` to create one."))
	b.WriteString("\n")
	b.WriteString(bodyStyle.Render("Press q to quit."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active

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

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ finsight"))
	b.WriteString(subtitleStyle.Render(" · Personal Finance"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Reading ledger..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

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

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"d s p o", "Dashboard / Subscriptions / Planning / Overview"},
		{"c b i x", "Calendar / Debt / Intelligence / Settings"},
		{"← →", "Previous / Next tab"},
		{"j k", "Navigate lists"},
		{"g G", "Jump to top / bottom"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"Enter", "Edit setting"},
		{"Esc", "Cancel edit"},
		{"r", "Reload from disk"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + filter pill
	filterPillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	filterAccentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	filterStr := filterPillStyle.Render(" ") +
		filterAccentStyle.Render(fmt.Sprintf("%dmo", a.months))
	if a.category != "" {
		filterStr += filterPillStyle.Render(" │ ") + filterAccentStyle.Render(a.category)
	}
	if a.refreshing {
		filterStr += filterPillStyle.Render(" │ refreshing")
	}
	filterStr += filterPillStyle.Render(" ")

	filterRowStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(w)

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		filterRowStyle.Render(filterStr)

	// 2. Status bar
	loadInfo := fmt.Sprintf("%d txns in %.1fs", len(a.data.Transactions), a.loadTime.Seconds())
	statusBar := components.RenderStatusBar(w, loadInfo, a.refreshing)

	// 3. Content zone height
	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabSubscriptions:
		content = a.renderSubscriptionsTab(cw)
	case tabPlanning:
		content = a.renderPlanningTab(cw)
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabCalendar:
		content = a.renderCalendarTab(cw)
	case tabDebt:
		content = a.renderDebtTab(cw)
	case tabIntelligence:
		content = a.renderIntelligenceTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Center content when the terminal is wider than maxContentWidth
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Data loading ───────────────────────────────────────────────

func loadLedger(dataDir string) (ledgerData, error) {
	st, err := store.Open(store.DBPath(dataDir))
	if err != nil {
		return ledgerData{}, err
	}
	defer st.Close()

	now := time.Now()
	since := now.AddDate(-2, 0, 0) // two years covers every view

	txs, err := st.ListTransactions(since, now)
	if err != nil {
		return ledgerData{}, fmt.Errorf("list transactions: %w", err)
	}
	subs, err := st.ListSubscriptions()
	if err != nil {
		return ledgerData{}, fmt.Errorf("list subscriptions: %w", err)
	}
	debts, err := st.ListDebts()
	if err != nil {
		return ledgerData{}, fmt.Errorf("list debts: %w", err)
	}
	payments, err := st.ListDebtPayments(since, now)
	if err != nil {
		return ledgerData{}, fmt.Errorf("list debt payments: %w", err)
	}

	return ledgerData{
		Transactions:  txs,
		Subscriptions: subs,
		Debts:         debts,
		DebtPayments:  payments,
	}, nil
}

func loadDataCmd(dataDir string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		data, err := loadLedger(dataDir)
		return DataLoadedMsg{Data: data, LoadTime: time.Since(start), Err: err}
	}
}

func refreshDataCmd(dataDir string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		data, err := loadLedger(dataDir)
		return RefreshDataMsg{Data: data, LoadTime: time.Since(start), Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// chartDateLabels builds compact X-axis labels for a daily series.
// First label and month boundaries get a month abbreviation, everything
// else just the day number. days is sorted newest-first; labels are
// returned oldest-left.
func chartDateLabels(days []model.DailyStat) []string {
	n := len(days)
	labels := make([]string, n)
	dates := make([]time.Time, n)
	for i, d := range days {
		dates[n-1-i] = d.Date
	}
	prevMonth := time.Month(0)
	for i, dt := range dates {
		m := dt.Month()
		switch {
		case i == 0, m != prevMonth:
			labels[i] = dt.Format("Jan")
		default:
			labels[i] = strconv.Itoa(dt.Day())
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
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color
// so gaps between cards and empty lines render with proper fill.
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

// ─── Mouse support ──────────────────────────────────────────────

// tabAt returns the tab index at the given cell, or -1. The tab bar
// renders as two rows; hitboxes are derived from the same width rules
// used by RenderTabBar.
func (a App) tabAt(x, y int) int {
	if y < 0 || y > 1 {
		return -1
	}
	start, end := 0, components.TabRowSplit
	if y == 1 {
		start, end = components.TabRowSplit, len(components.Tabs)
	}

	pos := 1 // leading space on each row
	for i := start; i < end; i++ {
		tabW := components.TabVisualWidth(components.Tabs[i], i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 2 // two-space separator
	}
	return -1
}
