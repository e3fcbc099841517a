package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/store"
	"github.com/finsight/finsight/internal/tui/components"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldMonths
	settingsFieldCurrency
	settingsFieldBudget
	settingsFieldLeadDays
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldTheme:
		names := make([]string, 0, len(theme.All))
		for _, th := range theme.All {
			names = append(names, th.Name)
		}
		ti.Placeholder = strings.Join(names, ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldMonths:
		ti.Placeholder = "3"
		ti.SetValue(strconv.Itoa(cfg.General.DefaultMonths))
	case settingsFieldCurrency:
		ti.Placeholder = "USD, EUR, GBP, AUD, CAD, JPY"
		ti.SetValue(cfg.General.Currency)
	case settingsFieldBudget:
		ti.Placeholder = "1500 (monthly limit, leave empty to clear)"
		if cfg.Budget.MonthlyLimit != nil {
			ti.SetValue(fmt.Sprintf("%.0f", *cfg.Budget.MonthlyLimit))
		}
	case settingsFieldLeadDays:
		ti.Placeholder = "3 (days of warning before a renewal)"
		ti.SetValue(strconv.Itoa(cfg.Notify.LeadDays))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldTheme:
		for _, th := range theme.All {
			if th.Name == val {
				cfg.Appearance.Theme = val
				theme.SetActive(val)
				break
			}
		}
	case settingsFieldMonths:
		if m, err := strconv.Atoi(val); err == nil && m > 0 {
			cfg.General.DefaultMonths = m
			a.months = m
			a.recompute()
		}
	case settingsFieldCurrency:
		if val != "" {
			cfg.General.Currency = strings.ToUpper(val)
			a.currency = cfg.General.Currency
		}
	case settingsFieldBudget:
		if val == "" {
			cfg.Budget.MonthlyLimit = nil
			a.monthlyLimit = nil
		} else if v, err := strconv.ParseFloat(val, 64); err == nil && v > 0 {
			cfg.Budget.MonthlyLimit = &v
			a.monthlyLimit = &v
		}
	case settingsFieldLeadDays:
		if d, err := strconv.Atoi(val); err == nil && d >= 0 {
			cfg.Notify.LeadDays = d
			a.leadDays = d
			a.recompute()
		}
	}

	a.settings.saveErr = config.Save(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	budgetDisplay := "(not set)"
	if cfg.Budget.MonthlyLimit != nil {
		budgetDisplay = fmt.Sprintf("%s%.0f", cli.Symbol(cfg.General.Currency), *cfg.Budget.MonthlyLimit)
	}

	fields := []field{
		{"Theme", cfg.Appearance.Theme},
		{"Default Months", strconv.Itoa(cfg.General.DefaultMonths)},
		{"Currency", cfg.General.Currency},
		{"Monthly Budget", budgetDisplay},
		{"Renewal Lead Days", strconv.Itoa(cfg.Notify.LeadDays)},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			innerW := components.CardInnerWidth(cw)
			if padLen := innerW - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	// Ledger info card
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Data directory:      ") + valueStyle.Render(a.dataDir) + "\n")
	infoBody.WriteString(labelStyle.Render("Ledger file:         ") + valueStyle.Render(store.DBPath(a.dataDir)) + "\n")
	infoBody.WriteString(labelStyle.Render("Transactions loaded: ") + valueStyle.Render(cli.FormatNumber(int64(len(a.data.Transactions)))) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:         ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Ledger", infoBody.String(), cw))

	return b.String()
}
