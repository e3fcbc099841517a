package tui

import (
	"fmt"
	"strings"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/tui/components"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderIntelligenceTab(cw, contentH int) string {
	var b strings.Builder

	// Row 1: Counts by kind + spending trend
	spikes, dupes, newMerchants := 0, 0, 0
	for _, an := range a.anomalies {
		switch an.Kind {
		case model.AnomalySpike:
			spikes++
		case model.AnomalyDuplicate:
			dupes++
		case model.AnomalyNewMerchant:
			newMerchants++
		}
	}

	trendValue := fmt.Sprintf("%+.2f/day", a.trend.Slope)
	trendNote := fmt.Sprintf("R² %.2f", a.trend.R2)
	if a.trend.R2 < 0.1 {
		trendNote = "no clear trend"
	}

	cards := []components.Metric{
		{Label: "Amount Spikes", Value: cli.FormatNumber(int64(spikes)), Note: "last 3 months"},
		{Label: "Duplicate Charges", Value: cli.FormatNumber(int64(dupes)), Note: "same merchant, same amount"},
		{Label: "New Merchants", Value: cli.FormatNumber(int64(newMerchants)), Note: "first charge seen"},
		{Label: "Spend Trend", Value: trendValue, Note: trendNote},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Anomaly list, highest severity first
	listH := contentH - 6
	if listH < 5 {
		listH = 5
	}
	b.WriteString(components.ContentCard("Flagged Transactions",
		a.renderAnomalyList(components.CardInnerWidth(cw), listH), cw))

	return b.String()
}

func (a App) renderAnomalyList(innerW, maxRows int) string {
	t := theme.Active

	if len(a.anomalies) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).
			Render("Nothing unusual in the last three months.")
	}

	highStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
	medStyle := lipgloss.NewStyle().Foreground(t.Orange).Bold(true)
	lowStyle := lipgloss.NewStyle().Foreground(t.Yellow)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	amountStyle := lipgloss.NewStyle().Foreground(t.Orange)
	kindStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	zStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	nameW := innerW - 56
	if nameW < 10 {
		nameW = 10
	}

	rows := a.anomalies
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	var b strings.Builder
	for _, an := range rows {
		var sev string
		switch an.Severity {
		case model.SeverityHigh:
			sev = highStyle.Render("HIGH")
		case model.SeverityMedium:
			sev = medStyle.Render("MED ")
		default:
			sev = lowStyle.Render("LOW ")
		}

		detail := ""
		if an.Kind == model.AnomalySpike {
			detail = zStyle.Render(fmt.Sprintf("z=%.1f, usual %s",
				an.ZScore, cli.FormatMoneyShort(an.ExpectedAmount, a.currency)))
		}

		fmt.Fprintf(&b, "%s %s %s %s %s %s\n",
			sev,
			dateStyle.Render(an.Date.Format("Jan 02")),
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(an.Name, nameW))),
			amountStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(an.Amount, a.currency))),
			kindStyle.Render(fmt.Sprintf("%-16s", anomalyKindLabel(an.Kind))),
			detail)
	}

	if len(a.anomalies) > maxRows {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).
			Render(fmt.Sprintf("… and %d more. Run `finsight intelligence` for the full list.",
				len(a.anomalies)-maxRows)))
	}
	return b.String()
}

func anomalyKindLabel(kind string) string {
	switch kind {
	case model.AnomalySpike:
		return "amount spike"
	case model.AnomalyDuplicate:
		return "duplicate charge"
	case model.AnomalyNewMerchant:
		return "new merchant"
	}
	return strings.ReplaceAll(kind, "_", " ")
}
