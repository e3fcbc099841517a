package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/tui/components"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderPlanningTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	if len(a.forecast) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).
			Render("  Not enough history to project cash flow yet.")
	}

	// Totals over the projection horizon
	var projExpenses, projIncome, projLow, projHigh, knownRenewals float64
	for _, fd := range a.forecast {
		projExpenses += fd.Expenses
		projIncome += fd.Income
		projLow += fd.ExpensesLow
		projHigh += fd.ExpensesHigh
		knownRenewals += fd.KnownRenewals
	}
	projNet := projIncome - projExpenses

	// Row 1: Metric cards
	rangeStr := fmt.Sprintf("%s – %s likely",
		cli.FormatMoneyShort(decimal.NewFromFloat(projLow), a.currency),
		cli.FormatMoneyShort(decimal.NewFromFloat(projHigh), a.currency))

	cards := []components.Metric{
		{Label: fmt.Sprintf("Projected Spend (%dd)", forecastHorizon),
			Value: cli.FormatMoney(decimal.NewFromFloat(projExpenses), a.currency), Note: rangeStr},
		{Label: "Projected Income",
			Value: cli.FormatMoney(decimal.NewFromFloat(projIncome), a.currency)},
		{Label: "Projected Net",
			Value: cli.FormatMoney(decimal.NewFromFloat(projNet), a.currency)},
		{Label: "Known Renewals",
			Value: cli.FormatMoney(decimal.NewFromFloat(knownRenewals), a.currency), Note: "subscriptions due in window"},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Projected daily expenses chart
	chartVals := make([]float64, len(a.forecast))
	chartLabels := make([]string, len(a.forecast))
	prevMonth := time.Month(0)
	for i, fd := range a.forecast {
		chartVals[i] = fd.Expenses
		if i == 0 || fd.Date.Month() != prevMonth {
			chartLabels[i] = fd.Date.Format("Jan")
		} else {
			chartLabels[i] = strconv.Itoa(fd.Date.Day())
		}
		prevMonth = fd.Date.Month()
	}
	b.WriteString(components.ContentCard(
		"Projected Daily Spending",
		components.BarChart(chartVals, chartLabels, t.Magenta, components.CardInnerWidth(cw), 10),
		cw,
	))
	b.WriteString("\n")

	// Row 3: Renewal calendar + running balance
	halves := components.LayoutRow(cw, 2)
	renewCard := components.ContentCard("Renewals in Window",
		a.renderRenewalWindow(components.CardInnerWidth(halves[0])), halves[0])
	balanceCard := components.ContentCard("Cumulative Net",
		a.renderCumulativeNet(components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Renewals in Window",
			a.renderRenewalWindow(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Cumulative Net",
			a.renderCumulativeNet(components.CardInnerWidth(cw)), cw))
	} else {
		b.WriteString(components.CardRow([]string{renewCard, balanceCard}))
	}

	return b.String()
}

// renderRenewalWindow lists forecast days that carry known renewals.
func (a App) renderRenewalWindow(innerW int) string {
	t := theme.Active

	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	amountStyle := lipgloss.NewStyle().Foreground(t.Orange)

	var b strings.Builder
	count := 0
	for _, fd := range a.forecast {
		if fd.KnownRenewals <= 0 {
			continue
		}
		fmt.Fprintf(&b, "%s  %s\n",
			dateStyle.Render(fd.Date.Format("Mon Jan 02")),
			amountStyle.Render(cli.FormatMoney(decimal.NewFromFloat(fd.KnownRenewals), a.currency)))
		count++
		if count >= 8 {
			break
		}
	}
	if count == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("No subscription renewals due in this window.")
	}
	return b.String()
}

// renderCumulativeNet sparklines the running net position over the
// projection horizon.
func (a App) renderCumulativeNet(innerW int) string {
	t := theme.Active

	running := 0.0
	series := make([]float64, len(a.forecast))
	for i, fd := range a.forecast {
		running += fd.Net
		series[i] = running
	}

	color := t.Green
	final := series[len(series)-1]
	if final < 0 {
		color = t.Red
	}

	valueStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(components.Sparkline(series, color))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Position after %d days: ", forecastHorizon)))
	b.WriteString(valueStyle.Render(cli.FormatMoney(decimal.NewFromFloat(final), a.currency)))
	return b.String()
}
