package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/ledger"
	"github.com/finsight/finsight/internal/tui/components"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	sum := a.summary
	prev := a.prevSummary
	var b strings.Builder

	// Row 1: Metric cards with previous-window deltas
	incomeDelta := ""
	if prev.Income.IsPositive() {
		incomeDelta = cli.FormatDelta(sum.Income, prev.Income, a.currency) + " vs prior"
	}
	expenseDelta := ""
	if prev.Expenses.IsPositive() {
		expenseDelta = cli.FormatDelta(sum.Expenses, prev.Expenses, a.currency) + " vs prior"
	}
	netDelta := cli.FormatMoney(sum.ExpensesPerDay, a.currency) + "/day out"
	savingsDelta := ""
	if prev.Income.IsPositive() {
		savingsDelta = fmt.Sprintf("%+.1fpp vs prior", sum.SavingsRate-prev.SavingsRate)
	}

	cards := []components.Metric{
		{Label: "Income", Value: cli.FormatMoney(sum.Income, a.currency), Note: incomeDelta},
		{Label: "Expenses", Value: cli.FormatMoney(sum.Expenses, a.currency), Note: expenseDelta},
		{Label: "Net Cash Flow", Value: cli.FormatMoney(sum.NetCashFlow, a.currency), Note: netDelta},
		{Label: "Savings Rate", Value: cli.FormatPercent(sum.SavingsRate), Note: savingsDelta},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Budget bar, when a monthly limit is configured
	if a.monthlyLimit != nil && *a.monthlyLimit > 0 {
		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		monthSpend := ledger.Summarize(a.data.Transactions, a.data.DebtPayments, monthStart, now).Expenses
		pct := monthSpend.InexactFloat64() / *a.monthlyLimit
		daysLeft := daysInMonth(now) - now.Day()

		innerW := components.CardInnerWidth(cw)
		barW := innerW - 30
		if barW < 10 {
			barW = 10
		}
		body := components.BudgetBar(
			cli.FormatMoneyShort(monthSpend, a.currency)+" of "+cli.FormatMoneyShort(decimal.NewFromFloat(*a.monthlyLimit), a.currency),
			pct, daysLeft, 18, barW)
		b.WriteString(components.ContentCard("Monthly Budget", body, cw))
		b.WriteString("\n")
	}

	// Row 3: Daily spending chart
	if len(a.days) > 0 {
		chartVals := make([]float64, len(a.days))
		chartLabels := chartDateLabels(a.days)
		for i, d := range a.days {
			chartVals[len(a.days)-1-i] = d.Expenses.InexactFloat64()
		}
		chartInnerW := components.CardInnerWidth(cw)
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Daily Spending (%dmo)", a.months),
			components.BarChart(chartVals, chartLabels, t.Blue, chartInnerW, 10),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 4: Top Categories + Upcoming Payments
	halves := components.LayoutRow(cw, 2)

	catCard := components.ContentCard("Top Categories",
		a.renderCategoryBars(components.CardInnerWidth(halves[0]), 5), halves[0])
	upCard := components.ContentCard("Upcoming Payments",
		a.renderUpcomingList(components.CardInnerWidth(halves[1]), 5), halves[1])

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Top Categories",
			a.renderCategoryBars(components.CardInnerWidth(cw), 5), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Upcoming Payments",
			a.renderUpcomingList(components.CardInnerWidth(cw), 5), cw))
	} else {
		b.WriteString(components.CardRow([]string{catCard, upCard}))
	}

	return b.String()
}

// renderCategoryBars renders the top-N categories as horizontal share bars.
func (a App) renderCategoryBars(innerW, limit int) string {
	t := theme.Active

	if len(a.categories) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("No spending in this window.")
	}
	if limit > len(a.categories) {
		limit = len(a.categories)
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	maxShare := a.categories[0].SharePercent
	nameW := innerW / 3
	if nameW < 10 {
		nameW = 10
	}
	barMaxLen := innerW - nameW - 8
	if barMaxLen < 1 {
		barMaxLen = 1
	}

	var b strings.Builder
	for _, cs := range a.categories[:limit] {
		barLen := 0
		if maxShare > 0 {
			barLen = int(cs.SharePercent / maxShare * float64(barMaxLen))
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(cs.Category, nameW))),
			barStyle.Render(strings.Repeat("█", barLen)),
			pctStyle.Render(fmt.Sprintf("%.0f%%", cs.SharePercent)))
	}
	return b.String()
}

// renderUpcomingList renders the next N upcoming payments.
func (a App) renderUpcomingList(innerW, limit int) string {
	t := theme.Active

	if len(a.upcoming) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("Nothing due soon.")
	}
	if limit > len(a.upcoming) {
		limit = len(a.upcoming)
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	amountStyle := lipgloss.NewStyle().Foreground(t.Orange)
	dueStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	now := time.Now()
	nameW := innerW - 26
	if nameW < 8 {
		nameW = 8
	}

	var b strings.Builder
	for _, up := range a.upcoming[:limit] {
		fmt.Fprintf(&b, "%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(up.Name, nameW))),
			amountStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(up.Amount, a.currency))),
			dueStyle.Render(cli.FormatRelativeDays(now, up.Due)))
	}
	return b.String()
}

func daysInMonth(now time.Time) int {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, 1, -1).Day()
}
