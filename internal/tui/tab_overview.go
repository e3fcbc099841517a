package tui

import (
	"fmt"
	"strings"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/tui/components"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: 12-month spending chart
	if len(a.monthly) > 0 {
		chartVals := make([]float64, len(a.monthly))
		chartLabels := make([]string, len(a.monthly))
		for i, m := range a.monthly {
			chartVals[i] = m.Expenses.InexactFloat64()
			chartLabels[i] = m.Month.Format("Jan")
		}
		b.WriteString(components.ContentCard(
			"Monthly Spending (12mo)",
			components.BarChart(chartVals, chartLabels, t.Blue, components.CardInnerWidth(cw), 10),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 2: Month-by-month table + full category breakdown
	halves := components.LayoutRow(cw, 2)
	monthCard := components.ContentCard("Month by Month",
		a.renderMonthTable(components.CardInnerWidth(halves[0])), halves[0])
	catCard := components.ContentCard("Category Breakdown",
		a.renderCategoryTable(components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Month by Month",
			a.renderMonthTable(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Category Breakdown",
			a.renderCategoryTable(components.CardInnerWidth(cw)), cw))
	} else {
		b.WriteString(components.CardRow([]string{monthCard, catCard}))
	}

	return b.String()
}

func (a App) renderMonthTable(innerW int) string {
	t := theme.Active

	if len(a.monthly) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("No history yet.")
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	monthStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	inStyle := lipgloss.NewStyle().Foreground(t.Green)
	outStyle := lipgloss.NewStyle().Foreground(t.Orange)
	gainStyle := lipgloss.NewStyle().Foreground(t.GreenBright)
	lossStyle := lipgloss.NewStyle().Foreground(t.Red)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headStyle.Render(
		fmt.Sprintf("%-9s %12s %12s %12s", "Month", "Income", "Expenses", "Net")))

	// Most recent month first
	for i := len(a.monthly) - 1; i >= 0; i-- {
		m := a.monthly[i]
		netStyle := gainStyle
		if m.Net.IsNegative() {
			netStyle = lossStyle
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			monthStyle.Render(fmt.Sprintf("%-9s", m.Month.Format("Jan 2006"))),
			inStyle.Render(fmt.Sprintf("%12s", cli.FormatMoneyShort(m.Income, a.currency))),
			outStyle.Render(fmt.Sprintf("%12s", cli.FormatMoneyShort(m.Expenses, a.currency))),
			netStyle.Render(fmt.Sprintf("%12s", cli.FormatMoneyShort(m.Net, a.currency))))
	}
	return b.String()
}

func (a App) renderCategoryTable(innerW int) string {
	t := theme.Active

	if len(a.categories) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("No spending in this window.")
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	totalStyle := lipgloss.NewStyle().Foreground(t.Orange)
	countStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	nameW := innerW - 32
	if nameW < 10 {
		nameW = 10
	}

	var b strings.Builder
	for _, cs := range a.categories {
		fmt.Fprintf(&b, "%s %s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(cs.Category, nameW))),
			totalStyle.Render(fmt.Sprintf("%12s", cli.FormatMoney(cs.Total, a.currency))),
			pctStyle.Render(fmt.Sprintf("%5.1f%%", cs.SharePercent)),
			countStyle.Render(fmt.Sprintf("%4dx", cs.Count)))
	}
	return b.String()
}
