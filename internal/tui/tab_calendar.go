package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/tui/components"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderCalendarTab(cw int) string {
	var b strings.Builder
	now := time.Now()

	halves := components.LayoutRow(cw, 2)
	gridCard := components.ContentCard(now.Format("January 2006"),
		a.renderMonthGrid(now), halves[0])
	dueCard := components.ContentCard("Due This Month",
		a.renderMonthDue(now, components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard(now.Format("January 2006"), a.renderMonthGrid(now), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Due This Month",
			a.renderMonthDue(now, components.CardInnerWidth(cw)), cw))
	} else {
		b.WriteString(components.CardRow([]string{gridCard, dueCard}))
	}
	b.WriteString("\n")

	// Daily totals for the current month, busiest days first
	b.WriteString(components.ContentCard("Spending Days",
		a.renderSpendingDays(now, components.CardInnerWidth(cw)), cw))

	return b.String()
}

// renderMonthGrid draws the current month as a weekday grid. Day cells
// are shaded by spend relative to the month's heaviest day; renewal
// days carry a dot marker.
func (a App) renderMonthGrid(now time.Time) string {
	t := theme.Active

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nDays := daysInMonth(now)

	// Spend per day of month
	spend := make([]decimal.Decimal, nDays+1)
	maxSpend := decimal.Zero
	for _, tx := range a.data.Transactions {
		if tx.IsIncome() {
			continue
		}
		if tx.Date.Year() != now.Year() || tx.Date.Month() != now.Month() {
			continue
		}
		d := tx.Date.Day()
		spend[d] = spend[d].Add(tx.Amount)
		if spend[d].GreaterThan(maxSpend) {
			maxSpend = spend[d]
		}
	}

	// Renewal days
	renewal := make([]bool, nDays+1)
	for _, up := range a.upcoming {
		if up.Due.Year() == now.Year() && up.Due.Month() == now.Month() {
			renewal[up.Due.Day()] = true
		}
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	quietStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	lightStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	heavyStyle := lipgloss.NewStyle().Foreground(t.Orange).Bold(true)
	todayStyle := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true)
	dotStyle := lipgloss.NewStyle().Foreground(t.Cyan)

	var b strings.Builder
	b.WriteString(headStyle.Render(" Su  Mo  Tu  We  Th  Fr  Sa"))
	b.WriteString("\n")

	col := int(monthStart.Weekday())
	b.WriteString(strings.Repeat("    ", col))

	for d := 1; d <= nDays; d++ {
		cell := fmt.Sprintf("%3d", d)
		switch {
		case d == now.Day():
			cell = todayStyle.Render(cell)
		case spend[d].IsZero():
			cell = quietStyle.Render(cell)
		case maxSpend.IsPositive() && spend[d].GreaterThanOrEqual(maxSpend.Div(decimal.NewFromInt(2))):
			cell = heavyStyle.Render(cell)
		default:
			cell = lightStyle.Render(cell)
		}
		b.WriteString(cell)
		if renewal[d] {
			b.WriteString(dotStyle.Render("·"))
		} else {
			b.WriteString(" ")
		}

		col++
		if col == 7 {
			col = 0
			if d < nDays {
				b.WriteString("\n")
			}
		}
	}
	b.WriteString("\n\n")
	b.WriteString(quietStyle.Render("· renewal due  "))
	b.WriteString(heavyStyle.Render("bold"))
	b.WriteString(quietStyle.Render(" heavy spend day"))

	return b.String()
}

// renderMonthDue lists subscription renewals and debt minimums falling
// inside the current calendar month.
func (a App) renderMonthDue(now time.Time, innerW int) string {
	t := theme.Active

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	amountStyle := lipgloss.NewStyle().Foreground(t.Orange)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	kindStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	nameW := innerW - 32
	if nameW < 8 {
		nameW = 8
	}

	var b strings.Builder
	count := 0
	for _, up := range a.upcoming {
		if up.Due.Year() != now.Year() || up.Due.Month() != now.Month() {
			continue
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			dateStyle.Render(up.Due.Format("Jan 02")),
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(up.Name, nameW))),
			amountStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(up.Amount, a.currency))),
			kindStyle.Render(up.Kind))
		count++
	}
	if count == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("Nothing due for the rest of the month.")
	}
	return b.String()
}

// renderSpendingDays lists the heaviest spending days of the month.
func (a App) renderSpendingDays(now time.Time, innerW int) string {
	t := theme.Active

	type dayTotal struct {
		day   int
		total decimal.Decimal
		count int
	}
	totals := map[int]*dayTotal{}
	for _, tx := range a.data.Transactions {
		if tx.IsIncome() || tx.Date.Year() != now.Year() || tx.Date.Month() != now.Month() {
			continue
		}
		dt, ok := totals[tx.Date.Day()]
		if !ok {
			dt = &dayTotal{day: tx.Date.Day()}
			totals[tx.Date.Day()] = dt
		}
		dt.total = dt.total.Add(tx.Amount)
		dt.count++
	}
	if len(totals) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("No spending recorded this month.")
	}

	days := make([]*dayTotal, 0, len(totals))
	maxTotal := decimal.Zero
	for _, dt := range totals {
		days = append(days, dt)
		if dt.total.GreaterThan(maxTotal) {
			maxTotal = dt.total
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].day < days[j].day })

	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	amountStyle := lipgloss.NewStyle().Foreground(t.Orange)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	countStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	barMax := innerW - 32
	if barMax < 5 {
		barMax = 5
	}

	var b strings.Builder
	for _, dt := range days {
		barLen := 0
		if maxTotal.IsPositive() {
			barLen = int(dt.total.Div(maxTotal).InexactFloat64() * float64(barMax))
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			dateStyle.Render(time.Date(now.Year(), now.Month(), dt.day, 0, 0, 0, 0, now.Location()).Format("Jan 02")),
			amountStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(dt.total, a.currency))),
			barStyle.Render(strings.Repeat("█", barLen)),
			countStyle.Render(fmt.Sprintf("%dx", dt.count)))
	}
	return b.String()
}
