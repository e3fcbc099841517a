package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/ledger"
	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/tui/components"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDebtTab(cw int) string {
	t := theme.Active
	debts := a.data.Debts
	var b strings.Builder

	if len(debts) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).
			Render("  No debt accounts tracked. Add one with `finsight debt add`.")
	}

	now := time.Now()

	// Debt-free date across all accounts at minimum payments
	var debtFree time.Time
	anyNeverPays := false
	for _, d := range debts {
		proj := ledger.PayoffProjection(d, d.MinimumPayment, now)
		if proj.NeverPays {
			anyNeverPays = true
			continue
		}
		if proj.PayoffDate.After(debtFree) {
			debtFree = proj.PayoffDate
		}
	}
	debtFreeStr := debtFree.Format("Jan 2006")
	debtFreeNote := "at minimum payments"
	if anyNeverPays {
		debtFreeStr = "never"
		debtFreeNote = "minimums don't cover interest"
	}

	cards := []components.Metric{
		{Label: "Total Debt", Value: cli.FormatMoney(ledger.TotalDebt(debts), a.currency)},
		{Label: "Monthly Minimums", Value: cli.FormatMoney(ledger.TotalMinimums(debts), a.currency)},
		{Label: "Accounts", Value: cli.FormatNumber(int64(len(debts)))},
		{Label: "Debt Free", Value: debtFreeStr, Note: debtFreeNote},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Account list with cursor
	b.WriteString(components.ContentCard("Accounts",
		a.renderDebtList(components.CardInnerWidth(cw), now), cw))
	b.WriteString("\n")

	// Payoff detail for the selected account
	if a.debtState.cursor < len(debts) {
		sel := debts[a.debtState.cursor]
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Payoff · %s", sel.Creditor),
			a.renderPayoffDetail(sel, components.CardInnerWidth(cw), now), cw))
	}

	return b.String()
}

func (a App) renderDebtList(innerW int, now time.Time) string {
	t := theme.Active

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selNameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	balStyle := lipgloss.NewStyle().Foreground(t.Red)
	aprStyle := lipgloss.NewStyle().Foreground(t.Yellow)
	minStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	kindStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	nameW := innerW - 52
	if nameW < 10 {
		nameW = 10
	}

	var b strings.Builder
	for i, d := range a.data.Debts {
		marker := "  "
		ns := nameStyle
		if i == a.debtState.cursor {
			marker = markerStyle.Render("▸ ")
			ns = selNameStyle
		}
		fmt.Fprintf(&b, "%s%s %s %s %s %s\n",
			marker,
			ns.Render(fmt.Sprintf("%-*s", nameW, truncStr(d.Creditor, nameW))),
			kindStyle.Render(fmt.Sprintf("%-12s", d.Kind)),
			balStyle.Render(fmt.Sprintf("%12s", cli.FormatMoney(d.Balance, a.currency))),
			aprStyle.Render(fmt.Sprintf("%5.1f%%", d.APR)),
			minStyle.Render(fmt.Sprintf("%10s/mo", cli.FormatMoney(d.MinimumPayment, a.currency))))
	}
	return b.String()
}

func (a App) renderPayoffDetail(d model.DebtAccount, innerW int, now time.Time) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	proj := ledger.PayoffProjection(d, d.MinimumPayment, now)

	var b strings.Builder
	if proj.NeverPays {
		b.WriteString(warnStyle.Render("Minimum payment does not cover interest."))
		b.WriteString("\n")
		b.WriteString(noteStyle.Render("The balance grows every month at this payment level."))
		return b.String()
	}

	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render("Payoff date:    "),
		valueStyle.Render(proj.PayoffDate.Format("January 2006")))
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render("Months to go:   "),
		valueStyle.Render(cli.FormatNumber(int64(proj.Months))))
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render("Total interest: "),
		valueStyle.Render(cli.FormatMoney(proj.TotalInterest, a.currency)))
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render("Total paid:     "),
		valueStyle.Render(cli.FormatMoney(proj.TotalPaid, a.currency)))

	return b.String()
}
