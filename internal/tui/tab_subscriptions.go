package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/cli"
	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/tui/components"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderSubscriptionsTab(cw int) string {
	var b strings.Builder

	subs := make([]model.Subscription, len(a.data.Subscriptions))
	copy(subs, a.data.Subscriptions)
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].NextPayment.Before(subs[j].NextPayment)
	})

	// Row 1: Metric cards
	active := 0
	watchlist := 0
	monthlyTotal := decimal.Zero
	for _, s := range subs {
		if !s.Active {
			continue
		}
		if s.Watchlist {
			watchlist++
			continue
		}
		active++
		monthlyTotal = monthlyTotal.Add(s.MonthlyPrice())
	}
	annualTotal := monthlyTotal.Mul(decimal.NewFromInt(12))

	cards := []components.Metric{
		{Label: "Active", Value: cli.FormatNumber(int64(active)), Note: fmt.Sprintf("%d on watchlist", watchlist)},
		{Label: "Monthly", Value: cli.FormatMoney(monthlyTotal, a.currency), Note: "normalized across cadences"},
		{Label: "Annual", Value: cli.FormatMoney(annualTotal, a.currency), Note: ""},
		{Label: "Detected", Value: cli.FormatNumber(int64(len(a.detected))), Note: "from transaction history"},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Tracked subscriptions, cursor-selectable
	b.WriteString(components.ContentCard("Tracked",
		a.renderTrackedList(subs, components.CardInnerWidth(cw)), cw))
	b.WriteString("\n")

	// Row 3: Detected candidates
	b.WriteString(components.ContentCard("Detected in History",
		a.renderDetectedList(components.CardInnerWidth(cw)), cw))

	return b.String()
}

func (a App) renderTrackedList(subs []model.Subscription, innerW int) string {
	t := theme.Active

	if len(subs) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).
			Render("No subscriptions tracked yet. Add one with `finsight subs add`.")
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selNameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	priceStyle := lipgloss.NewStyle().Foreground(t.Orange)
	freqStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dueStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	watchStyle := lipgloss.NewStyle().Foreground(t.Cyan)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	now := time.Now()
	nameW := innerW - 46
	if nameW < 10 {
		nameW = 10
	}

	var b strings.Builder
	for i, s := range subs {
		marker := "  "
		ns := nameStyle
		if i == a.subsState.cursor {
			marker = markerStyle.Render("▸ ")
			ns = selNameStyle
		}

		var badge string
		switch {
		case !s.Active:
			badge = inactiveStyle.Render("inactive  ")
		case s.Watchlist:
			badge = watchStyle.Render("watchlist ")
		default:
			badge = freqStyle.Render(fmt.Sprintf("%-10s", s.Frequency))
		}

		due := ""
		if s.Active && !s.Watchlist {
			due = dueStyle.Render(cli.FormatRelativeDays(now, s.NextPayment))
		}

		fmt.Fprintf(&b, "%s%s %s %s %s\n",
			marker,
			ns.Render(fmt.Sprintf("%-*s", nameW, truncStr(s.ServiceName, nameW))),
			priceStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(s.Price, a.currency))),
			badge,
			due)
	}
	return b.String()
}

func (a App) renderDetectedList(innerW int) string {
	t := theme.Active

	if len(a.detected) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).
			Render("No recurring merchants found yet. Import more history.")
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	trackedStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	amountStyle := lipgloss.NewStyle().Foreground(t.Orange)
	freqStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	confStyle := lipgloss.NewStyle().Foreground(t.Green)

	offset := len(a.data.Subscriptions)
	nameW := innerW - 50
	if nameW < 10 {
		nameW = 10
	}

	var b strings.Builder
	for i, d := range a.detected {
		marker := "  "
		if offset+i == a.subsState.cursor {
			marker = lipgloss.NewStyle().Foreground(t.AccentBright).Render("▸ ")
		}

		ns := nameStyle
		note := ""
		if d.AlreadyTracked {
			ns = trackedStyle
			note = trackedStyle.Render(" (tracked)")
		}

		fmt.Fprintf(&b, "%s%s %s %s %s  %dx%s\n",
			marker,
			ns.Render(fmt.Sprintf("%-*s", nameW, truncStr(d.Merchant, nameW))),
			amountStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(d.AverageAmount, a.currency))),
			freqStyle.Render(fmt.Sprintf("%-12s", d.Frequency)),
			confStyle.Render(cli.FormatConfidence(d.Confidence)),
			d.Occurrences,
			note)
	}
	return b.String()
}
