package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/finsight/finsight/internal/model"
	"github.com/finsight/finsight/internal/tui/components"
	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/shopspring/decimal"
)

func TestTabAtHitboxes(t *testing.T) {
	a := App{activeTab: 0}

	// Each row starts with a one-column leading space.
	if got := a.tabAt(0, 0); got != -1 {
		t.Errorf("tabAt(0, 0) = %d, want -1 (leading space)", got)
	}
	if got := a.tabAt(1, 0); got != 0 {
		t.Errorf("tabAt(1, 0) = %d, want 0 (first tab)", got)
	}
	if got := a.tabAt(1, 1); got != components.TabRowSplit {
		t.Errorf("tabAt(1, 1) = %d, want %d (first tab of second row)", got, components.TabRowSplit)
	}
	if got := a.tabAt(1, 2); got != -1 {
		t.Errorf("tabAt(1, 2) = %d, want -1 (below tab bar)", got)
	}

	// Walk every tab and click the middle of its hitbox.
	for row := 0; row < 2; row++ {
		start, end := 0, components.TabRowSplit
		if row == 1 {
			start, end = components.TabRowSplit, len(components.Tabs)
		}
		pos := 1
		for i := start; i < end; i++ {
			w := components.TabVisualWidth(components.Tabs[i], i == a.activeTab)
			if got := a.tabAt(pos+w/2, row); got != i {
				t.Errorf("tabAt(%d, %d) = %d, want %d (%s)", pos+w/2, row, got, i, components.Tabs[i].Name)
			}
			pos += w + 2
		}
		// Past the last tab on the row
		if got := a.tabAt(pos+5, row); got != -1 {
			t.Errorf("tabAt(%d, %d) = %d, want -1 (past row end)", pos+5, row, got)
		}
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct {
		pos, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 4},
		{100, 5, 4},
		{-3, 5, 0},
		{0, 0, 0},
		{1 << 30, 3, 2},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.pos, tt.n); got != tt.want {
			t.Errorf("clampCursor(%d, %d) = %d, want %d", tt.pos, tt.n, got, tt.want)
		}
	}
}

func TestChartDateLabels(t *testing.T) {
	day := func(y int, m time.Month, d int) model.DailyStat {
		return model.DailyStat{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
	}

	// Newest-first input spanning a month boundary
	days := []model.DailyStat{
		day(2026, time.February, 2),
		day(2026, time.February, 1),
		day(2026, time.January, 31),
		day(2026, time.January, 30),
	}
	labels := chartDateLabels(days)

	want := []string{"Jan", "31", "Feb", "2"}
	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d", len(labels), len(want))
	}
	for i, w := range want {
		if labels[i] != w {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], w)
		}
	}
}

func TestRenderIntelligenceTab(t *testing.T) {
	theme.SetActive("midnight")
	a := App{currency: "USD"}

	out := a.renderIntelligenceTab(120, 24)
	if !strings.Contains(out, "Flagged Transactions") {
		t.Fatal("missing anomaly card title")
	}
	if !strings.Contains(out, "Nothing unusual") {
		t.Fatal("missing empty-state text")
	}

	a.anomalies = []model.Anomaly{{
		Kind:           model.AnomalySpike,
		Severity:       model.SeverityHigh,
		Name:           "Whole Harvest Market",
		Amount:         decimal.NewFromInt(412),
		ExpectedAmount: decimal.NewFromInt(84),
		ZScore:         3.4,
		Date:           time.Date(2026, time.August, 19, 0, 0, 0, 0, time.UTC),
	}}
	out = a.renderIntelligenceTab(120, 24)
	if !strings.Contains(out, "Whole Harvest Market") {
		t.Fatal("flagged merchant not rendered")
	}
	if !strings.Contains(out, "HIGH") {
		t.Fatal("severity badge not rendered")
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("Subscriptions", 8); got != "Subscri…" {
		t.Errorf("truncStr = %q", got)
	}
	if got := truncStr("Debt", 8); got != "Debt" {
		t.Errorf("truncStr short = %q", got)
	}
	if got := truncStr("anything", 0); got != "" {
		t.Errorf("truncStr zero = %q", got)
	}
}

func TestPadAndTruncateHeight(t *testing.T) {
	s := "a\nb"
	if got := padHeight(s, 4); got != "a\nb\n\n" {
		t.Errorf("padHeight = %q", got)
	}
	if got := truncateHeight("a\nb\nc\nd", 2); got != "a\nb" {
		t.Errorf("truncateHeight = %q", got)
	}
}
