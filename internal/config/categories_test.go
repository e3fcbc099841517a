package config

import "testing"

func TestCategorize_BuiltinRules(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		merchant string
		want     string
	}{
		{"Netflix.com", "Entertainment"},
		{"UBER EATS PENDING", "Dining"},
		{"Whole Foods Market #123", "Groceries"},
		{"ACME PAYROLL DEPOSIT", "Income"},
		{"Completely Unknown Vendor", CategoryFallback},
	}
	for _, tt := range tests {
		t.Run(tt.merchant, func(t *testing.T) {
			if got := Categorize(cfg, tt.merchant); got != tt.want {
				t.Fatalf("Categorize(%q) = %q, want %q", tt.merchant, got, tt.want)
			}
		})
	}
}

func TestCategorize_UserOverrideWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories = map[string]string{"netflix": "Subscriptions"}

	if got := Categorize(cfg, "NETFLIX.COM"); got != "Subscriptions" {
		t.Fatalf("override ignored, got %q", got)
	}
}

func TestCategorize_OverlappingOverridesDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories = map[string]string{
		"uber":      "Transport",
		"uber eats": "Dining",
	}

	// Both keywords match; the longer one must win every time.
	for i := 0; i < 50; i++ {
		if got := Categorize(cfg, "Uber Eats Order 4412"); got != "Dining" {
			t.Fatalf("run %d: Categorize = %q, want Dining", i, got)
		}
	}
	if got := Categorize(cfg, "UBER TRIP SF"); got != "Transport" {
		t.Fatalf("Categorize = %q, want Transport", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.General.DefaultMonths != 3 {
		t.Fatalf("DefaultMonths = %d, want 3", cfg.General.DefaultMonths)
	}
	if cfg.Appearance.Theme != "midnight" {
		t.Fatalf("Theme = %q, want midnight", cfg.Appearance.Theme)
	}
	if got := cfg.Notify.PollDuration().Minutes(); got != 15 {
		t.Fatalf("PollDuration = %v minutes, want 15", got)
	}
}

func TestPollDuration_BadValueFallsBack(t *testing.T) {
	n := NotifyConfig{PollInterval: "not-a-duration"}
	if got := n.PollDuration().Minutes(); got != 15 {
		t.Fatalf("PollDuration = %v minutes, want 15", got)
	}
}
