package config

import (
	"sort"
	"strings"
)

// defaultCategoryRules maps merchant substrings to categories. Checked
// in order; first match wins. User overrides from [categories] are
// consulted before these.
var defaultCategoryRules = []categoryRule{
	{"netflix", "Entertainment"},
	{"spotify", "Entertainment"},
	{"hulu", "Entertainment"},
	{"disney", "Entertainment"},
	{"youtube", "Entertainment"},
	{"steam", "Entertainment"},
	{"cinema", "Entertainment"},
	{"uber eats", "Dining"},
	{"doordash", "Dining"},
	{"restaurant", "Dining"},
	{"cafe", "Dining"},
	{"coffee", "Dining"},
	{"starbucks", "Dining"},
	{"mcdonald", "Dining"},
	{"grocer", "Groceries"},
	{"supermarket", "Groceries"},
	{"whole foods", "Groceries"},
	{"aldi", "Groceries"},
	{"costco", "Groceries"},
	{"trader joe", "Groceries"},
	{"uber", "Transport"},
	{"lyft", "Transport"},
	{"shell", "Transport"},
	{"chevron", "Transport"},
	{"parking", "Transport"},
	{"transit", "Transport"},
	{"airline", "Travel"},
	{"hotel", "Travel"},
	{"airbnb", "Travel"},
	{"rent", "Housing"},
	{"mortgage", "Housing"},
	{"electric", "Utilities"},
	{"water", "Utilities"},
	{"gas co", "Utilities"},
	{"internet", "Utilities"},
	{"comcast", "Utilities"},
	{"verizon", "Utilities"},
	{"t-mobile", "Utilities"},
	{"at&t", "Utilities"},
	{"pharmacy", "Health"},
	{"cvs", "Health"},
	{"walgreens", "Health"},
	{"gym", "Health"},
	{"fitness", "Health"},
	{"doctor", "Health"},
	{"dental", "Health"},
	{"amazon", "Shopping"},
	{"target", "Shopping"},
	{"walmart", "Shopping"},
	{"ebay", "Shopping"},
	{"insurance", "Insurance"},
	{"geico", "Insurance"},
	{"salary", "Income"},
	{"payroll", "Income"},
	{"deposit", "Income"},
	{"dividend", "Income"},
	{"icloud", "Software"},
	{"google one", "Software"},
	{"dropbox", "Software"},
	{"github", "Software"},
	{"adobe", "Software"},
}

type categoryRule struct {
	keyword  string
	category string
}

// CategoryFallback is used when no rule matches.
const CategoryFallback = "Other"

// Categorize assigns a category to a merchant name using user
// overrides first, then the built-in rules. Override keywords are
// tried longest first so the most specific one wins.
func Categorize(cfg Config, merchant string) string {
	name := strings.ToLower(merchant)
	for _, kw := range overrideKeywords(cfg.Categories) {
		if strings.Contains(name, strings.ToLower(kw)) {
			return cfg.Categories[kw]
		}
	}
	for _, r := range defaultCategoryRules {
		if strings.Contains(name, r.keyword) {
			return r.category
		}
	}
	return CategoryFallback
}

func overrideKeywords(categories map[string]string) []string {
	keys := make([]string, 0, len(categories))
	for kw := range categories {
		keys = append(keys, kw)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
