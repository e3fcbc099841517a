package ledger

import (
	"math"
	"sort"
	"time"

	"github.com/finsight/finsight/internal/model"
	"github.com/shopspring/decimal"
)

// frequencyWindows classify the mean gap between charges, in days.
var frequencyWindows = []struct {
	freq     model.Frequency
	min, max float64
}{
	{model.FreqWeekly, 5, 9},
	{model.FreqFortnightly, 12, 16},
	{model.FreqMonthly, 27, 34},
	{model.FreqQuarterly, 85, 95},
	{model.FreqAnnual, 355, 375},
}

// minDetectionConfidence discards weak candidates.
const minDetectionConfidence = 0.5

// DetectSubscriptions finds recurring merchants in transaction history.
// tracked marks candidates whose merchant already has a subscription.
// Results are sorted by confidence descending.
func DetectSubscriptions(txs []model.Transaction, tracked []model.Subscription) []model.DetectedSubscription {
	byMerchant := make(map[string][]model.Transaction)
	for _, t := range txs {
		if t.IsIncome() {
			continue
		}
		key := NormalizeMerchant(t.Name)
		byMerchant[key] = append(byMerchant[key], t)
	}

	trackedNames := make(map[string]struct{}, len(tracked))
	for _, s := range tracked {
		trackedNames[NormalizeMerchant(s.ServiceName)] = struct{}{}
	}

	var out []model.DetectedSubscription
	for merchant, group := range byMerchant {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })

		cand, ok := scoreCandidate(merchant, group)
		if !ok || cand.Confidence < minDetectionConfidence {
			continue
		}
		if _, dup := trackedNames[merchant]; dup {
			cand.AlreadyTracked = true
		}
		out = append(out, cand)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Merchant < out[j].Merchant
	})
	return out
}

func scoreCandidate(merchant string, group []model.Transaction) (model.DetectedSubscription, bool) {
	gaps := make([]float64, 0, len(group)-1)
	for i := 1; i < len(group); i++ {
		gaps = append(gaps, group[i].Date.Sub(group[i-1].Date).Hours()/24)
	}

	meanGap, _ := meanStddev(gaps)
	freq, ok := classifyInterval(meanGap)
	if !ok {
		return model.DetectedSubscription{}, false
	}

	// Fraction of gaps that individually fit the detected cadence.
	matched := 0
	for _, g := range gaps {
		if f, ok := classifyInterval(g); ok && f == freq {
			matched++
		}
	}
	intervalScore := float64(matched) / float64(len(gaps))

	amounts := make([]float64, len(group))
	total := decimal.Zero
	for i, t := range group {
		amounts[i], _ = t.Amount.Float64()
		total = total.Add(t.Amount)
	}
	amountScore := amountConsistency(amounts)

	// More observed cycles, more certainty, capped.
	occurrenceBoost := math.Min(1.0, 0.7+0.1*float64(len(group)))

	confidence := intervalScore * amountScore * occurrenceBoost

	last := group[len(group)-1].Date
	avg := total.Div(decimal.NewFromInt(int64(len(group)))).Round(2)

	return model.DetectedSubscription{
		Merchant:      merchant,
		AverageAmount: avg,
		Frequency:     freq,
		Confidence:    confidence,
		Occurrences:   len(group),
		LastSeen:      last,
		ExpectedNext:  freq.Next(last),
	}, true
}

func classifyInterval(days float64) (model.Frequency, bool) {
	for _, w := range frequencyWindows {
		if days >= w.min && days <= w.max {
			return w.freq, true
		}
	}
	return "", false
}

// amountConsistency scores how stable the charge amount is, using the
// coefficient of variation. Flat pricing scores 1.0.
func amountConsistency(amounts []float64) float64 {
	mean, stddev := meanStddev(amounts)
	if mean == 0 {
		return 0
	}
	cv := stddev / mean
	switch {
	case cv < 0.01:
		return 1.0
	case cv < 0.05:
		return 0.9
	case cv < 0.15:
		return 0.7
	case cv < 0.30:
		return 0.4
	default:
		return 0.1
	}
}

// AdvanceDue emits ledger transactions for every active subscription
// whose next payment is due on or before now, advancing NextPayment
// past now. Watchlist entries are skipped. Returns the charges and the
// updated subscriptions (only those that changed).
func AdvanceDue(subs []model.Subscription, now time.Time, newID func() string) ([]model.Transaction, []model.Subscription) {
	var charges []model.Transaction
	var updated []model.Subscription

	for _, s := range subs {
		if !s.Active || s.Watchlist || s.NextPayment.IsZero() {
			continue
		}
		changed := false
		for !s.NextPayment.After(now) {
			charges = append(charges, model.Transaction{
				ID:        newID(),
				Date:      s.NextPayment,
				Name:      s.ServiceName,
				Amount:    s.Price,
				Category:  s.Category,
				Recurring: true,
				Source:    model.SourceRecurring,
			})
			s.NextPayment = s.Frequency.Next(s.NextPayment)
			changed = true
		}
		if changed {
			updated = append(updated, s)
		}
	}
	return charges, updated
}

// UpcomingPayments lists subscription renewals and debt minimums due
// within leadDays of now, soonest first.
func UpcomingPayments(subs []model.Subscription, debts []model.DebtAccount, now time.Time, leadDays int) []model.UpcomingPayment {
	horizon := now.AddDate(0, 0, leadDays)

	var out []model.UpcomingPayment
	for _, s := range subs {
		if !s.Active || s.NextPayment.IsZero() {
			continue
		}
		if s.NextPayment.After(horizon) || s.NextPayment.Before(now.AddDate(0, 0, -1)) {
			continue
		}
		out = append(out, model.UpcomingPayment{
			Due:    s.NextPayment,
			Name:   s.ServiceName,
			Amount: s.Price,
			Kind:   "subscription",
		})
	}
	for _, d := range debts {
		if d.MinimumPayment.IsZero() || d.Balance.IsZero() {
			continue
		}
		// Minimums fall on the first of next month.
		due := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
		if due.After(horizon) {
			continue
		}
		out = append(out, model.UpcomingPayment{
			Due:    due,
			Name:   d.Creditor,
			Amount: d.MinimumPayment,
			Kind:   "debt",
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Due.Equal(out[j].Due) {
			return out[i].Due.Before(out[j].Due)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
