package ledger

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/finsight/finsight/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnomalyOptions tunes the detection pass.
type AnomalyOptions struct {
	// Sensitivity in [0, 1]. Higher flags more. The z-score threshold
	// is 3.0 - 2.0*sensitivity, so the 0.5 default flags beyond 2
	// standard deviations.
	Sensitivity float64
	// MinSamples is the minimum category history before z-scores are
	// trusted. Defaults to 5.
	MinSamples int
	// DuplicateWindow is how close two equal charges must be to count
	// as a duplicate. Defaults to 3 days.
	DuplicateWindow time.Duration
	// Now anchors DetectedAt stamps; zero means time.Now.
	Now time.Time
}

func (o AnomalyOptions) threshold() float64 {
	s := o.Sensitivity
	if s <= 0 || s > 1 {
		s = 0.5
	}
	return 3.0 - 2.0*s
}

func (o AnomalyOptions) minSamples() int {
	if o.MinSamples <= 0 {
		return 5
	}
	return o.MinSamples
}

func (o AnomalyOptions) dupWindow() time.Duration {
	if o.DuplicateWindow <= 0 {
		return 72 * time.Hour
	}
	return o.DuplicateWindow
}

func (o AnomalyOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// DetectAnomalies flags spikes, duplicate charges, and first-time
// merchants in the given window. Spikes compare each expense against
// the mean and standard deviation of its own category. Results are
// sorted by severity then amount.
func DetectAnomalies(txs []model.Transaction, since, until time.Time, opts AnomalyOptions) []model.Anomaly {
	window := FilterByTime(txs, since, until)
	detectedAt := opts.now()

	var anomalies []model.Anomaly
	anomalies = append(anomalies, detectSpikes(window, opts, detectedAt)...)
	anomalies = append(anomalies, detectDuplicates(window, opts, detectedAt)...)
	anomalies = append(anomalies, detectNewMerchants(window, detectedAt)...)

	sort.Slice(anomalies, func(i, j int) bool {
		ri, rj := model.SeverityRank(anomalies[i].Severity), model.SeverityRank(anomalies[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return anomalies[i].Amount.GreaterThan(anomalies[j].Amount)
	})
	return anomalies
}

func detectSpikes(txs []model.Transaction, opts AnomalyOptions, detectedAt time.Time) []model.Anomaly {
	byCat := make(map[string][]model.Transaction)
	for _, t := range txs {
		if t.IsIncome() {
			continue
		}
		byCat[t.Category] = append(byCat[t.Category], t)
	}

	threshold := opts.threshold()
	var out []model.Anomaly

	for cat, group := range byCat {
		if len(group) < opts.minSamples() {
			continue
		}

		values := make([]float64, len(group))
		for i, t := range group {
			values[i], _ = t.Amount.Float64()
		}
		mean, stddev := meanStddev(values)
		if stddev == 0 {
			continue
		}

		for i, t := range group {
			z := (values[i] - mean) / stddev
			if z <= threshold {
				continue
			}
			out = append(out, model.Anomaly{
				ID:             uuid.NewString(),
				TransactionID:  t.ID,
				Kind:           model.AnomalySpike,
				Severity:       spikeSeverity(z, threshold),
				ZScore:         z,
				ExpectedAmount: decimal.NewFromFloat(mean).Round(2),
				Amount:         t.Amount,
				Category:       cat,
				Name:           t.Name,
				Date:           t.Date,
				DetectedAt:     detectedAt,
			})
		}
	}
	return out
}

func spikeSeverity(z, threshold float64) string {
	switch {
	case z > 3.0:
		return model.SeverityHigh
	case z > 2.5:
		return model.SeverityMedium
	case z > threshold:
		return model.SeverityLow
	}
	return model.SeverityLow
}

// detectDuplicates flags the later charge when the same merchant bills
// the same amount twice within the window.
func detectDuplicates(txs []model.Transaction, opts AnomalyOptions, detectedAt time.Time) []model.Anomaly {
	byMerchant := make(map[string][]model.Transaction)
	for _, t := range txs {
		if t.IsIncome() {
			continue
		}
		byMerchant[NormalizeMerchant(t.Name)] = append(byMerchant[NormalizeMerchant(t.Name)], t)
	}

	window := opts.dupWindow()
	var out []model.Anomaly

	for _, group := range byMerchant {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })

		for i := 1; i < len(group); i++ {
			prev, curr := group[i-1], group[i]
			if !curr.Amount.Equal(prev.Amount) {
				continue
			}
			// Recurring charges legitimately repeat; only tight gaps count.
			if curr.Date.Sub(prev.Date) > window || curr.Recurring {
				continue
			}
			out = append(out, model.Anomaly{
				ID:             uuid.NewString(),
				TransactionID:  curr.ID,
				Kind:           model.AnomalyDuplicate,
				Severity:       model.SeverityMedium,
				ExpectedAmount: curr.Amount,
				Amount:         curr.Amount,
				Category:       curr.Category,
				Name:           curr.Name,
				Date:           curr.Date,
				DetectedAt:     detectedAt,
			})
		}
	}
	return out
}

// detectNewMerchants flags merchants seen exactly once in the window.
func detectNewMerchants(txs []model.Transaction, detectedAt time.Time) []model.Anomaly {
	counts := make(map[string][]model.Transaction)
	for _, t := range txs {
		if t.IsIncome() {
			continue
		}
		key := NormalizeMerchant(t.Name)
		counts[key] = append(counts[key], t)
	}

	var out []model.Anomaly
	for _, group := range counts {
		if len(group) != 1 {
			continue
		}
		t := group[0]
		out = append(out, model.Anomaly{
			ID:             uuid.NewString(),
			TransactionID:  t.ID,
			Kind:           model.AnomalyNewMerchant,
			Severity:       model.SeverityLow,
			ExpectedAmount: t.Amount,
			Amount:         t.Amount,
			Category:       t.Category,
			Name:           t.Name,
			Date:           t.Date,
			DetectedAt:     detectedAt,
		})
	}
	return out
}

// NormalizeMerchant canonicalizes a merchant name for grouping:
// lowercase, trailing reference digits and store numbers stripped.
func NormalizeMerchant(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimRight(s, "#0123456789 ")
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func meanStddev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}
