package csvio

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/finsight/finsight/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// legacySubscription accepts both current and legacy field names from
// exported blobs: cost became price, billingCycle became frequency.
type legacySubscription struct {
	ID           string           `json:"id"`
	ServiceName  string           `json:"serviceName"`
	Name         string           `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	Cost         *decimal.Decimal `json:"cost"`
	Frequency    string           `json:"frequency"`
	BillingCycle string           `json:"billingCycle"`
	NextPayment  string           `json:"nextPayment"`
	Active       *bool            `json:"active"`
	Watchlist    bool             `json:"watchlist"`
	Category     string           `json:"category"`
	PaymentCard  string           `json:"paymentCard"`
}

// ReadSubscriptionsJSON parses a subscriptions export, migrating legacy
// field names. Rows with no usable price are skipped and counted.
func ReadSubscriptionsJSON(r io.Reader) ([]model.Subscription, int, error) {
	var raw []legacySubscription
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("decoding subscriptions: %w", err)
	}

	var out []model.Subscription
	skipped := 0
	for _, ls := range raw {
		sub, ok := ls.migrate()
		if !ok {
			skipped++
			continue
		}
		out = append(out, sub)
	}
	return out, skipped, nil
}

func (ls legacySubscription) migrate() (model.Subscription, bool) {
	var price decimal.Decimal
	switch {
	case ls.Price != nil:
		price = *ls.Price
	case ls.Cost != nil:
		price = *ls.Cost
	default:
		return model.Subscription{}, false
	}

	name := ls.ServiceName
	if name == "" {
		name = ls.Name
	}
	if name == "" {
		return model.Subscription{}, false
	}

	freq := model.Frequency(ls.Frequency)
	if !freq.Valid() {
		freq = model.Frequency(ls.BillingCycle)
	}
	if !freq.Valid() {
		freq = model.FreqMonthly
	}

	id := ls.ID
	if id == "" {
		id = uuid.NewString()
	}
	active := true
	if ls.Active != nil {
		active = *ls.Active
	}

	next, _ := time.Parse("2006-01-02", ls.NextPayment)

	return model.Subscription{
		ID:          id,
		ServiceName: name,
		Price:       price,
		Frequency:   freq,
		NextPayment: next,
		Active:      active,
		Watchlist:   ls.Watchlist,
		Category:    ls.Category,
		PaymentCard: ls.PaymentCard,
		CreatedAt:   time.Now(),
	}, true
}
