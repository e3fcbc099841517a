// Package notify provides the long-running reminder daemon: it posts
// due recurring charges, watches for upcoming renewals and anomalies,
// and serves them over a local HTTP API.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/ledger"
	"github.com/finsight/finsight/internal/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir      string
	LeadDays     int
	Sensitivity  float64
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       zerolog.Logger
}

// Reminder is one upcoming payment in a snapshot.
type Reminder struct {
	Due    time.Time `json:"due"`
	Name   string    `json:"name"`
	Amount string    `json:"amount"`
	Kind   string    `json:"kind"`
}

// Snapshot is the compact ledger state served in status and events.
type Snapshot struct {
	At            time.Time  `json:"at"`
	UpcomingCount int        `json:"upcoming_count"`
	UpcomingTotal float64    `json:"upcoming_total"`
	AnomalyCount  int        `json:"anomaly_count"`
	MonthSpend    float64    `json:"month_spend"`
	ChargesPosted int        `json:"charges_posted"`
	Reminders     []Reminder `json:"reminders,omitempty"`
}

// Delta captures snapshot changes between polls.
type Delta struct {
	UpcomingCount int     `json:"upcoming_count"`
	AnomalyCount  int     `json:"anomaly_count"`
	MonthSpend    float64 `json:"month_spend"`
	ChargesPosted int     `json:"charges_posted"`
}

func (d Delta) isZero() bool {
	return d.UpcomingCount == 0 &&
		d.AnomalyCount == 0 &&
		d.MonthSpend == 0 &&
		d.ChargesPosted == 0
}

// Event is emitted whenever the ledger snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataDir         string    `json:"data_dir"`
	LeadDays        int       `json:"lead_days"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log zerolog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new reminder daemon with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7313"
	}
	if cfg.LeadDays < 1 {
		cfg.LeadDays = 3
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info().Str("addr", s.cfg.Addr).Dur("interval", s.cfg.Interval).Msg("reminder daemon started")

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	now := time.Now()
	snap, err := s.buildSnapshot(now)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("poll failed")
		return
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      eventType(delta),
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
		s.log.Info().
			Str("type", ev.Type).
			Int("upcoming", snap.UpcomingCount).
			Int("anomalies", snap.AnomalyCount).
			Msg("published event")
	}
}

// buildSnapshot posts due recurring charges, then computes the
// reminder state from the ledger.
func (s *Service) buildSnapshot(now time.Time) (Snapshot, error) {
	db, err := store.Open(store.DBPath(s.cfg.DataDir))
	if err != nil {
		return Snapshot{}, fmt.Errorf("opening ledger: %w", err)
	}
	defer func() { _ = db.Close() }()

	subs, err := db.ListSubscriptions()
	if err != nil {
		return Snapshot{}, fmt.Errorf("listing subscriptions: %w", err)
	}

	// Post charges that came due since the last poll. Fingerprint
	// dedup in the store makes this idempotent across restarts.
	charges, updated := ledger.AdvanceDue(subs, now, uuid.NewString)
	posted := 0
	if len(charges) > 0 {
		for i := range charges {
			if charges[i].Category == "" {
				charges[i].Category = config.CategoryFallback
			}
		}
		posted, err = db.InsertTransactions(charges)
		if err != nil {
			return Snapshot{}, fmt.Errorf("posting recurring charges: %w", err)
		}
		for _, u := range updated {
			if err := db.SaveSubscription(u); err != nil {
				return Snapshot{}, fmt.Errorf("advancing subscription %s: %w", u.ID, err)
			}
		}
		subs, err = db.ListSubscriptions()
		if err != nil {
			return Snapshot{}, fmt.Errorf("relisting subscriptions: %w", err)
		}
	}

	debts, err := db.ListDebts()
	if err != nil {
		return Snapshot{}, fmt.Errorf("listing debts: %w", err)
	}
	txs, err := db.ListTransactions(now.AddDate(0, 0, -90), now)
	if err != nil {
		return Snapshot{}, fmt.Errorf("listing transactions: %w", err)
	}

	anomalies := ledger.DetectAnomalies(txs, now.AddDate(0, 0, -90), now, ledger.AnomalyOptions{
		Sensitivity: s.cfg.Sensitivity,
		Now:         now,
	})
	if err := db.ReplaceAnomalies(anomalies); err != nil {
		return Snapshot{}, fmt.Errorf("storing anomalies: %w", err)
	}

	upcoming := ledger.UpcomingPayments(subs, debts, now, s.cfg.LeadDays)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	summary := ledger.Summarize(txs, nil, monthStart, now)

	snap := Snapshot{
		At:            now,
		UpcomingCount: len(upcoming),
		AnomalyCount:  len(anomalies),
		ChargesPosted: posted,
	}
	monthSpend, _ := summary.Expenses.Float64()
	snap.MonthSpend = monthSpend
	for _, up := range upcoming {
		amt, _ := up.Amount.Float64()
		snap.UpcomingTotal += amt
		snap.Reminders = append(snap.Reminders, Reminder{
			Due:    up.Due,
			Name:   up.Name,
			Amount: up.Amount.StringFixed(2),
			Kind:   up.Kind,
		})
	}
	return snap, nil
}

func eventType(d Delta) string {
	switch {
	case d.AnomalyCount > 0:
		return "anomaly_detected"
	case d.UpcomingCount > 0 || d.ChargesPosted > 0:
		return "renewal_upcoming"
	default:
		return "ledger_delta"
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		UpcomingCount: curr.UpcomingCount - prev.UpcomingCount,
		AnomalyCount:  curr.AnomalyCount - prev.AnomalyCount,
		MonthSpend:    curr.MonthSpend - prev.MonthSpend,
		ChargesPosted: curr.ChargesPosted,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataDir:         s.cfg.DataDir,
		LeadDays:        s.cfg.LeadDays,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
