package notify

import (
	"math"
	"testing"
	"time"
)

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		UpcomingCount: 1,
		AnomalyCount:  0,
		MonthSpend:    420.50,
	}
	curr := Snapshot{
		UpcomingCount: 3,
		AnomalyCount:  2,
		MonthSpend:    512.25,
		ChargesPosted: 1,
	}

	delta := diffSnapshots(prev, curr)
	if delta.UpcomingCount != 2 {
		t.Fatalf("UpcomingCount delta = %d, want 2", delta.UpcomingCount)
	}
	if delta.AnomalyCount != 2 {
		t.Fatalf("AnomalyCount delta = %d, want 2", delta.AnomalyCount)
	}
	if math.Abs(delta.MonthSpend-91.75) > 1e-9 {
		t.Fatalf("MonthSpend delta = %.2f, want 91.75", delta.MonthSpend)
	}
	if delta.ChargesPosted != 1 {
		t.Fatalf("ChargesPosted = %d, want 1", delta.ChargesPosted)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
}

func TestEventType(t *testing.T) {
	tests := []struct {
		name  string
		delta Delta
		want  string
	}{
		{"anomaly wins", Delta{AnomalyCount: 1, UpcomingCount: 1}, "anomaly_detected"},
		{"renewal", Delta{UpcomingCount: 1}, "renewal_upcoming"},
		{"posted charge", Delta{ChargesPosted: 2}, "renewal_upcoming"},
		{"spend only", Delta{MonthSpend: 12.5}, "ledger_delta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eventType(tt.delta); got != tt.want {
				t.Fatalf("eventType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		DataDir:      ".",
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestBuildSnapshot_EmptyLedger(t *testing.T) {
	s := New(Config{DataDir: t.TempDir()})

	snap, err := s.buildSnapshot(time.Now())
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	if snap.UpcomingCount != 0 || snap.AnomalyCount != 0 || snap.ChargesPosted != 0 {
		t.Fatalf("empty ledger snapshot = %+v", snap)
	}
}
