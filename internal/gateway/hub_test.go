package gateway

import (
	"testing"
	"time"

	"tradewatch/internal/model"
)

func eventFor(alertID string) model.AlertFiredEvent {
	return model.AlertFiredEvent{
		AlertID:        alertID,
		OwnerID:        "user-1",
		Symbol:         "BTC/USDT",
		Type:           model.AlertPriceAbove,
		Message:        "BTC/USDT price crossed above $50000. Current: $50100.00",
		TriggeredPrice: 50100,
		TriggeredAt:    time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestHubBroadcast_SequencesAndRecords(t *testing.T) {
	h := NewHub(nil)

	h.broadcast(eventFor("a-1"))
	h.broadcast(eventFor("a-2"))

	if h.CurrentSeq() != 2 {
		t.Fatalf("expected seq 2, got %d", h.CurrentSeq())
	}

	entries := h.replay.After(0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 replay entries, got %d", len(entries))
	}
	if entries[0].Seq != 1 || entries[1].Seq != 2 {
		t.Errorf("expected seqs [1,2], got [%d,%d]", entries[0].Seq, entries[1].Seq)
	}
}

func TestClientWants_OwnerScoping(t *testing.T) {
	tests := []struct {
		name        string
		clientOwner string
		eventOwner  string
		want        bool
	}{
		{"unscoped client receives everything", "", "user-1", true},
		{"matching owner", "user-1", "user-1", true},
		{"foreign owner filtered", "user-1", "user-2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{ownerID: tt.clientOwner}
			if got := c.wants(tt.eventOwner); got != tt.want {
				t.Errorf("wants(%q) = %v, want %v", tt.eventOwner, got, tt.want)
			}
		})
	}
}
