package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopalmandloi007/tradedeck/internal/orders"
)

func newTestJournal(t *testing.T) *JournalStore {
	t.Helper()
	store, err := NewJournalStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewJournalStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestJournalRecordAndRecent(t *testing.T) {
	store := newTestJournal(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC)
	entries := []orders.JournalEntry{
		{Time: base, Broker: "fyers", Action: "place", Symbol: "NSE:SBIN-EQ", OrderID: "1", Accepted: true, Message: "placed"},
		{Time: base.Add(time.Minute), Broker: "fyers", Action: "cancel", Symbol: "NSE:SBIN-EQ", OrderID: "1", Accepted: true, Message: "cancelled"},
		{Time: base.Add(2 * time.Minute), Broker: "definedge", Action: "exit", Symbol: "TCS-EQ", Accepted: false, Message: "RMS:Blocked"},
	}
	for _, e := range entries {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Action != "exit" || got[0].Accepted {
		t.Fatalf("newest entry = %+v", got[0])
	}
	if got[0].Message != "RMS:Blocked" {
		t.Fatalf("message = %q", got[0].Message)
	}
	if got[2].Action != "place" || !got[2].Accepted {
		t.Fatalf("oldest entry = %+v", got[2])
	}
}

func TestJournalRecentLimit(t *testing.T) {
	store := newTestJournal(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.Record(ctx, orders.JournalEntry{
			Time: base.Add(time.Duration(i) * time.Second), Broker: "fyers", Action: "place", Accepted: true,
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
}
