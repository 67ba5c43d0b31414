package billing

import (
	"strings"
	"testing"
	"time"

	"stationery-admin/internal/models"
)

func TestNewQueueEntryID(t *testing.T) {
	entry := NewQueueEntry(QueuePayload{StudentID: 5})

	if !strings.HasPrefix(entry.ID, "pending-") {
		t.Fatalf("queue entry id should be locally generated with a pending prefix, got %q", entry.ID)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatalf("queue entry must record its creation time")
	}

	other := NewQueueEntry(QueuePayload{StudentID: 5})
	if entry.ID == other.ID {
		t.Fatalf("two entries generated the same id: %q", entry.ID)
	}
}

func TestQueueFiltersByStudent(t *testing.T) {
	q := NewQueue()
	q.Add(NewQueueEntry(QueuePayload{StudentID: 1}))
	q.Add(NewQueueEntry(QueuePayload{StudentID: 2}))
	q.Add(NewQueueEntry(QueuePayload{StudentID: 1}))

	if got := len(q.ForStudent(1)); got != 2 {
		t.Fatalf("expected 2 entries for student 1, got %d", got)
	}
	if got := len(q.ForStudent(3)); got != 0 {
		t.Fatalf("expected no entries for student 3, got %d", got)
	}
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()
	entry := NewQueueEntry(QueuePayload{StudentID: 1})
	q.Add(entry)

	q.Remove("pending-0-notreal")
	if q.Len() != 1 {
		t.Fatalf("removing an unknown id should be a no-op")
	}

	q.Remove(entry.ID)
	if q.Len() != 0 {
		t.Fatalf("entry was not removed")
	}
}

func TestHeldEntriesSurfaceInMergedHistory(t *testing.T) {
	now := time.Now()
	q := NewQueue()

	landed := NewQueueEntry(QueuePayload{
		StudentID:     5,
		PaymentMethod: "cash",
		IsPaid:        true,
		TotalAmount:   150.00,
		Items: []models.TransactionItem{
			{Name: "Notebook", Quantity: 2, Price: 50, Total: 100},
			{Name: "Pen", Quantity: 5, Price: 10, Total: 50},
		},
	})
	stuck := NewQueueEntry(QueuePayload{
		StudentID:   5,
		TotalAmount: 10,
		Items:       []models.TransactionItem{{Name: "Eraser", Quantity: 1, Price: 10, Total: 10}},
	})
	q.Add(landed)
	q.Add(stuck)

	// The first entry replays successfully and leaves the queue
	confirmed := []models.Transaction{confirmedTx(1, now)}
	q.Remove(landed.ID)

	merged := MergeForDisplay(confirmed, q.ForStudent(5))
	if len(merged) != 2 {
		t.Fatalf("expected the confirmed row plus the held entry, got %d", len(merged))
	}
	var pending int
	for _, tx := range merged {
		if tx.IsPending {
			pending++
			if tx.LocalID != stuck.ID {
				t.Fatalf("wrong entry shown as pending: %+v", tx)
			}
		}
	}
	if pending != 1 {
		t.Fatalf("exactly the held entry should render pending, got %d", pending)
	}
}

func TestToDisplayShape(t *testing.T) {
	entry := NewQueueEntry(QueuePayload{
		StudentID:     5,
		PaymentMethod: "cash",
		IsPaid:        true,
		TotalAmount:   60,
		Items:         []models.TransactionItem{{Name: "Pen", Quantity: 6, Price: 10, Total: 60}},
	})

	display := entry.ToDisplay()
	if !display.IsPending || display.LocalID != entry.ID {
		t.Fatalf("display record should be flagged pending with the local id, got %+v", display)
	}
	if display.TransactionDate != entry.CreatedAt {
		t.Fatalf("display record should be dated at queue creation")
	}
	if display.TotalAmount != 60 || len(display.Items) != 1 {
		t.Fatalf("payload content lost in conversion: %+v", display)
	}
}
