package billing

import (
	"testing"
	"time"

	"stationery-admin/internal/models"
)

func confirmedTx(id uint, date time.Time) models.Transaction {
	return models.Transaction{
		ID:            id,
		StudentID:     5,
		PaymentMethod: "cash",
		IsPaid:        true,
		TotalAmount:   150.00,
		Items: []models.TransactionItem{
			{Name: "Notebook", Quantity: 2, Price: 50, Total: 100},
			{Name: "Pen", Quantity: 5, Price: 10, Total: 50},
		},
		TransactionDate: date,
	}
}

func TestSignatureIgnoresItemOrder(t *testing.T) {
	a := confirmedTx(1, time.Now())
	b := confirmedTx(2, time.Now().Add(time.Hour))
	b.Items = []models.TransactionItem{b.Items[1], b.Items[0]}

	if Signature(a) != Signature(b) {
		t.Fatalf("signatures differ on item order:\n%s\n%s", Signature(a), Signature(b))
	}
}

func TestSignatureRecomputesMissingLineTotal(t *testing.T) {
	a := confirmedTx(1, time.Now())
	b := confirmedTx(2, time.Now())
	b.Items[0].Total = 0 // stored without a total; quantity*price must stand in

	if Signature(a) != Signature(b) {
		t.Fatalf("missing line total changed the signature")
	}
}

func TestSignatureDistinguishesContent(t *testing.T) {
	a := confirmedTx(1, time.Now())

	b := confirmedTx(2, time.Now())
	b.PaymentMethod = "online"
	if Signature(a) == Signature(b) {
		t.Fatalf("payment method should be part of the signature")
	}

	c := confirmedTx(3, time.Now())
	c.IsPaid = false
	if Signature(a) == Signature(c) {
		t.Fatalf("paid flag should be part of the signature")
	}

	d := confirmedTx(4, time.Now())
	d.Items[1].Quantity = 6
	if Signature(a) == Signature(d) {
		t.Fatalf("item quantity should be part of the signature")
	}
}

func TestMergeSuppressesSyncedDuplicates(t *testing.T) {
	now := time.Now()
	confirmed := []models.Transaction{confirmedTx(1, now)}

	queued := []QueueEntry{{
		ID:        "pending-1700000000000-abcd1234",
		CreatedAt: now.Add(-time.Minute),
		Payload: QueuePayload{
			StudentID:     5,
			PaymentMethod: "cash",
			IsPaid:        true,
			TotalAmount:   150.00,
			Items: []models.TransactionItem{
				{Name: "Pen", Quantity: 5, Price: 10, Total: 50},
				{Name: "Notebook", Quantity: 2, Price: 50, Total: 100},
			},
		},
	}}

	merged := MergeForDisplay(confirmed, queued)
	if len(merged) != 1 {
		t.Fatalf("expected exactly one entry after dedup, got %d", len(merged))
	}
	if merged[0].IsPending {
		t.Fatalf("the confirmed copy must win over the queued one")
	}
}

func TestMergeKeepsUnsyncedEntries(t *testing.T) {
	now := time.Now()
	confirmed := []models.Transaction{confirmedTx(1, now)}

	queued := []QueueEntry{{
		ID:        "pending-1700000000000-ffff0000",
		CreatedAt: now.Add(time.Minute),
		Payload: QueuePayload{
			StudentID:     5,
			PaymentMethod: "cash",
			IsPaid:        false,
			TotalAmount:   10,
			Items:         []models.TransactionItem{{Name: "Eraser", Quantity: 1, Price: 10, Total: 10}},
		},
	}}

	merged := MergeForDisplay(confirmed, queued)
	if len(merged) != 2 {
		t.Fatalf("unsynced queued entry was dropped, got %d entries", len(merged))
	}
	if !merged[0].IsPending || merged[0].LocalID != "pending-1700000000000-ffff0000" {
		t.Fatalf("newest entry should be the pending one, got %+v", merged[0])
	}
}

func TestMergeSortsDescendingByEffectiveDate(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	a := confirmedTx(1, jan)
	b := confirmedTx(2, mar)
	b.Items[0].Quantity = 3 // distinct content so nothing collides
	c := confirmedTx(3, feb)
	c.Items[0].Quantity = 4

	merged := MergeForDisplay([]models.Transaction{a, b, c}, nil)
	want := []uint{2, 3, 1}
	for i, id := range want {
		if merged[i].ID != id {
			t.Fatalf("position %d: got transaction %d, want %d", i, merged[i].ID, id)
		}
	}
}

func TestMergeDateFallbacks(t *testing.T) {
	dated := confirmedTx(1, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	createdOnly := confirmedTx(2, time.Time{})
	createdOnly.Items[0].Quantity = 3
	createdOnly.CreatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	undated := confirmedTx(3, time.Time{})
	undated.Items[0].Quantity = 4

	merged := MergeForDisplay([]models.Transaction{undated, dated, createdOnly}, nil)
	want := []uint{2, 1, 3} // created_at fallback, then dated, undated sinks to epoch
	for i, id := range want {
		if merged[i].ID != id {
			t.Fatalf("position %d: got transaction %d, want %d", i, merged[i].ID, id)
		}
	}
}
