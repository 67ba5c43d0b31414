package billing

import (
	"testing"

	"stationery-admin/internal/models"
)

func kitTransaction() models.Transaction {
	return models.Transaction{
		ID:        7,
		StudentID: 5,
		Items: []models.TransactionItem{
			{
				ProductID: 3,
				Name:      "First Year Kit",
				Quantity:  1,
				IsSet:     true,
				Status:    StatusPartial,
				Components: []models.SetComponent{
					{ProductID: 1, Name: "Notebook", Quantity: 4, Taken: true},
					{ProductID: 2, Name: "Pen", Quantity: 2, Taken: false, Reason: "out of stock"},
				},
			},
			{ProductID: 9, Name: "Eraser", Quantity: 1, Price: 5, Total: 5, Status: StatusFulfilled},
		},
	}
}

func TestMarkComponentTaken(t *testing.T) {
	tx := kitTransaction()

	rebuilt, err := MarkComponentTaken(tx, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rebuilt) != 2 {
		t.Fatalf("full item list must be rebuilt, got %d items", len(rebuilt))
	}

	comp := rebuilt[0].Components[1]
	if !comp.Taken || comp.Reason != "" {
		t.Fatalf("target component not flipped: %+v", comp)
	}
	if rebuilt[0].Status != StatusFulfilled {
		t.Fatalf("all components taken, status should be fulfilled, got %q", rebuilt[0].Status)
	}

	// Untouched line passes through unchanged
	if rebuilt[1].Name != "Eraser" || rebuilt[1].Status != StatusFulfilled {
		t.Fatalf("unrelated line was mutated: %+v", rebuilt[1])
	}
}

func TestMarkComponentTakenDoesNotMutateInput(t *testing.T) {
	tx := kitTransaction()

	if _, err := MarkComponentTaken(tx, 3, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.Items[0].Components[1].Taken {
		t.Fatalf("input transaction was mutated in place")
	}
}

func TestMarkAlreadyTakenIsANoOp(t *testing.T) {
	tx := kitTransaction()

	rebuilt, err := MarkComponentTaken(tx, 3, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comp := rebuilt[0].Components[0]
	if !comp.Taken || comp.Reason != "" {
		t.Fatalf("already-taken component should stay taken with reason cleared: %+v", comp)
	}
	// The pen is still not taken, so the line stays partial
	if rebuilt[0].Status != StatusPartial {
		t.Fatalf("status should remain partial, got %q", rebuilt[0].Status)
	}
}

func TestMarkComponentTakenUnresolvedIdentifiers(t *testing.T) {
	tx := kitTransaction()

	if _, err := MarkComponentTaken(tx, 99, 1); err == nil {
		t.Fatalf("expected an error for an unknown line item product id")
	}
	if _, err := MarkComponentTaken(tx, 3, 99); err == nil {
		t.Fatalf("expected an error for an unknown component product id")
	}
	// A non-set line can't be a target even if the product id matches
	if _, err := MarkComponentTaken(tx, 9, 1); err == nil {
		t.Fatalf("expected an error when targeting a non-set line")
	}
}

func TestItemStatusDerivation(t *testing.T) {
	all := []models.SetComponent{{Taken: true}, {Taken: true}}
	if got := ItemStatus(all); got != StatusFulfilled {
		t.Fatalf("all taken should be fulfilled, got %q", got)
	}
	some := []models.SetComponent{{Taken: true}, {Taken: false}}
	if got := ItemStatus(some); got != StatusPartial {
		t.Fatalf("one missing should be partial, got %q", got)
	}
}
