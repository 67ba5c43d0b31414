package catalog

import (
	"testing"

	"stationery-admin/internal/models"
)

func setProduct() *models.Product {
	return &models.Product{
		ID:    10,
		Name:  "First Year Kit",
		IsSet: true,
		SetItems: []models.SetItem{
			{ProductID: 10, ComponentID: 1, ComponentName: "Notebook", Quantity: 4, Position: 0},
			{ProductID: 10, ComponentID: 2, ComponentName: "Pen", Quantity: 2, Position: 1},
		},
	}
}

func TestExpandSynthesizesFreshComponents(t *testing.T) {
	item := models.TransactionItem{ProductID: 10, IsSet: true}

	got := ExpandComponents(item, setProduct())
	if len(got) != 2 {
		t.Fatalf("expected 2 components, got %d", len(got))
	}
	for _, c := range got {
		if !c.Taken || c.Reason != "" {
			t.Errorf("fresh component %q should default to taken with no reason, got taken=%t reason=%q", c.Name, c.Taken, c.Reason)
		}
	}
	if got[0].Name != "Notebook" || got[0].Quantity != 4 {
		t.Fatalf("first component not seeded from catalog: %+v", got[0])
	}
}

func TestExpandRepairsMissingNameButPreservesTaken(t *testing.T) {
	item := models.TransactionItem{
		ProductID: 10,
		IsSet:     true,
		Components: []models.SetComponent{
			{ProductID: 1, Name: "", Quantity: 4, Taken: false, Reason: "out of stock"},
		},
	}

	got := ExpandComponents(item, setProduct())
	if len(got) != 1 {
		t.Fatalf("expected 1 component, got %d", len(got))
	}
	if got[0].Name != "Notebook" {
		t.Fatalf("missing name not repaired from catalog, got %q", got[0].Name)
	}
	if got[0].Taken {
		t.Fatalf("repair must not overwrite the saved taken state")
	}
	if got[0].Reason != "out of stock" {
		t.Fatalf("repair must not clear the saved reason, got %q", got[0].Reason)
	}
}

func TestExpandNeverOverwritesExistingValues(t *testing.T) {
	// The transaction recorded "Old Pen" x3 at sale time; the catalog has
	// since been renamed. History wins.
	item := models.TransactionItem{
		ProductID: 10,
		IsSet:     true,
		Components: []models.SetComponent{
			{ProductID: 2, Name: "Old Pen", Quantity: 3, Taken: true},
		},
	}

	got := ExpandComponents(item, setProduct())
	if got[0].Name != "Old Pen" || got[0].Quantity != 3 {
		t.Fatalf("saved snapshot was overwritten by catalog values: %+v", got[0])
	}
}

func TestExpandDefaultsWhenCatalogCannotResolve(t *testing.T) {
	item := models.TransactionItem{
		ProductID: 10,
		IsSet:     true,
		Components: []models.SetComponent{
			{ProductID: 99}, // not in the catalog set anymore
		},
	}

	got := ExpandComponents(item, setProduct())
	if got[0].Name != UnknownComponentName {
		t.Fatalf("unresolvable component should render as %q, got %q", UnknownComponentName, got[0].Name)
	}
	if got[0].Quantity != 1 {
		t.Fatalf("unresolvable component should default quantity to 1, got %d", got[0].Quantity)
	}
}

func TestExpandWithNilCatalogProduct(t *testing.T) {
	empty := models.TransactionItem{ProductID: 10, IsSet: true}
	if got := ExpandComponents(empty, nil); got != nil {
		t.Fatalf("nothing to synthesize from, got %+v", got)
	}

	saved := models.TransactionItem{
		ProductID: 10,
		IsSet:     true,
		Components: []models.SetComponent{
			{ProductID: 1, Name: "Notebook", Quantity: 2, Taken: true},
		},
	}
	got := ExpandComponents(saved, nil)
	if len(got) != 1 || got[0].Name != "Notebook" {
		t.Fatalf("saved components should survive a missing catalog product: %+v", got)
	}
}
