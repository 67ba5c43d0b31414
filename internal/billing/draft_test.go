package billing

import (
	"math"
	"testing"

	"stationery-admin/internal/models"
)

var (
	notebook = models.Product{ID: 1, Name: "Notebook", Price: 50, Stock: 10, ForCourse: "b.tech", Years: []int{1}}
	pen      = models.Product{ID: 2, Name: "Pen", Price: 10, Stock: 7}
	kit      = models.Product{ID: 3, Name: "First Year Kit", Price: 90, IsSet: true}
)

func testStudent() models.Student {
	return models.Student{ID: 5, Course: "b.tech", Year: 1, Branch: "CSE"}
}

func TestSetQuantityIsBinary(t *testing.T) {
	d := NewDraft(testStudent())

	d.AddItem(kit, 1)
	d.AddItem(kit, 1)
	d.AddItem(kit, 5)
	if got := d.Quantity(kit.ID); got != 1 {
		t.Fatalf("repeated adds on a set should stay at 1, got %d", got)
	}

	// Delta-based decrement is also rejected for sets
	d.AddItem(kit, -1)
	if got := d.Quantity(kit.ID); got != 1 {
		t.Fatalf("delta decrement on a set should be a no-op, got %d", got)
	}

	d.RemoveItem(kit.ID)
	if got := d.Quantity(kit.ID); got != 0 {
		t.Fatalf("removed set should be absent, got quantity %d", got)
	}
}

func TestNonSetQuantityClampsToStock(t *testing.T) {
	d := NewDraft(testStudent())

	d.AddItem(pen, pen.Stock+10)
	if got := d.Quantity(pen.ID); got != 7 {
		t.Fatalf("quantity should clamp to stock 7, got %d", got)
	}

	d.AddItem(pen, -100)
	if got := d.Quantity(pen.ID); got != 0 {
		t.Fatalf("negative clamp should floor at 0, got %d", got)
	}
	if !d.IsEmpty() {
		t.Fatalf("a line clamped to zero must be removed, not stored as zero")
	}
}

func TestSetQuantityAbsolute(t *testing.T) {
	d := NewDraft(testStudent())

	d.SetQuantity(pen, 5)
	if got := d.Quantity(pen.ID); got != 5 {
		t.Fatalf("SetQuantity(5) gave %d", got)
	}
	d.SetQuantity(pen, 2)
	if got := d.Quantity(pen.ID); got != 2 {
		t.Fatalf("SetQuantity down to 2 gave %d", got)
	}
	d.SetQuantity(pen, 0)
	if got := d.Quantity(pen.ID); got != 0 {
		t.Fatalf("SetQuantity(0) should remove the line, got %d", got)
	}
}

func TestDraftTotalAndMappedKeys(t *testing.T) {
	d := NewDraft(testStudent())

	d.AddItem(notebook, 3)
	d.AddItem(kit, 1)

	want := 3*50.0 + 90.0
	if got := d.Total(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("draft total = %v, want %v", got, want)
	}

	products := map[uint]models.Product{notebook.ID: notebook, pen.ID: pen, kit.ID: kit}
	keys := d.MappedKeys(products)
	if len(keys) != 1 || keys[0] != "notebook" {
		t.Fatalf("only the course-mapped notebook should flag, got %v", keys)
	}
}

func TestMappedItemKeysFromReplayedItems(t *testing.T) {
	student := testStudent()
	products := map[uint]models.Product{notebook.ID: notebook, pen.ID: pen, kit.ID: kit}

	items := []models.TransactionItem{
		{ProductID: notebook.ID, Name: "Notebook", Quantity: 2},
		{ProductID: pen.ID, Name: "Pen", Quantity: 5},
		{ProductID: 99, Name: "Ghost", Quantity: 1}, // product no longer in catalog
	}

	keys := MappedItemKeys(items, products, student)
	if len(keys) != 1 || keys[0] != "notebook" {
		t.Fatalf("replayed items should flag only the course-mapped notebook, got %v", keys)
	}

	// A different course flags nothing
	student.Course = "bca"
	if keys := MappedItemKeys(items, products, student); len(keys) != 0 {
		t.Fatalf("no keys expected for an unmapped course, got %v", keys)
	}
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	d := NewDraft(testStudent())
	d.AddItem(pen, 2)
	d.AddItem(notebook, 1)
	d.AddItem(kit, 1)
	d.RemoveItem(pen.ID)

	lines := d.Lines()
	if len(lines) != 2 || lines[0].ProductID != notebook.ID || lines[1].ProductID != kit.ID {
		t.Fatalf("unexpected line order after removal: %+v", lines)
	}
}

func TestTotalAccumulatesBeforeRounding(t *testing.T) {
	d := NewDraft(testStudent())
	cheap := models.Product{ID: 9, Name: "Sticker", Price: 0.1, Stock: 1000}
	d.AddItem(cheap, 3)

	// 3 * 0.1 is not exactly 0.3 in floats; the raw total carries that
	// and rendering rounds once at the end
	if got := d.Total(); math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("accumulated total drifted: %v", got)
	}
}
