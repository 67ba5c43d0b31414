package billing

import (
	"stationery-admin/internal/catalog"
	"stationery-admin/internal/models"
)

// DraftLine is one entry in an in-progress order. Price and name are
// snapshots of the product at the moment it was added.
type DraftLine struct {
	ProductID uint
	Name      string
	Price     float64
	Quantity  int
	IsSet     bool
}

// Draft accumulates a student's selected items before submission.
// Representation is sparse: a product that isn't in the draft has
// quantity zero, and setting a line to zero removes it entirely.
type Draft struct {
	Student models.Student
	lines   map[uint]*DraftLine
	order   []uint // insertion order, so receipts list items as picked
}

func NewDraft(student models.Student) *Draft {
	return &Draft{
		Student: student,
		lines:   make(map[uint]*DraftLine),
	}
}

// AddItem applies a quantity delta for a product.
//
// Set products are binary: the only valid interaction is adding one (when
// absent) or removing via RemoveItem. Any delta on an existing set line,
// or a non-positive delta on an absent one, is a no-op.
//
// Non-set quantities are clamped to [0, stock]; a clamp down to zero
// removes the line.
func (d *Draft) AddItem(p models.Product, delta int) {
	line, exists := d.lines[p.ID]

	if p.IsSet {
		if exists || delta <= 0 {
			return
		}
		d.insert(&DraftLine{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 1, IsSet: true})
		return
	}

	current := 0
	if exists {
		current = line.Quantity
	}
	next := clamp(current+delta, 0, p.Stock)
	if next == 0 {
		d.RemoveItem(p.ID)
		return
	}
	if exists {
		line.Quantity = next
		return
	}
	d.insert(&DraftLine{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: next})
}

// SetQuantity sets an absolute quantity for a non-set product, with the
// same clamping rules as AddItem. Ignored for sets.
func (d *Draft) SetQuantity(p models.Product, qty int) {
	if p.IsSet {
		return
	}
	if line, ok := d.lines[p.ID]; ok {
		d.AddItem(p, qty-line.Quantity)
		return
	}
	d.AddItem(p, qty)
}

// RemoveItem drops a line entirely, whatever its type.
func (d *Draft) RemoveItem(productID uint) {
	if _, ok := d.lines[productID]; !ok {
		return
	}
	delete(d.lines, productID)
	for i, id := range d.order {
		if id == productID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Quantity returns the current quantity for a product, zero if absent.
func (d *Draft) Quantity(productID uint) int {
	if line, ok := d.lines[productID]; ok {
		return line.Quantity
	}
	return 0
}

// Lines returns the draft lines in the order they were first added.
func (d *Draft) Lines() []DraftLine {
	out := make([]DraftLine, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, *d.lines[id])
	}
	return out
}

// Total sums quantity*price over all lines. The raw float is returned;
// rounding to two decimals happens only at render time so that many small
// additions don't compound rounding error.
func (d *Draft) Total() float64 {
	var total float64
	for _, id := range d.order {
		line := d.lines[id]
		total += float64(line.Quantity) * line.Price
	}
	return total
}

// IsEmpty reports whether the draft has no lines at all.
func (d *Draft) IsEmpty() bool {
	return len(d.order) == 0
}

// MappedKeys returns the normalized names of draft lines whose product is
// mapped to the student's course. Saving a transaction flips these keys to
// true in the student's durable items map; add-ons never appear here.
func (d *Draft) MappedKeys(productsByID map[uint]models.Product) []string {
	var keys []string
	for _, id := range d.order {
		p, ok := productsByID[id]
		if !ok || p.ForCourse == "" {
			continue
		}
		if catalog.Normalize(p.ForCourse) == catalog.Normalize(d.Student.Course) {
			keys = append(keys, catalog.Normalize(p.Name))
		}
	}
	return keys
}

// MappedItemKeys is the transaction-item counterpart of MappedKeys, for
// records that never went through a draft (offline replays). Items whose
// product is unknown contribute nothing.
func MappedItemKeys(items []models.TransactionItem, productsByID map[uint]models.Product, student models.Student) []string {
	var keys []string
	for _, item := range items {
		p, ok := productsByID[item.ProductID]
		if !ok || p.ForCourse == "" {
			continue
		}
		if catalog.Normalize(p.ForCourse) == catalog.Normalize(student.Course) {
			keys = append(keys, catalog.Normalize(p.Name))
		}
	}
	return keys
}

func (d *Draft) insert(line *DraftLine) {
	d.lines[line.ProductID] = line
	d.order = append(d.order, line.ProductID)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
