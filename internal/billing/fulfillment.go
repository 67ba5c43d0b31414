package billing

import (
	"fmt"

	"stationery-admin/internal/models"
)

// Line item fulfillment statuses.
const (
	StatusFulfilled = "fulfilled"
	StatusPartial   = "partial"
)

// MarkComponentTaken rebuilds the complete item list for a transaction with
// exactly one change: the component identified by (itemProductID,
// componentProductID) is marked taken and its reason cleared. Everything
// else passes through untouched.
//
// The whole list is returned rather than a patch because the update
// contract replaces the item array wholesale; sending a partial list would
// silently drop the other lines.
//
// Taken is one-way: marking an already-taken component is a safe no-op
// (reason still cleared). If the target cannot be resolved, an error is
// returned and nothing is mutated.
func MarkComponentTaken(t models.Transaction, itemProductID, componentProductID uint) ([]models.TransactionItem, error) {
	itemFound := false
	componentFound := false

	rebuilt := make([]models.TransactionItem, len(t.Items))
	for i, item := range t.Items {
		rebuilt[i] = item
		if len(item.Components) > 0 {
			rebuilt[i].Components = make([]models.SetComponent, len(item.Components))
			copy(rebuilt[i].Components, item.Components)
		}

		if item.ProductID != itemProductID || !item.IsSet {
			continue
		}
		itemFound = true

		for j := range rebuilt[i].Components {
			if rebuilt[i].Components[j].ProductID != componentProductID {
				continue
			}
			componentFound = true
			rebuilt[i].Components[j].Taken = true
			rebuilt[i].Components[j].Reason = ""
		}
		rebuilt[i].Status = componentStatus(rebuilt[i].Components)
	}

	if !itemFound {
		return nil, fmt.Errorf("transaction %d has no set line item for product %d", t.ID, itemProductID)
	}
	if !componentFound {
		return nil, fmt.Errorf("set item %d in transaction %d has no component with product id %d", itemProductID, t.ID, componentProductID)
	}
	return rebuilt, nil
}

// componentStatus derives a line item's status from its component states.
func componentStatus(components []models.SetComponent) string {
	for _, c := range components {
		if !c.Taken {
			return StatusPartial
		}
	}
	return StatusFulfilled
}

// ItemStatus exposes the status derivation for callers seeding new items.
func ItemStatus(components []models.SetComponent) string {
	return componentStatus(components)
}
