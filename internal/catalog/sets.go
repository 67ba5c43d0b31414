package catalog

import "stationery-admin/internal/models"

// UnknownComponentName is rendered when neither the saved line item nor the
// current catalog can resolve a component's name.
const UnknownComponentName = "Unknown item"

// ExpandComponents resolves the component list for a set-type line item.
//
// Two sources can describe a set's contents: the components already saved on
// the line item (authoritative for history - they carry taken state and the
// name/quantity at time of sale) and the catalog product's current set items
// (used only to seed a brand-new line or to backfill gaps).
//
// If the line item already has components, they are kept as-is and only a
// missing name or quantity is repaired from the catalog; taken and reason are
// never touched. If the line item has none, a fresh list is synthesized from
// the catalog with every component taken and no reason.
func ExpandComponents(item models.TransactionItem, catalogProduct *models.Product) []models.SetComponent {
	if len(item.Components) > 0 {
		return repairComponents(item.Components, catalogProduct)
	}
	if catalogProduct == nil {
		return nil
	}

	components := make([]models.SetComponent, 0, len(catalogProduct.SetItems))
	for _, si := range catalogProduct.SetItems {
		name := si.ComponentName
		if name == "" {
			name = UnknownComponentName
		}
		qty := si.Quantity
		if qty <= 0 {
			qty = 1
		}
		components = append(components, models.SetComponent{
			ProductID: si.ComponentID,
			Name:      name,
			Quantity:  qty,
			Taken:     true,
			Reason:    "",
		})
	}
	return components
}

// repairComponents fills in missing name/quantity from the catalog without
// overwriting anything the saved transaction already knows.
func repairComponents(saved []models.SetComponent, catalogProduct *models.Product) []models.SetComponent {
	out := make([]models.SetComponent, len(saved))
	copy(out, saved)

	for i := range out {
		if out[i].Name != "" && out[i].Quantity > 0 {
			continue
		}
		si := findSetItem(catalogProduct, out[i].ProductID)
		if out[i].Name == "" {
			if si != nil && si.ComponentName != "" {
				out[i].Name = si.ComponentName
			} else {
				out[i].Name = UnknownComponentName
			}
		}
		if out[i].Quantity <= 0 {
			if si != nil && si.Quantity > 0 {
				out[i].Quantity = si.Quantity
			} else {
				out[i].Quantity = 1
			}
		}
	}
	return out
}

func findSetItem(p *models.Product, componentID uint) *models.SetItem {
	if p == nil {
		return nil
	}
	for i := range p.SetItems {
		if p.SetItems[i].ComponentID == componentID {
			return &p.SetItems[i]
		}
	}
	return nil
}
