// Package stock classifies product stock health. All functions are pure;
// callers pass current quantity and reorder level and get back a status,
// a suggested reorder quantity, or an ordering key.
package stock

import (
	"sort"

	"github.com/quayside/stockpilot/internal/inventory/entity"
)

// Status of a product's stock level.
type Status string

const (
	StatusOutOfStock Status = "out_of_stock"
	StatusLowStock   Status = "low_stock"
	StatusInStock    Status = "in_stock"
)

// Evaluate classifies a stock level. Quantity exactly at the reorder level
// counts as low stock, not in stock.
func Evaluate(quantity, reorderLevel int) Status {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= reorderLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// SuggestedReorder returns how many units to order for a low product: enough
// to restock to double the reorder threshold, but never less than the
// threshold itself.
func SuggestedReorder(quantity, reorderLevel int) int {
	suggested := reorderLevel*2 - quantity
	if suggested < reorderLevel {
		return reorderLevel
	}
	return suggested
}

// Severity is the quantity-to-threshold ratio used to rank low-stock
// products; lower is more critical. A zero reorder level ranks as 0.
func Severity(quantity, reorderLevel int) float64 {
	if reorderLevel <= 0 {
		return 0
	}
	return float64(quantity) / float64(reorderLevel)
}

// SortBySeverity orders products most-critical first. The sort is stable so
// equally critical products keep their incoming order.
func SortBySeverity(products []entity.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return Severity(products[i].Quantity, products[i].ReorderLevel) <
			Severity(products[j].Quantity, products[j].ReorderLevel)
	})
}
