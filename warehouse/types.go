// Package warehouse holds the fulfilment side of the demo catalog and the transforms the
// demo mapping file refers to.
package warehouse

import (
	"fmt"
	"strings"

	"caster-engine/internal/errors"
)

// Label is the printed delivery address.
type Label struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Shipment is the work order a warehouse packs for one store order.
type Shipment struct {
	OrderNumber   string
	CustomerEmail string
	Recipient     string
	Status        string
	Total         float64
	Priority      int
	Lines         []Line
	Destination   *Label
	PackingNote   string
	InternalMemo  string
}

// Line is one picked product.
type Line struct {
	SKU       string
	Name      string
	Quantity  int
	UnitPrice float64
}

// CentsToAmount converts minor currency units.
func CentsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// AmountToCents is the inverse of CentsToAmount, rounded to the nearest cent.
func AmountToCents(amount float64) int64 {
	if amount < 0 {
		return int64(amount*100 - 0.5)
	}

	return int64(amount*100 + 0.5)
}

// OrderNumber formats a store order id, e.g. SO-000042.
func OrderNumber(id int64) (string, error) {
	if id <= 0 {
		return "", errors.Newf("order id must be positive, got %d", id)
	}

	return fmt.Sprintf("SO-%06d", id), nil
}

// StatusLabel lowercases a store status. Unknown statuses report false.
func StatusLabel(status string) (string, bool) {
	switch s := strings.ToLower(status); s {
	case "pending", "paid", "shipped", "cancelled":
		return s, true
	default:
		return "", false
	}
}
