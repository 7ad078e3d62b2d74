package main

import (
	_ "embed"
	"fmt"

	"caster-engine/internal/mapping"
	"caster-engine/store"
	"caster-engine/warehouse"
)

// demoMapping is used when no --mapping file is given.
//
//go:embed shipments.yaml
var demoMapping []byte

// catalog registers the types and functions mapping files may name.
func catalog() *mapping.Registry {
	reg := mapping.NewRegistry()

	mapping.RegisterType[store.Order](reg)
	mapping.RegisterType[store.OrderItem](reg)
	mapping.RegisterType[store.Customer](reg)
	mapping.RegisterType[store.Address](reg)
	mapping.RegisterType[store.OrderStatus](reg)
	mapping.RegisterType[warehouse.Shipment](reg)
	mapping.RegisterType[warehouse.Line](reg)
	mapping.RegisterType[warehouse.Label](reg)

	return reg.
		Func("OrderNumber", warehouse.OrderNumber).
		Func("CentsToAmount", warehouse.CentsToAmount).
		Func("AmountToCents", warehouse.AmountToCents).
		Func("statusLabel", statusLabel).
		Func("packingNote", packingNote)
}

func statusLabel(s store.OrderStatus) (string, bool) {
	return warehouse.StatusLabel(string(s))
}

func packingNote(o store.Order, s *warehouse.Shipment) {
	units := 0
	for _, it := range o.Items {
		units += it.Quantity
	}

	s.PackingNote = fmt.Sprintf("%d units for %s", units, s.Recipient)
}
