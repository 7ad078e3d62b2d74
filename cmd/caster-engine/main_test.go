package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-engine/engine"
	"caster-engine/internal/errors"
	"caster-engine/store"
	"caster-engine/warehouse"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestCheckDemoMapping(t *testing.T) {
	out, err := run(t, "check")
	require.NoError(t, err)
	assert.Equal(t, "3 rules: 0 errors, 0 warnings\n", out)
}

func TestCheckCompileAll(t *testing.T) {
	cfg := writeFile(t, "caster.yaml", "compile_all: true\nstrict: true\n")

	out, err := run(t, "check", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "3 rules")
}

func TestCheckReportsConfigurationErrors(t *testing.T) {
	mapping := writeFile(t, "bad.yaml", `
mappings:
  - source: store.Order
    target: warehouse.Parcel
`)

	out, err := run(t, "check", "--mapping", mapping)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrConfiguration))
	assert.Contains(t, out, `error: [store.Order->warehouse.Parcel]: [unknown_type] target type "warehouse.Parcel" not found`)
}

func TestCheckStrictFailsOnUnmappedMembers(t *testing.T) {
	mapping := writeFile(t, "partial.yaml", `
mappings:
  - source: store.OrderItem
    target: warehouse.Label
`)

	out, err := run(t, "check", "--mapping", mapping)
	require.NoError(t, err)
	assert.Contains(t, out, "[unmapped_member]")
	assert.Contains(t, out, "1 rules: 4 errors")

	cfg := writeFile(t, "caster.yaml", "strict: true\n")

	_, err = run(t, "check", "--mapping", mapping, "--config", cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrInvalidMappings))
}

func TestPlan(t *testing.T) {
	out, err := run(t, "plan", "store.Order", "warehouse.Shipment")
	require.NoError(t, err)

	assert.Contains(t, out, "store.Order->warehouse.Shipment: type_map store.Order->warehouse.Shipment\n")
	assert.Contains(t, out, "  OrderNumber <- resolver (string -> string)\n")
	assert.Contains(t, out, "  Recipient <- Customer.FullName (string -> string)\n")
	assert.Contains(t, out, "  CustomerEmail <- Customer.Email (string -> string)\n")
	assert.Contains(t, out, "  InternalMemo: ignored\n")
}

func TestPlanFallback(t *testing.T) {
	out, err := run(t, "plan", "--dump", "[]store.OrderItem", "[]warehouse.Line")
	require.NoError(t, err)
	assert.Contains(t, out, `Strategy: (string) (len=13) "object_mapper"`)
	assert.Contains(t, out, `Mapper: (string)`)
}

func TestPlanUnknownType(t *testing.T) {
	_, err := run(t, "plan", "store.Basket", "warehouse.Shipment")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.Basket")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestDemoEngineMapsOrders(t *testing.T) {
	a := &app{registry: catalog()}
	require.NoError(t, a.init())

	e, err := a.engine()
	require.NoError(t, err)

	order := store.Order{
		ID:         42,
		Customer:   &store.Customer{Email: "ada@example.com", FullName: "Ada Lovelace", Address: &store.Address{City: "London"}},
		Status:     store.StatusPaid,
		TotalCents: 1999,
		Items: []store.OrderItem{
			{SKU: "pen", Name: "Pen", Quantity: 2, UnitPrice: 250},
			{SKU: "ink", Name: "Ink", Quantity: 1, UnitPrice: 1499},
		},
		OrderedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Notes:     "leave at door",
	}

	got, err := engine.Map[store.Order, warehouse.Shipment](engine.NewMapper(e), order)
	require.NoError(t, err)

	assert.Equal(t, warehouse.Shipment{
		OrderNumber:   "SO-000042",
		CustomerEmail: "ada@example.com",
		Recipient:     "Ada Lovelace",
		Status:        "paid",
		Total:         19.99,
		Priority:      1,
		Lines: []warehouse.Line{
			{SKU: "pen", Name: "Pen", Quantity: 2, UnitPrice: 2.5},
			{SKU: "ink", Name: "Ink", Quantity: 1, UnitPrice: 14.99},
		},
		Destination: &warehouse.Label{City: "London"},
		PackingNote: "3 units for Ada Lovelace",
	}, got)
}

func TestDemoEngineReportsTransformErrors(t *testing.T) {
	a := &app{registry: catalog()}
	require.NoError(t, a.init())

	e, err := a.engine()
	require.NoError(t, err)

	_, err = engine.Map[store.Order, warehouse.Shipment](engine.NewMapper(e), store.Order{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order id must be positive")

	var execErr *engine.MappingExecutionError
	require.True(t, errors.As(err, &execErr))
}
