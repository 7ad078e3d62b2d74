package mappers

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-engine/engine"
	"caster-engine/internal/errors"
	"caster-engine/synth"
)

type customer struct {
	Name  string
	Email string
}

type line struct {
	SKU string
	Qty int
}

type order struct {
	ID       int
	Customer *customer
	Lines    []line
	Tags     []string
	Placed   time.Time
}

type contact struct {
	Email string
	Age   int
}

type treeNode struct {
	Name  string
	Child *treeNode
}

func newMapper(t *testing.T, profiles []*engine.Profile, mappers ...engine.ObjectMapper) *engine.DefaultMapper {
	t.Helper()

	e, err := engine.New(profiles, engine.WithObjectMappers(mappers...))
	require.NoError(t, err)

	return engine.NewMapper(e)
}

func sampleOrder() order {
	return order{
		ID:       7,
		Customer: &customer{Name: "Ann", Email: "ann@example.com"},
		Lines:    []line{{SKU: "pen", Qty: 2}},
		Tags:     []string{"gift"},
		Placed:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFlattenToMap(t *testing.T) {
	m := newMapper(t, nil, Flatten{})

	out, err := engine.Map[order, map[string]any](m, sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"ID":             7,
		"Customer.Name":  "Ann",
		"Customer.Email": "ann@example.com",
		"Lines[0].SKU":   "pen",
		"Lines[0].Qty":   2,
		"Tags[0]":        "gift",
		"Placed":         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}, out)
}

func TestFlattenSkipsNilPointers(t *testing.T) {
	m := newMapper(t, nil, Flatten{})

	out, err := engine.Map[order, map[string]any](m, order{ID: 1})
	require.NoError(t, err)

	assert.NotContains(t, out, "Customer.Name")
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Placed")
}

func TestFlattenStopsOnSelfReference(t *testing.T) {
	m := newMapper(t, nil, Flatten{})

	self := &treeNode{Name: "self"}
	self.Child = self

	out, err := engine.Map[treeNode, map[string]any](m, *self)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Name": "self", "Child.Name": "self"}, out)

	a, b := &treeNode{Name: "a"}, &treeNode{Name: "b"}
	a.Child, b.Child = b, a

	out, err = engine.Map[treeNode, map[string]any](m, *a)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Name": "a", "Child.Name": "b", "Child.Child.Name": "a"}, out)
}

func TestFlattenFromMap(t *testing.T) {
	m := newMapper(t, nil, Flatten{})

	out, err := engine.Map[map[string]any, order](m, map[string]any{
		"ID":            "7",
		"Customer.Name": "Bo",
		"Lines[1].Qty":  "3",
		"Lines[0].SKU":  "a",
		"Tags[0]":       "x",
		"Unknown":       true,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, out.ID)
	require.NotNil(t, out.Customer)
	assert.Equal(t, customer{Name: "Bo"}, *out.Customer)
	assert.Equal(t, []line{{SKU: "a"}, {Qty: 3}}, out.Lines)
	assert.Equal(t, []string{"x"}, out.Tags)
	assert.True(t, out.Placed.IsZero())
}

func TestFlattenRoundTrip(t *testing.T) {
	m := newMapper(t, nil, Flatten{})

	in := sampleOrder()

	flat, err := engine.Map[order, map[string]any](m, in)
	require.NoError(t, err)

	back, err := engine.Map[map[string]any, order](m, flat)
	require.NoError(t, err)

	assert.Equal(t, in, back)
}

func TestFlattenConversionFailure(t *testing.T) {
	m := newMapper(t, nil, Flatten{})

	_, err := engine.Map[map[string]any, contact](m, map[string]any{"Age": "old"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrMappingExecution))
}

func TestFormat(t *testing.T) {
	f := FormatKeys[map[string]string, contact](NewFormat(), map[string]string{
		"e-mail": "Email",
		"age":    "Age",
	})

	m := newMapper(t, nil, f)

	out, err := engine.MapTo[contact](m, map[string]string{"e-mail": "a@b.c", "age": "41", "other": "x"})
	require.NoError(t, err)
	assert.Equal(t, contact{Email: "a@b.c", Age: 41}, out)

	partial, err := engine.MapTo[contact](m, map[string]string{"age": "3"})
	require.NoError(t, err)
	assert.Equal(t, contact{Age: 3}, partial)

	_, err = engine.MapTo[contact](m, map[string]string{"age": "old"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrMappingExecution))
	assert.Contains(t, err.Error(), `key "age"`)
}

func TestFormatUnknownField(t *testing.T) {
	f := FormatKeys[map[string]string, contact](NewFormat(), map[string]string{"phone": "Phone"})

	m := newMapper(t, nil, f)

	_, err := engine.MapTo[contact](m, map[string]string{"phone": "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no exported field "Phone"`)
}

func TestFormatOnlyMatchesConfiguredPairs(t *testing.T) {
	f := FormatKeys[map[string]string, contact](NewFormat(), map[string]string{"age": "Age"})

	assert.True(t, f.IsMatch(nil, engine.PairOf[map[string]string, contact]()))
	assert.False(t, f.IsMatch(nil, engine.PairOf[map[string]string, customer]()))
}

func TestFlatType(t *testing.T) {
	flat, err := FlatType(synth.NewStructFactory(""), reflect.TypeOf(order{}))
	require.NoError(t, err)

	var names []string
	for _, p := range flat.Properties() {
		names = append(names, p.Name)
	}

	assert.Equal(t, []string{"ID", "CustomerName", "CustomerEmail", "Lines", "Tags", "Placed"}, names)

	p := engine.NewProfile("flat")
	p.CreateMap(reflect.TypeOf(order{}), flat.Reflect())

	m := newMapper(t, []*engine.Profile{p})

	out, err := m.MapTypes(sampleOrder(), reflect.TypeOf(order{}), flat.Reflect())
	require.NoError(t, err)

	name, err := flat.Get(reflect.ValueOf(out), "CustomerName")
	require.NoError(t, err)
	assert.Equal(t, "Ann", name.Interface())

	lines, err := flat.Get(reflect.ValueOf(out), "Lines")
	require.NoError(t, err)
	assert.Equal(t, []line{{SKU: "pen", Qty: 2}}, lines.Interface())
}

func TestFlatTypeRejectsRecursion(t *testing.T) {
	_, err := FlatType(synth.NewStructFactory(""), reflect.TypeOf(treeNode{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursive")

	_, err = FlatType(synth.NewStructFactory(""), reflect.TypeOf(0))
	require.Error(t, err)
}
