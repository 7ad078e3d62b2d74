package engine

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapperRejectsBadDestinations(t *testing.T) {
	m := NewMapper(build(t, NewProfile("empty")))

	_, err := m.MapInto(Widget{}, WidgetDTO{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-nil pointer")

	var nilDTO *WidgetDTO
	_, err = m.MapInto(Widget{}, nilDTO)
	require.Error(t, err)

	_, err = m.MapTypes(Widget{}, reflect.TypeOf(Widget{}), nil)
	require.Error(t, err)
}

func TestMapThroughInterfaceRule(t *testing.T) {
	p := NewProfile("named")
	CreateMap[Named, LabelDTO](p)

	m := NewMapper(build(t, p))

	out, err := Map[Named, LabelDTO](m, Tag{Text: "sale"})
	require.NoError(t, err)
	assert.Equal(t, LabelDTO{Label: "SALE"}, out)

	byRuntime, err := MapTo[LabelDTO](m, &Tag{Text: "sale"})
	require.NoError(t, err)
	assert.Equal(t, out, byRuntime)

	var none Named
	empty, err := Map[Named, LabelDTO](m, none)
	require.NoError(t, err)
	assert.Equal(t, LabelDTO{}, empty)
}

func TestMapToPointerDestination(t *testing.T) {
	p := NewProfile("widgets")
	CreateMap[Widget, WidgetDTO](p)

	m := NewMapper(build(t, p))

	out, err := MapTo[*WidgetDTO](m, &Widget{Name: "nut", Size: 1})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, WidgetDTO{Name: "nut", Size: 1}, *out)

	var missing *Widget
	out, err = MapTo[*WidgetDTO](m, missing)
	require.NoError(t, err)
	assert.Nil(t, out)

	assert.Same(t, m.Engine(), m.Engine())
}
