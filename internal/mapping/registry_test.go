package mapping

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	reg := testRegistry()
	orderType := reflect.TypeFor[order]()

	tests := []struct {
		id   string
		want reflect.Type
	}{
		{"caster-engine/internal/mapping.order", orderType},
		{"mapping.order", orderType},
		{"order", orderType},
		{"*order", reflect.PointerTo(orderType)},
		{"[]*mapping.order", reflect.SliceOf(reflect.PointerTo(orderType))},
		{"int64", reflect.TypeFor[int64]()},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := reg.Lookup(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, id := range []string{"Order", "other.order", "*missing", "ping.order"} {
		_, ok := reg.Lookup(id)
		assert.False(t, ok, id)
	}
}

func TestRegistryAmbiguousName(t *testing.T) {
	type Duration int64

	reg := NewRegistry()
	RegisterType[Duration](reg)
	RegisterType[time.Duration](reg)

	_, ok := reg.Lookup("Duration")
	assert.False(t, ok)

	got, ok := reg.Lookup("time.Duration")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[time.Duration](), got)

	got, ok = reg.Lookup("mapping.Duration")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[Duration](), got)
}

func TestRegistryCaster(t *testing.T) {
	reg := testRegistry()

	c, err := reg.Caster("centsToAmount")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[int64](), c.Src)
	assert.Equal(t, reflect.TypeFor[float64](), c.Dst)

	_, err = reg.Caster("stamp")
	require.Error(t, err)

	_, err = reg.Caster("missing")
	require.Error(t, err)

	assert.Equal(t, []string{"centsToAmount", "describe", "stamp"}, reg.FuncNames())
	assert.Len(t, reg.Types(), 3)
}

func TestRegistrySimilar(t *testing.T) {
	reg := testRegistry()

	assert.Equal(t, []string{"mapping.order"}, reg.Similar("store.Order"))
	assert.Equal(t, []string{"mapping.customer"}, reg.Similar("[]*Customer"))
	assert.Empty(t, reg.Similar("Invoice"))
}
