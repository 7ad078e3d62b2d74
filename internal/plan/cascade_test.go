package plan

import (
	"net/netip"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-engine/options"
)

type Code string

type Celsius float64

type Widget struct{ Name string }

func (w Widget) String() string { return "widget:" + w.Name }

type Gadget struct {
	Label string
	Size  int
}

type Money struct{ Cents int64 }

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func run(t *testing.T, f Fallbacks, src any, dst reflect.Type) (Strategy, any) {
	t.Helper()

	strategy, conv := Select(reflect.TypeOf(src), dst, f)
	if conv == nil {
		return strategy, nil
	}

	out, err := conv(reflect.ValueOf(src))
	require.NoError(t, err)

	return strategy, out.Interface()
}

func TestCascadeOrder(t *testing.T) {
	f := DefaultFallbacks()

	tests := []struct {
		name     string
		src      any
		dst      reflect.Type
		strategy Strategy
		want     any
	}{
		{"identity", 5, typeOf[int](), StrategyIdentity, 5},
		{"identity to interface", 5, typeOf[any](), StrategyIdentity, 5},
		{"to text", Widget{Name: "w"}, typeOf[string](), StrategyToText, "widget:w"},
		{"int to named text", 7, typeOf[Code](), StrategyToText, Code("7")},
		{"duration beats parse", "1h30m", typeOf[time.Duration](), StrategyTextConverter, 90 * time.Minute},
		{"text unmarshaler", "10.0.0.1", typeOf[netip.Addr](), StrategyTextConverter, netip.MustParseAddr("10.0.0.1")},
		{"optional wrap", 3, typeOf[*int](), StrategyOptionalWrap, nil},
		{"slice to array", []int{1, 2, 3, 4}, typeOf[[3]int](), StrategyMaterialize, [3]int{1, 2, 3}},
		{"array to slice", [2]string{"a", "b"}, typeOf[[]string](), StrategyMaterialize, []string{"a", "b"}},
		{"parse int", "42", typeOf[int32](), StrategyParse, int32(42)},
		{"parse bool", "true", typeOf[bool](), StrategyParse, true},
		{"widen", int32(9), typeOf[int64](), StrategyValueConvert, int64(9)},
		{"narrow float", 2.75, typeOf[int](), StrategyValueConvert, 2},
		{"named float", 21.5, typeOf[Celsius](), StrategyValueConvert, Celsius(21.5)},
		{"named text", Code("x"), typeOf[string](), StrategyValueConvert, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, got := run(t, f, tt.src, tt.dst)
			assert.Equal(t, tt.strategy, strategy)

			if tt.want != nil {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestOptionalWrapAllocates(t *testing.T) {
	_, got := run(t, DefaultFallbacks(), 3, typeOf[*int]())

	ptr, ok := got.(*int)
	require.True(t, ok)
	assert.Equal(t, 3, *ptr)
}

func TestUnsupported(t *testing.T) {
	f := DefaultFallbacks()

	for _, pair := range [][2]reflect.Type{
		{typeOf[Widget](), typeOf[Gadget]()},
		{typeOf[int](), typeOf[bool]()},
		{typeOf[string](), typeOf[Money]()},
		{typeOf[*int](), typeOf[int]()},
	} {
		strategy, conv := Select(pair[0], pair[1], f)
		assert.Equal(t, StrategyUnsupported, strategy, "%s -> %s", pair[0], pair[1])
		assert.Nil(t, conv)
		assert.False(t, Supports(pair[0], pair[1], f))
	}
}

func TestDisabledCategoryKeepsOrder(t *testing.T) {
	f := DefaultFallbacks()
	f.Enabled &^= options.CategoryTextConverter

	strategy, got := run(t, f, "90", typeOf[time.Duration]())
	assert.Equal(t, StrategyParse, strategy)
	assert.Equal(t, time.Duration(90), got)

	f.Enabled = options.CategoryNone
	strategy, _ = Select(typeOf[int](), typeOf[int](), f)
	assert.Equal(t, StrategyUnsupported, strategy)
}

func TestRegisteredConverter(t *testing.T) {
	f := DefaultFallbacks()
	require.NoError(t, f.Converters.Register(func(s string) (Money, error) {
		return Money{Cents: int64(len(strings.TrimSpace(s)))}, nil
	}))

	strategy, got := run(t, f, " abc ", typeOf[Money]())
	assert.Equal(t, StrategyTextConverter, strategy)
	assert.Equal(t, Money{Cents: 3}, got)

	assert.ErrorIs(t, f.Converters.Register(func(i int) Money { return Money{} }), ErrBadConverter)
	assert.Error(t, f.Converters.Register("nope"))
}

func TestConverterErrors(t *testing.T) {
	_, conv := Select(typeOf[string](), typeOf[time.Time](), DefaultFallbacks())
	require.NotNil(t, conv)

	_, err := conv(reflect.ValueOf("yesterday"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parse "yesterday" as time`)

	_, conv = Select(typeOf[string](), typeOf[uint8](), DefaultFallbacks())
	_, err = conv(reflect.ValueOf("-1"))
	assert.Error(t, err)
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "value_convert", StrategyValueConvert.String())
	assert.Equal(t, "unknown", Strategy(99).String())
	assert.True(t, StrategyParse.IsFallback())
	assert.False(t, StrategyTypeMap.IsFallback())
}
