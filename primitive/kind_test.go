package primitive_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-engine/primitive"
)

func Example() {
	type IntEnum int
	type StringEnum string
	type Empty struct{}

	fmt.Println(primitive.FromReflectType(reflect.TypeOf(int(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf("")))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(IntEnum(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(StringEnum(""))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Duration(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Time{})))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Empty{})))
	// Output:
	// KindInt
	// KindString
	// KindPrimitiveEnum
	// KindPrimitiveEnum
	// KindDuration
	// KindTime
	// KindEnum(0)
}

type Level uint8

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		in   string
		want any
	}{
		{"int32", reflect.TypeOf(int32(0)), "-12", int32(-12)},
		{"hex uint", reflect.TypeOf(uint16(0)), "0xff", uint16(255)},
		{"named uint8", reflect.TypeOf(Level(0)), " 3 ", Level(3)},
		{"float", reflect.TypeOf(float64(0)), "2.5", 2.5},
		{"bool", reflect.TypeOf(false), "true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := primitive.Parse(tt.typ, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := primitive.Parse(reflect.TypeOf(int8(0)), "300")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parse "300" as int8`)

	_, err = primitive.Parse(reflect.TypeOf(""), "x")
	assert.Error(t, err)

	assert.True(t, primitive.IsParsable(reflect.TypeOf(Level(0))))
	assert.False(t, primitive.IsParsable(reflect.TypeOf(time.Time{})))
	assert.False(t, primitive.IsParsable(reflect.TypeOf("")))
}
