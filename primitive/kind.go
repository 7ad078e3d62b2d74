package primitive

import (
	"math"
	"reflect"
	"time"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // alias to any integer number, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsNumber reports integer and floating point kinds.
func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds have a bit size, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}
		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32:
		return 32
	case KindInt64, KindUint64:
		return 64
	case KindFloat32:
		return 32
	case KindFloat64:
		return 64
	}
}

// FromReflectType classifies exact predeclared types plus time.Time and time.Duration.
// Named integer and string types are reported as KindPrimitiveEnum.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	switch rtype {
	case timeType:
		return KindTime
	case durationType:
		return KindDuration
	}

	kind := FromKind(rtype.Kind())
	if kind == 0 {
		return 0
	}

	if rtype.PkgPath() != "" {
		switch rtype.Kind() {
		case reflect.Int, reflect.String:
			return KindPrimitiveEnum
		default:
			return kind
		}
	}

	return kind
}

// FromKind maps a reflect.Kind to the primitive kind holding values of that kind.
func FromKind(k reflect.Kind) KindEnum {
	switch k {
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	default:
		return 0
	}
}
