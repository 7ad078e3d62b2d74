package plan

import "caster-engine/internal/common"

// Strategy tells how an execution plan converts values.
type Strategy int

const (
	// StrategyTypeMap - a configured mapping rule copies members.
	StrategyTypeMap Strategy = iota
	// StrategyObjectMapper - a pluggable object mapper built the plan.
	StrategyObjectMapper
	// StrategyIdentity - destination is assignable from source.
	StrategyIdentity
	// StrategyToText - canonical textual representation of the source.
	StrategyToText
	// StrategyTextConverter - text parsed by a converter registered for the destination.
	StrategyTextConverter
	// StrategyOptionalWrap - source wrapped into a pointer.
	StrategyOptionalWrap
	// StrategyMaterialize - sequence elements copied into a new slice or array.
	StrategyMaterialize
	// StrategyParse - text parsed as a numeric or boolean primitive.
	StrategyParse
	// StrategyValueConvert - Go value conversion, may lose precision.
	StrategyValueConvert
	// StrategyUnsupported - no conversion exists; executing the plan fails.
	StrategyUnsupported
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyTypeMap:
		return "type_map"
	case StrategyObjectMapper:
		return "object_mapper"
	case StrategyIdentity:
		return "identity"
	case StrategyToText:
		return "to_text"
	case StrategyTextConverter:
		return "text_converter"
	case StrategyOptionalWrap:
		return "optional_wrap"
	case StrategyMaterialize:
		return "materialize"
	case StrategyParse:
		return "parse"
	case StrategyValueConvert:
		return "value_convert"
	case StrategyUnsupported:
		return "unsupported"
	default:
		return common.UnknownStr
	}
}

// IsFallback reports strategies produced by the cascade.
func (s Strategy) IsFallback() bool {
	return s >= StrategyIdentity && s <= StrategyUnsupported
}
