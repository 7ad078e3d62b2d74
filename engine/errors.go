package engine

import (
	"fmt"

	"caster-engine/internal/diagnostic"
	"caster-engine/internal/errors"
)

var (
	ErrConfiguration      = errors.New("invalid mapping configuration")
	ErrUnsupportedMapping = errors.New("unsupported mapping")
	ErrMappingExecution   = errors.New("mapping failed")
	ErrInvalidMappings    = errors.New("mappings are not valid")
)

// ConfigurationError is returned by New when the declared rules are inconsistent.
// It lists every problem found.
type ConfigurationError struct {
	Diagnostics diagnostic.Diagnostics
}

func (e *ConfigurationError) Error() string {
	return ErrConfiguration.Error() + ": " + e.Diagnostics.Summary()
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// UnsupportedMappingError is raised when a pair has no rule, no object mapper and no fallback.
type UnsupportedMappingError struct {
	Types  TypePair
	Member *MemberMap
}

func (e *UnsupportedMappingError) Error() string {
	msg := fmt.Sprintf("unsupported mapping from %s to %s", typeName(e.Types.Source), typeName(e.Types.Destination))
	if e.Member != nil {
		msg += " (member " + e.Member.String() + ")"
	}

	return msg
}

func (e *UnsupportedMappingError) Is(target error) bool { return target == ErrUnsupportedMapping }

// ErrorHint is picked up by errors.GetAllHints.
func (e *UnsupportedMappingError) ErrorHint() string {
	return "declare a TypeMap for " + e.Types.String() + " or register a text converter"
}

// MappingExecutionError wraps a failure raised while a plan runs.
type MappingExecutionError struct {
	Types  TypePair
	Member *MemberMap
	Err    error
}

func (e *MappingExecutionError) Error() string {
	msg := "mapping " + e.Types.String()
	if e.Member != nil {
		msg += " (member " + e.Member.String() + ")"
	}

	return msg + " failed: " + e.Err.Error()
}

func (e *MappingExecutionError) Unwrap() error { return e.Err }

func (e *MappingExecutionError) Is(target error) bool { return target == ErrMappingExecution }

// ValidationError aggregates everything AssertValid found.
type ValidationError struct {
	Diagnostics diagnostic.Diagnostics
}

func (e *ValidationError) Error() string {
	return ErrInvalidMappings.Error() + ": " + e.Diagnostics.Summary()
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidMappings }

// isEngineError reports errors that already carry a pair and must not be wrapped again.
func isEngineError(err error) bool {
	var (
		unsupported *UnsupportedMappingError
		execution   *MappingExecutionError
	)

	return errors.As(err, &unsupported) || errors.As(err, &execution)
}
