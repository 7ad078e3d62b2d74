package diagnostic

import (
	"fmt"
	"strings"

	"caster-engine/internal/common"
	"caster-engine/internal/errors"
)

// Codes shared by the engine and the YAML loader.
const (
	CodeDuplicateMap      = "duplicate_map"
	CodeUnknownMember     = "unknown_member"
	CodeBadSourcePath     = "bad_source_path"
	CodeBadFunc           = "bad_func"
	CodeMissingInclude    = "missing_include"
	CodeIncludeCycle      = "include_cycle"
	CodeOpenGeneric       = "open_generic"
	CodeUnmappedMember    = "unmapped_member"
	CodeUnsupportedMember = "unsupported_member"
	CodeUnknownType       = "unknown_type"
	CodeUnknownTransform  = "unknown_transform"
	CodeInvalidRule       = "invalid_rule"
)

// Diagnostics holds every diagnostic found by one pass.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity Severity
	// Code is a unique identifier for this kind of diagnostic.
	Code    string
	Message string
	// TypePair identifies the mapping rule this relates to (if any).
	TypePair string
	// Member identifies the destination member this relates to (if any).
	Member string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typePair, member string, suggestions ...string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:    SeverityError,
		Code:        code,
		Message:     message,
		TypePair:    typePair,
		Member:      member,
		Suggestions: suggestions,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typePair, member string, suggestions ...string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:    SeverityWarning,
		Code:        code,
		Message:     message,
		TypePair:    typePair,
		Member:      member,
		Suggestions: suggestions,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typePair, member string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		TypePair: typePair,
		Member:   member,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if there are none.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	return errors.New(d.Summary())
}

// Summary joins all error diagnostics into one line.
func (d *Diagnostics) Summary() string {
	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return strings.Join(parts, "; ")
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
