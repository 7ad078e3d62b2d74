// Package errors re-exports github.com/cockroachdb/errors for the engine.
//
// Errors created here carry stack traces and can be annotated with hints
// that the CLI prints next to the message:
//
//	return errors.WithHint(err, "register a TypeMap for the pair")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf
