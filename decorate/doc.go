// Package decorate wraps an engine.Mapper with logging, source validation and auditing.
// Decorators compose:
//
//	m := decorate.Logged(decorate.Validating(engine.NewMapper(e)), log)
package decorate
