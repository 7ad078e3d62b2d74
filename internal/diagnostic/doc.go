// Package diagnostic collects structured problems found while building or validating
// a mapping configuration, so they can be reported together instead of one at a time.
package diagnostic
