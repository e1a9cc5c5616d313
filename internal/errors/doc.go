// Package errors provides structured, actionable error messages for the
// feedback daemon.
//
// Each error carries a category, a short message, and an optional hint
// telling the operator how to fix the problem:
//
//	err := errors.New(errors.CategoryConfig, "unknown queue strategy %q", s).
//	    WithHint("valid strategies are fifo, priority, and reject")
//
// Errors wrap an underlying cause where one exists, so errors.Is and
// errors.As from the standard library keep working through the chain.
package errors
