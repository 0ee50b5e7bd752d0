// Package merrors defines the stable error-kind taxonomy from spec §7 and
// a single typed error (Error) that carries a Code plus an optional cause,
// following the teacher's CkbError pattern: a result type at component
// boundaries rather than ad hoc sentinel errors, with panics reserved for
// InternalInvariant violations (DESIGN NOTES, "exception-based error
// propagation").
package merrors

import "fmt"

// Code enumerates the error kinds named in spec §7.
type Code string

const (
	// ParseError means the compiler front-end refused the input.
	ParseError Code = "PARSE_ERROR"
	// MergeError means two declarations of the same SymbolID contradict
	// each other (e.g. irreconcilable kind mismatch) during corpus merge.
	MergeError Code = "MERGE_ERROR"
	// ReferenceUnresolved is not fatal: pass A could not verify a textual
	// or ID reference, so it was left as literal text.
	ReferenceUnresolved Code = "REFERENCE_UNRESOLVED"
	// LookupAmbiguous reports a name with more than one maximal-rank
	// candidate. The lookup engine does not return it: it resolves such
	// ties to the first occurrence.
	LookupAmbiguous Code = "LOOKUP_AMBIGUOUS"
	// LookupNotFound is returned as a value when no scope in the parent
	// chain resolves a name.
	LookupNotFound Code = "LOOKUP_NOT_FOUND"
	// FinalizerCycle is reported by the inheritance finalizer when the
	// base-class DAG contains a cycle; the cycle is broken, not silently
	// tolerated.
	FinalizerCycle Code = "FINALIZER_CYCLE"
	// SerializationError covers failures reading/writing the persisted
	// symbol-store format (bad magic, unknown block ID, truncated record).
	SerializationError Code = "SERIALIZATION_ERROR"
	// InternalInvariant means a documented invariant (I1-I5) was violated;
	// this is the only fatal kind and should abort the offending pass.
	InternalInvariant Code = "INTERNAL_INVARIANT"
)

// Error is the typed error carried across component boundaries.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	cause   error
}

// New creates an Error with no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that preserves an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithDetails attaches structured context to an error and returns it for
// chaining.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsFatal reports whether the pass that produced this error must abort
// rather than report-and-continue (spec §7 propagation policy).
func (e *Error) IsFatal() bool {
	return e.Code == InternalInvariant
}

// Diagnostics accumulates non-fatal errors and warnings across a finalizer
// pass or a corpus build, matching spec §7's "per-TU failures are
// collected, not thrown through the pool" policy. The driver aggregates
// these into a single compound error at the end of a run.
type Diagnostics struct {
	errs []*Error
}

// Add records a non-fatal error.
func (d *Diagnostics) Add(err *Error) {
	if err == nil {
		return
	}
	d.errs = append(d.errs, err)
}

// Errors returns all recorded errors in insertion order.
func (d *Diagnostics) Errors() []*Error {
	return d.errs
}

// Empty reports whether nothing was recorded.
func (d *Diagnostics) Empty() bool {
	return len(d.errs) == 0
}

// Compound aggregates Diagnostics into a single error, or returns nil
// when nothing was recorded. It does not look at ignore-failures;
// the caller decides whether to log the result or abort on it.
func (d *Diagnostics) Compound() error {
	if d.Empty() {
		return nil
	}
	return &compoundError{errs: d.errs}
}

type compoundError struct {
	errs []*Error
}

func (c *compoundError) Error() string {
	if len(c.errs) == 1 {
		return c.errs[0].Error()
	}
	return fmt.Sprintf("%d errors occurred, first: %s", len(c.errs), c.errs[0].Error())
}
