package models

import "fmt"

// InputValidationError reports malformed or missing caller input:
// non-positive denominators, empty assumption vectors, a zero capital base.
type InputValidationError struct {
	Field  string
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// InsufficientDataError reports a sample too small (or too degenerate)
// to estimate from.
type InsufficientDataError struct {
	Op   string
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data (need %d observations, got %d)", e.Op, e.Need, e.Got)
}

// DomainError reports a violated mathematical invariant, e.g. the Gordon
// growth formula with wacc <= g. The computation aborts rather than
// returning a partially computed result.
type DomainError struct {
	Invariant string
	Detail    string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain violation (%s): %s", e.Invariant, e.Detail)
}

// ExternalDataError wraps a failure in the market/statement data provider
// so callers can tell a provider outage apart from a modeling mistake.
type ExternalDataError struct {
	Provider string
	Err      error
}

func (e *ExternalDataError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ExternalDataError) Unwrap() error { return e.Err }

// NotFoundError reports a missed lookup, e.g. an unmatched credit rating.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Key)
}
