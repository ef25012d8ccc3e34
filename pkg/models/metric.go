// Package models holds the plain shared types exchanged between the core
// computation packages and their callers.
package models

// Metric is a derived financial figure that may be undefined for a given
// period (first-period growth, reinvestment rate on non-positive NOPAT).
// The zero value is undefined. An undefined Metric must never be read as
// zero; renderers show it as "n/a".
type Metric struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// Defined wraps a computed value.
func Defined(v float64) Metric {
	return Metric{Value: v, Defined: true}
}

// Undefined marks a quantity that does not exist for the period.
func Undefined() Metric {
	return Metric{}
}
