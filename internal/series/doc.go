// Package series transforms raw provider price tables into the windowed,
// labeled daily close rows the report is built from.
//
// The provider's schema varies with request metadata: sometimes columns
// are keyed by field name alone, sometimes by field name and ticker. The
// RawTable tagged variant captures that distinction once at the fetch
// boundary so downstream stages never re-branch on it.
package series
