package series

import "time"

// Shape identifies the layout of a raw price table. The provider returns
// either a flat field-per-column table or a two-level field-by-ticker
// grouping when extended metadata was requested; the shape is resolved
// once at the fetch boundary and carried here as a tagged variant.
type Shape int

const (
	// SingleField tables key columns by field name alone ("Close", "Open").
	SingleField Shape = iota
	// FieldByTicker tables key columns by field name, then ticker symbol.
	FieldByTicker
)

// FieldClose is the price field the pipeline extracts.
const FieldClose = "Close"

// RawTable is the date-indexed price table as returned by the provider.
// Cells are loosely typed: float64, numeric string, or nil for missing.
// Columns align positionally with Dates.
type RawTable struct {
	Shape Shape
	Dates []time.Time

	// Fields holds columns for SingleField tables.
	Fields map[string][]interface{}

	// Grouped holds columns for FieldByTicker tables.
	Grouped map[string]map[string][]interface{}
}

// ClosePoint is one date/close observation.
type ClosePoint struct {
	Date  time.Time
	Close float64
}

// CloseSeries is a cleaned close-price series: unique dates, numeric
// values only, ascending by date.
type CloseSeries []ClosePoint
