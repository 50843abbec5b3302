package series

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "closecli/internal/errors"
)

// ExtractClose resolves the close-price column for the ticker out of a raw
// table of either shape and returns the cleaned series: values coerced to
// numeric (non-numeric entries dropped), duplicate dates collapsed keeping
// the last occurrence, sorted ascending.
func ExtractClose(table *RawTable, ticker string) (CloseSeries, error) {
	column, err := resolveCloseColumn(table, ticker)
	if err != nil {
		return nil, err
	}

	series := cleanSeries(table.Dates, column)
	if len(series) == 0 {
		return nil, apperrors.NewNoDataError("close price series contains no numeric data")
	}
	return series, nil
}

// resolveCloseColumn picks the close column for the ticker. The provider's
// schema varies with request metadata, so both shapes must be handled
// rather than assuming one.
func resolveCloseColumn(table *RawTable, ticker string) ([]interface{}, error) {
	switch table.Shape {
	case FieldByTicker:
		byTicker, ok := table.Grouped[FieldClose]
		if !ok || len(byTicker) == 0 {
			return nil, apperrors.NewParsingError("downloaded data does not include 'Close' prices", nil)
		}
		if column, ok := byTicker[ticker]; ok {
			return column, nil
		}
		if len(byTicker) == 1 {
			for _, column := range byTicker {
				return column, nil
			}
		}
		available := make([]string, 0, len(byTicker))
		for symbol := range byTicker {
			available = append(available, symbol)
		}
		sort.Strings(available)
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("unable to find close prices for ticker '%s', available columns: %s",
				ticker, strings.Join(available, ", ")), nil)

	default:
		column, ok := table.Fields[FieldClose]
		if !ok {
			return nil, apperrors.NewParsingError("downloaded data does not include 'Close' prices", nil)
		}
		return column, nil
	}
}

// cleanSeries coerces cells to numeric, re-keys by date keeping the last
// occurrence of duplicate dates, drops missing entries, and sorts ascending.
// Dedup runs before the missing-value drop: a later non-numeric duplicate
// shadows an earlier numeric one and the date ends up absent.
func cleanSeries(dates []time.Time, column []interface{}) CloseSeries {
	type cell struct {
		value float64
		ok    bool
	}

	byDate := make(map[time.Time]cell, len(dates))
	for i, date := range dates {
		if i >= len(column) {
			break
		}
		value, ok := coerceNumeric(column[i])
		key := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		byDate[key] = cell{value: value, ok: ok}
	}

	series := make(CloseSeries, 0, len(byDate))
	for date, c := range byDate {
		if !c.ok {
			continue
		}
		series = append(series, ClosePoint{Date: date, Close: c.value})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// coerceNumeric converts a raw cell to a float64, treating anything that
// cannot be read as a number as missing.
func coerceNumeric(cell interface{}) (float64, bool) {
	switch v := cell.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
