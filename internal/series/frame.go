package series

import (
	"fmt"
	"time"

	apperrors "closecli/internal/errors"
	"closecli/internal/window"
)

// DailyRow is one dated close with its segment label.
type DailyRow struct {
	Date    time.Time
	Close   float64
	Segment string
}

// Report is the pure pipeline output: the windowed daily rows and their
// four-month average, plus the inputs that produced them. It carries no
// I/O concerns; exporting and printing happen elsewhere.
type Report struct {
	Ticker    string
	Reference time.Time
	Window    window.Range
	Rows      []DailyRow
	Average   float64
}

// BuildDailyRows filters the series to the window, bounds inclusive, and
// attaches a segment label per row. Dates strictly before the reference
// are labeled "Before"; the reference date itself and everything after it
// fall in the "On/After" segment.
func BuildDailyRows(close CloseSeries, reference time.Time, rng window.Range) ([]DailyRow, error) {
	refDay := reference.Format("2006-01-02")
	beforeLabel := fmt.Sprintf("Before %s", refDay)
	afterLabel := fmt.Sprintf("On/After %s", refDay)

	var rows []DailyRow
	for _, point := range close {
		if !rng.Contains(point.Date) {
			continue
		}
		segment := afterLabel
		if point.Date.Before(reference) {
			segment = beforeLabel
		}
		rows = append(rows, DailyRow{Date: point.Date, Close: point.Close, Segment: segment})
	}

	if len(rows) == 0 {
		return nil, apperrors.NewNoDataError(fmt.Sprintf(
			"no daily close prices available between %s and %s",
			rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02")))
	}
	return rows, nil
}

// Average computes the unweighted arithmetic mean of the row closes.
// Gaps in trading days get no special handling; the mean is over whatever
// dates survived extraction and filtering.
func Average(rows []DailyRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range rows {
		sum += row.Close
	}
	return sum / float64(len(rows))
}

// BuildReport runs the windowing and aggregation stages over a cleaned
// close series and assembles the report.
func BuildReport(ticker string, reference time.Time, rng window.Range, close CloseSeries) (*Report, error) {
	rows, err := BuildDailyRows(close, reference, rng)
	if err != nil {
		return nil, err
	}

	return &Report{
		Ticker:    ticker,
		Reference: reference,
		Window:    rng,
		Rows:      rows,
		Average:   Average(rows),
	}, nil
}
