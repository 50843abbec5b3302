package exporter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "closecli/internal/errors"
	"closecli/internal/series"
)

const (
	// SheetDaily holds the per-day close rows.
	SheetDaily = "Daily Closes"
	// SheetSummary holds the single aggregate metric row.
	SheetSummary = "Summary"

	// Extension is the enforced output file extension.
	Extension = ".xlsx"

	averageMetricLabel = "Four-month average close"
	dateLayout         = "2006-01-02"
)

// ExcelWriter serializes reports to two-sheet xlsx workbooks.
type ExcelWriter struct{}

// NewExcelWriter creates a new report writer.
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// ResolveOutputPath returns the output path for a report. An empty path
// yields the default {ticker}_{reference}_daily_closes.xlsx in the working
// directory; a caller-supplied path has its extension forced to .xlsx.
func ResolveOutputPath(ticker string, reference time.Time, output string) string {
	if output == "" {
		return fmt.Sprintf("%s_%s_daily_closes%s", ticker, reference.Format(dateLayout), Extension)
	}
	ext := filepath.Ext(output)
	if ext == Extension {
		return output
	}
	return strings.TrimSuffix(output, ext) + Extension
}

// Write creates or overwrites the workbook at path with a "Daily Closes"
// sheet of date/close/segment rows and a "Summary" sheet carrying the
// four-month average.
func (w *ExcelWriter) Write(report *series.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetDaily); err != nil {
		return apperrors.NewExportError("failed to create daily sheet", err)
	}

	headers := []string{"Date", "Close", "Segment"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetDaily, cell, header); err != nil {
			return apperrors.NewExportError("failed to write daily header", err)
		}
	}

	for i, row := range report.Rows {
		rowNum := i + 2
		if err := setRow(f, SheetDaily, rowNum,
			row.Date.Format(dateLayout), row.Close, row.Segment); err != nil {
			return apperrors.NewExportError("failed to write daily row", err)
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return apperrors.NewExportError("failed to create summary sheet", err)
	}
	if err := setRow(f, SheetSummary, 1, "Metric", "Value"); err != nil {
		return apperrors.NewExportError("failed to write summary header", err)
	}
	if err := setRow(f, SheetSummary, 2, averageMetricLabel, report.Average); err != nil {
		return apperrors.NewExportError("failed to write summary row", err)
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewExportError(fmt.Sprintf("failed to save workbook to %s", path), err)
	}
	return nil
}

// setRow writes values into consecutive cells of the given row
func setRow(f *excelize.File, sheet string, rowNum int, values ...interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

// ReadDailySheet reads the "Daily Closes" sheet of a workbook back into
// daily rows. Used to verify round-trips.
func ReadDailySheet(path string) ([]series.DailyRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetDaily)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", SheetDaily, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	daily := make([]series.DailyRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}
		date, err := time.Parse(dateLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("invalid date cell %q: %w", row[0], err)
		}
		close, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid close cell %q: %w", row[1], err)
		}
		daily = append(daily, series.DailyRow{Date: date, Close: close, Segment: row[2]})
	}
	return daily, nil
}
