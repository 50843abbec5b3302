// Package exporter writes the close-price report to a two-sheet xlsx
// workbook and formats values for the console echo.
//
// The "Daily Closes" sheet carries one row per trading day (date, close,
// segment, no index column); the "Summary" sheet carries the single
// four-month average metric. The output extension is always .xlsx,
// overriding whatever the caller supplied.
package exporter
