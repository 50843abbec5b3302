// Package app assembles the report pipeline: argument resolution, window
// computation, price fetch, close-series extraction, frame building,
// aggregation, and workbook export. The CLI in cmd/closereport is a thin
// adapter over App.Run.
package app
