package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "closecli/internal/errors"
	"closecli/internal/exporter"
	"closecli/internal/fetcher"
	"closecli/internal/infrastructure"
	"closecli/internal/series"
	"closecli/internal/window"
)

const dateLayout = "2006-01-02"

// Request carries the validated inputs for one report run.
type Request struct {
	Ticker string `validate:"required,ticker"`
	AsOf   string `validate:"required"`
	Output string
}

// Result is the outcome of a run: the pure pipeline report plus the path
// the workbook was written to.
type Result struct {
	Report     *series.Report
	OutputPath string
}

// App wires the pipeline stages together.
type App struct {
	provider fetcher.Provider
	writer   *exporter.ExcelWriter
	validate *validator.Validate
}

// New creates an application around the given price provider.
func New(provider fetcher.Provider) *App {
	v := validator.New()
	// Ticker symbols: uppercase alphanumerics plus the separators Yahoo
	// uses for exchanges, classes, and indices (BRK-B, IEF.DE, ^TNX).
	_ = v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return false
		}
		for _, r := range s {
			switch {
			case r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9':
			case r == '.' || r == '-' || r == '^' || r == '=':
			default:
				return false
			}
		}
		return true
	})

	return &App{
		provider: provider,
		writer:   exporter.NewExcelWriter(),
		validate: v,
	}
}

// Run executes the full pipeline: resolve inputs, compute the window,
// fetch history, extract and window the close series, write the workbook.
// Every failure aborts the run; no file is written on error.
func (a *App) Run(ctx context.Context, req Request) (*Result, error) {
	logger := infrastructure.LoggerWithContext(ctx)

	if err := a.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("invalid request for ticker '%s'", req.Ticker), err)
	}

	reference, err := ParseDate(req.AsOf)
	if err != nil {
		return nil, err
	}

	rng := window.Bounds(reference)
	logger.InfoContext(ctx, "computed window",
		"ticker", req.Ticker,
		"reference", reference.Format(dateLayout),
		"start", rng.Start.Format(dateLayout),
		"end", rng.End.Format(dateLayout))

	// The provider treats the end bound as exclusive; request one extra
	// day so the window end is included.
	table, err := a.provider.History(ctx, req.Ticker, rng.Start, rng.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	close, err := series.ExtractClose(table, req.Ticker)
	if err != nil {
		return nil, err
	}

	report, err := series.BuildReport(req.Ticker, reference, rng, close)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "built report",
		"rows", len(report.Rows),
		"average", report.Average)

	outputPath := exporter.ResolveOutputPath(req.Ticker, reference, req.Output)
	if err := a.writer.Write(report, outputPath); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "wrote workbook", "path", outputPath)

	return &Result{Report: report, OutputPath: outputPath}, nil
}

// ParseDate parses a YYYY-MM-DD reference date string.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(
			fmt.Sprintf("invalid date '%s', expected YYYY-MM-DD", value), err)
	}
	return parsed, nil
}
