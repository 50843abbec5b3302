package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "closecli/internal/errors"
	"closecli/internal/exporter"
	"closecli/internal/series"
)

// fakeProvider returns a canned table or error and records the request.
type fakeProvider struct {
	table *series.RawTable
	err   error

	gotTicker       string
	gotStart        time.Time
	gotEndExclusive time.Time
}

func (f *fakeProvider) History(ctx context.Context, ticker string, start, endExclusive time.Time) (*series.RawTable, error) {
	f.gotTicker = ticker
	f.gotStart = start
	f.gotEndExclusive = endExclusive
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tableWith(dates []time.Time, closes []interface{}) *series.RawTable {
	return &series.RawTable{
		Shape:  series.SingleField,
		Dates:  dates,
		Fields: map[string][]interface{}{"Close": closes},
	}
}

func TestApp_Run_Scenario(t *testing.T) {
	provider := &fakeProvider{
		table: tableWith(
			[]time.Time{
				date(2024, time.January, 16),
				date(2024, time.March, 14),
				date(2024, time.March, 15),
				date(2024, time.May, 15),
			},
			[]interface{}{94.0, 95.0, 96.0, 97.0},
		),
	}

	output := filepath.Join(t.TempDir(), "report.xlsx")
	result, err := New(provider).Run(context.Background(), Request{
		Ticker: "IEF",
		AsOf:   "2024-03-15",
		Output: output,
	})
	require.NoError(t, err)

	// Window is exactly two calendar months each side
	assert.Equal(t, date(2024, time.January, 15), provider.gotStart)
	assert.Equal(t, date(2024, time.May, 16), provider.gotEndExclusive,
		"provider end bound is exclusive, so the request adds one day")
	assert.Equal(t, "IEF", provider.gotTicker)

	report := result.Report
	require.Len(t, report.Rows, 4)
	assert.Equal(t, "Before 2024-03-15", report.Rows[0].Segment)
	assert.Equal(t, "Before 2024-03-15", report.Rows[1].Segment)
	assert.Equal(t, "On/After 2024-03-15", report.Rows[2].Segment)
	assert.Equal(t, "On/After 2024-03-15", report.Rows[3].Segment)
	assert.InDelta(t, 95.5, report.Average, 1e-9)

	// Workbook round-trips
	got, err := exporter.ReadDailySheet(result.OutputPath)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, report.Rows[0].Date, got[0].Date)
	assert.Equal(t, report.Rows[3].Segment, got[3].Segment)
}

func TestApp_Run_NoDataWritesNoFile(t *testing.T) {
	provider := &fakeProvider{
		err: apperrors.NewNoDataError(
			"no price data was returned for ticker 'BOGUS' between 2024-01-15 and 2024-05-15"),
	}

	output := filepath.Join(t.TempDir(), "report.xlsx")
	_, err := New(provider).Run(context.Background(), Request{
		Ticker: "BOGUS",
		AsOf:   "2024-03-15",
		Output: output,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData))
	assert.Contains(t, err.Error(), "'BOGUS'")
	assert.Contains(t, err.Error(), "2024-01-15")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output file on failure")
}

func TestApp_Run_DefaultOutputPath(t *testing.T) {
	provider := &fakeProvider{
		table: tableWith(
			[]time.Time{date(2024, time.March, 15)},
			[]interface{}{96.0},
		),
	}

	// Run from a temp dir so the default path lands there
	wd, err := os.Getwd()
	require.NoError(t, err)
	tmp := t.TempDir()
	require.NoError(t, os.Chdir(tmp))
	defer func() { _ = os.Chdir(wd) }()

	result, err := New(provider).Run(context.Background(), Request{
		Ticker: "IEF",
		AsOf:   "2024-03-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "IEF_2024-03-15_daily_closes.xlsx", result.OutputPath)
	_, statErr := os.Stat(filepath.Join(tmp, result.OutputPath))
	assert.NoError(t, statErr)
}

func TestApp_Run_ExtensionEnforced(t *testing.T) {
	provider := &fakeProvider{
		table: tableWith(
			[]time.Time{date(2024, time.March, 15)},
			[]interface{}{96.0},
		),
	}

	output := filepath.Join(t.TempDir(), "report.csv")
	result, err := New(provider).Run(context.Background(), Request{
		Ticker: "IEF",
		AsOf:   "2024-03-15",
		Output: output,
	})
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(result.OutputPath))
}

func TestApp_Run_InvalidDate(t *testing.T) {
	provider := &fakeProvider{}

	tests := []string{"15-03-2024", "2024/03/15", "2024-13-01", "yesterday", ""}
	for _, asOf := range tests {
		t.Run(fmt.Sprintf("date %q", asOf), func(t *testing.T) {
			_, err := New(provider).Run(context.Background(), Request{
				Ticker: "IEF",
				AsOf:   asOf,
			})
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
			assert.Empty(t, provider.gotTicker, "no fetch on bad input")
		})
	}
}

func TestApp_Run_InvalidTicker(t *testing.T) {
	provider := &fakeProvider{}

	for _, ticker := range []string{"", "ief", "IEF$", "A B"} {
		t.Run(fmt.Sprintf("ticker %q", ticker), func(t *testing.T) {
			_, err := New(provider).Run(context.Background(), Request{
				Ticker: ticker,
				AsOf:   "2024-03-15",
			})
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
		})
	}
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 15), parsed)

	_, err = ParseDate("2024-03-99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'2024-03-99'")
}
