package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"closecli/internal/config"
	apperrors "closecli/internal/errors"
	"closecli/internal/infrastructure"
	"closecli/internal/series"
)

// Provider supplies historical daily price data. The end bound is
// exclusive, matching the upstream API; callers wanting an inclusive
// range pass end plus one day. Any market-data source satisfying this
// contract is substitutable.
type Provider interface {
	History(ctx context.Context, ticker string, start, endExclusive time.Time) (*series.RawTable, error)
}

// Client fetches daily price history from a chart-API-compatible provider.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a rate-limited provider client from configuration.
func NewClient(cfg config.ProviderConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	}
}

// History retrieves daily price records for the ticker over
// [start, endExclusive) and returns them as a raw table. An empty
// provider response is an error naming the ticker and the requested
// inclusive range.
func (c *Client) History(ctx context.Context, ticker string, start, endExclusive time.Time) (*series.RawTable, error) {
	logger := infrastructure.LoggerWithContext(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewNetworkError("rate limiter wait interrupted", err)
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history",
		c.baseURL, url.PathEscape(ticker), start.Unix(), endExclusive.Unix())

	logger.DebugContext(ctx, "requesting price history",
		"ticker", ticker,
		"start", start.Format("2006-01-02"),
		"end_exclusive", endExclusive.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to build provider request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("provider request for '%s' failed", ticker), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("provider returned status %d for ticker '%s'", resp.StatusCode, ticker), nil)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, apperrors.NewParsingError("failed to decode provider response", err)
	}

	if chart.Chart.Error != nil {
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("provider error for ticker '%s': %s (%s)",
				ticker, chart.Chart.Error.Description, chart.Chart.Error.Code), nil)
	}

	table, ok := buildTable(chart.Chart.Result, ticker)
	if !ok {
		return nil, noDataError(ticker, start, endExclusive)
	}

	logger.InfoContext(ctx, "fetched price history",
		"ticker", ticker,
		"rows", len(table.Dates),
		"shape", shapeName(table.Shape))

	return table, nil
}

// buildTable converts chart result blocks into a RawTable, resolving the
// shape once: a single bare quote block is a SingleField table; multiple
// blocks become a FieldByTicker grouping keyed by each block's symbol.
func buildTable(results []chartResult, ticker string) (*series.RawTable, bool) {
	blocks := make([]chartResult, 0, len(results))
	for _, result := range results {
		if len(result.Timestamp) > 0 && len(result.Indicators.Quote) > 0 {
			blocks = append(blocks, result)
		}
	}
	if len(blocks) == 0 {
		return nil, false
	}

	if len(blocks) == 1 {
		block := blocks[0]
		q := block.Indicators.Quote[0]
		return &series.RawTable{
			Shape: series.SingleField,
			Dates: toDates(block.Timestamp),
			Fields: map[string][]interface{}{
				"Open":            q.Open,
				"High":            q.High,
				"Low":             q.Low,
				series.FieldClose: q.Close,
				"Volume":          q.Volume,
			},
		}, true
	}

	// Multi-block responses index dates off the block matching the
	// requested ticker when present, else the first block. Blocks may
	// carry different timestamp sets, so every column is re-keyed onto
	// the index block's dates; dates a block lacks become nil cells.
	index := blocks[0]
	for _, block := range blocks {
		if block.Meta.Symbol == ticker {
			index = block
		}
	}

	grouped := map[string]map[string][]interface{}{
		"Open":            {},
		"High":            {},
		"Low":             {},
		series.FieldClose: {},
		"Volume":          {},
	}
	for _, block := range blocks {
		symbol := block.Meta.Symbol
		q := block.Indicators.Quote[0]
		grouped["Open"][symbol] = alignColumn(block.Timestamp, q.Open, index.Timestamp)
		grouped["High"][symbol] = alignColumn(block.Timestamp, q.High, index.Timestamp)
		grouped["Low"][symbol] = alignColumn(block.Timestamp, q.Low, index.Timestamp)
		grouped[series.FieldClose][symbol] = alignColumn(block.Timestamp, q.Close, index.Timestamp)
		grouped["Volume"][symbol] = alignColumn(block.Timestamp, q.Volume, index.Timestamp)
	}

	return &series.RawTable{
		Shape:   series.FieldByTicker,
		Dates:   toDates(index.Timestamp),
		Grouped: grouped,
	}, true
}

// alignColumn re-keys a block's cells from its own timestamps onto the
// index timestamps, matching by calendar day. Days the block has no
// observation for get a nil cell.
func alignColumn(blockTS []int64, cells []interface{}, indexTS []int64) []interface{} {
	byDay := make(map[time.Time]interface{}, len(blockTS))
	for i, ts := range blockTS {
		if i >= len(cells) {
			break
		}
		byDay[toDay(ts)] = cells[i]
	}

	aligned := make([]interface{}, len(indexTS))
	for i, ts := range indexTS {
		aligned[i] = byDay[toDay(ts)]
	}
	return aligned
}

// toDates converts unix-second timestamps to midnight-UTC dates
func toDates(timestamps []int64) []time.Time {
	dates := make([]time.Time, len(timestamps))
	for i, ts := range timestamps {
		dates[i] = toDay(ts)
	}
	return dates
}

// toDay truncates a unix-second timestamp to its midnight-UTC date
func toDay(ts int64) time.Time {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func noDataError(ticker string, start, endExclusive time.Time) error {
	end := endExclusive.AddDate(0, 0, -1)
	return apperrors.NewNoDataError(fmt.Sprintf(
		"no price data was returned for ticker '%s' between %s and %s",
		ticker, start.Format("2006-01-02"), end.Format("2006-01-02"))).
		WithContext("ticker", ticker)
}

func shapeName(s series.Shape) string {
	if s == series.FieldByTicker {
		return "field_by_ticker"
	}
	return "single_field"
}
