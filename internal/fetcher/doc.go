// Package fetcher retrieves historical daily price data from the
// market-data provider's chart API. It is the external collaborator
// boundary: retry, caching, and rate-limit behavior beyond the outbound
// limiter are the provider's responsibility, not this tool's.
package fetcher
