package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnavailable means no usable quote data exists, fresh or stale.
	ErrUnavailable = errors.New("quote data unavailable")
	// ErrThrottled means the upstream source rejected the request due to rate limiting.
	ErrThrottled = errors.New("upstream throttled")
)

// Quote is one asset's observation as returned by the upstream source.
// Fields the upstream omits stay nil; they are never defaulted to zero.
type Quote struct {
	Symbol    string
	Price     *decimal.Decimal
	Change24h *decimal.Decimal
	MarketCap *decimal.Decimal
}

// Snapshot is the full set of quotes known at FetchedAt. It is replaced
// as a whole on refresh, never mutated in place.
type Snapshot struct {
	Quotes    map[string]Quote
	FetchedAt time.Time
}

// HistoryPoint is one observed price for a symbol.
type HistoryPoint struct {
	Time  time.Time
	Price decimal.Decimal
}

// QuoteSource fetches current quotes for a set of symbols.
type QuoteSource interface {
	Fetch(ctx context.Context, symbols []string) (map[string]Quote, error)
}
