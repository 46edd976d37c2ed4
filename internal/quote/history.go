package quote

import (
	"sync"
	"time"

	"github.com/quvondiq/pricebot/internal/domain"
	"github.com/shopspring/decimal"
)

// History keeps a bounded FIFO series of observed prices per symbol.
// Appending past capacity evicts the single oldest point.
type History struct {
	capacity int

	mu     sync.RWMutex
	points map[string][]domain.HistoryPoint
}

func NewHistory(capacity int) *History {
	return &History{capacity: capacity, points: make(map[string][]domain.HistoryPoint)}
}

// Append records one observation. A nil price is a no-op: absence is
// not data.
func (h *History) Append(symbol string, price *decimal.Decimal, at time.Time) {
	if price == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	series := h.points[symbol]
	if len(series) >= h.capacity {
		series = series[1:len(series):len(series)]
	}
	h.points[symbol] = append(series, domain.HistoryPoint{Time: at, Price: *price})
}

// Recent returns up to n most recent points, oldest first. An empty
// result means insufficient data, not an error.
func (h *History) Recent(symbol string, n int) []domain.HistoryPoint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	series := h.points[symbol]
	if n > len(series) {
		n = len(series)
	}
	if n <= 0 {
		return nil
	}
	out := make([]domain.HistoryPoint, n)
	copy(out, series[len(series)-n:])
	return out
}

// Len reports how many points are held for a symbol.
func (h *History) Len(symbol string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.points[symbol])
}

type Stats struct {
	Min   decimal.Decimal
	Max   decimal.Decimal
	Mean  decimal.Decimal
	Count int
}

// Stats derives min/max/mean over the last n points. The second return
// is false when no data has been observed yet.
func (h *History) Stats(symbol string, n int) (Stats, bool) {
	points := h.Recent(symbol, n)
	if len(points) == 0 {
		return Stats{}, false
	}

	min := points[0].Price
	max := points[0].Price
	sum := decimal.Zero
	for _, p := range points {
		if p.Price.LessThan(min) {
			min = p.Price
		}
		if p.Price.GreaterThan(max) {
			max = p.Price
		}
		sum = sum.Add(p.Price)
	}

	return Stats{
		Min:   min,
		Max:   max,
		Mean:  sum.Div(decimal.NewFromInt(int64(len(points)))),
		Count: len(points),
	}, true
}
