package telegram

import (
	"testing"
	"time"

	"github.com/quvondiq/pricebot/internal/domain"
	"github.com/quvondiq/pricebot/internal/quote"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func decp(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestTrendEmoji(t *testing.T) {
	t.Parallel()

	require.Equal(t, "➖", trendEmoji(nil))
	require.Equal(t, "🚀", trendEmoji(decp(7.5)))
	require.Equal(t, "📈", trendEmoji(decp(2)))
	require.Equal(t, "➖", trendEmoji(decp(0)))
	require.Equal(t, "🔻", trendEmoji(decp(-2)))
	require.Equal(t, "📉", trendEmoji(decp(-8)))
}

func TestFormatQuotes(t *testing.T) {
	t.Parallel()

	snap := &domain.Snapshot{
		Quotes: map[string]domain.Quote{
			"BTC": {Symbol: "BTC", Price: decp(50000), Change24h: decp(1.5)},
			"ETH": {Symbol: "ETH"},
			"TON": {Symbol: "TON", Price: decp(5.25)},
		},
		FetchedAt: time.Date(2026, 3, 1, 14, 30, 5, 0, time.UTC),
	}

	text := formatQuotes(snap, []string{"BTC", "ETH", "TON"})
	require.Contains(t, text, "<b>BTC</b>: $50000.00")
	require.Contains(t, text, "+1.50%")
	require.Contains(t, text, "<b>TON</b>: $5.25")
	require.Contains(t, text, "N/A")
	require.Contains(t, text, "14:30:05")
	// No price, no line.
	require.NotContains(t, text, "<b>ETH</b>")
}

func TestFormatAlertList(t *testing.T) {
	t.Parallel()

	require.Contains(t, formatAlertList(nil), "no alerts yet")

	conditions := []domain.Condition{
		{Symbol: "BTC", TargetPrice: decimal.NewFromInt(50000), Direction: domain.Above},
		{Symbol: "TON", TargetPrice: decimal.NewFromFloat(4.5), Direction: domain.Below},
	}
	text := formatAlertList(conditions)
	require.Contains(t, text, "1. BTC above $50000.00")
	require.Contains(t, text, "2. TON below $4.50")
}

func TestFormatFiredAlert(t *testing.T) {
	t.Parallel()

	text := formatFiredAlert(domain.FiredAlert{
		OwnerID:       1,
		Symbol:        "BTC",
		TargetPrice:   decimal.NewFromInt(50000),
		Direction:     domain.Above,
		ObservedPrice: decimal.NewFromFloat(50120.42),
	})
	require.Contains(t, text, "BTC reached $50120.42")
	require.Contains(t, text, "$50000.00")
}

func TestFormatStatsCollectsCoreSymbols(t *testing.T) {
	t.Parallel()

	history := quote.NewHistory(100)
	require.Contains(t, formatStats(history, 10), "Still collecting data")

	now := time.Now()
	history.Append("BTC", decp(10), now)
	history.Append("BTC", decp(20), now)

	text := formatStats(history, 10)
	require.Contains(t, text, "<b>BTC</b> (last 2 points)")
	require.Contains(t, text, "Mean: $15.00")
	require.Contains(t, text, "Min: $10.00")
	require.Contains(t, text, "Max: $20.00")
}
