package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quvondiq/pricebot/internal/alert"
	"github.com/quvondiq/pricebot/internal/domain"
	"github.com/quvondiq/pricebot/internal/quote"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	mu     sync.Mutex
	quotes map[string]domain.Quote
	err    error
}

func (s *fakeSource) Fetch(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	failFor  map[int64]error
	notified []domain.FiredAlert
}

func (n *fakeNotifier) Notify(ownerID int64, fired domain.FiredAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failFor[ownerID]; ok {
		return err
	}
	n.notified = append(n.notified, fired)
	return nil
}

func decp(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func newTestPoller(source domain.QuoteSource, notifier Notifier, registry *alert.Registry, history *quote.History) *Poller {
	cache := quote.NewCache(source, time.Minute, zap.NewNop())
	evaluator := alert.NewEvaluator(registry)
	return New(cache, history, evaluator, notifier, zap.NewNop(), []string{"BTC", "ETH"}, time.Millisecond, time.Minute)
}

func TestRunOnceAppendsHistoryAndFiresAlerts(t *testing.T) {
	t.Parallel()

	source := &fakeSource{quotes: map[string]domain.Quote{
		"BTC": {Symbol: "BTC", Price: decp(52000)},
		"ETH": {Symbol: "ETH", Price: decp(3100)},
	}}
	notifier := &fakeNotifier{}
	registry := alert.NewRegistry()
	history := quote.NewHistory(100)

	registry.Add(domain.Condition{OwnerID: 1, Symbol: "BTC", TargetPrice: decimal.NewFromInt(50000), Direction: domain.Above})
	registry.Add(domain.Condition{OwnerID: 2, Symbol: "ETH", TargetPrice: decimal.NewFromInt(1000), Direction: domain.Below})

	p := newTestPoller(source, notifier, registry, history)
	p.RunOnce(context.Background())

	require.Equal(t, 1, history.Len("BTC"))
	require.Equal(t, 1, history.Len("ETH"))

	require.Len(t, notifier.notified, 1)
	require.Equal(t, int64(1), notifier.notified[0].OwnerID)
	require.Equal(t, "52000", notifier.notified[0].ObservedPrice.String())

	// The fired condition is gone, the unfired one stays.
	require.Empty(t, registry.ListFor(1))
	require.Len(t, registry.ListFor(2), 1)

	// Same prices again: no second notification for the fired condition.
	p.RunOnce(context.Background())
	require.Len(t, notifier.notified, 1)
	require.Equal(t, 2, history.Len("BTC"))
}

func TestRunOnceContinuesAfterDeliveryFailure(t *testing.T) {
	t.Parallel()

	source := &fakeSource{quotes: map[string]domain.Quote{
		"BTC": {Symbol: "BTC", Price: decp(52000)},
	}}
	notifier := &fakeNotifier{failFor: map[int64]error{1: errors.New("unreachable")}}
	registry := alert.NewRegistry()

	registry.Add(domain.Condition{OwnerID: 1, Symbol: "BTC", TargetPrice: decimal.NewFromInt(50000), Direction: domain.Above})
	registry.Add(domain.Condition{OwnerID: 2, Symbol: "BTC", TargetPrice: decimal.NewFromInt(50000), Direction: domain.Above})

	p := newTestPoller(source, notifier, registry, quote.NewHistory(100))
	p.RunOnce(context.Background())

	// Owner 1's delivery failed, owner 2 was still served.
	require.Len(t, notifier.notified, 1)
	require.Equal(t, int64(2), notifier.notified[0].OwnerID)
}

func TestRunOnceSkipsQuietlyOnFetchFailure(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: errors.New("boom")}
	notifier := &fakeNotifier{}
	registry := alert.NewRegistry()
	history := quote.NewHistory(100)

	registry.Add(domain.Condition{OwnerID: 1, Symbol: "BTC", TargetPrice: decimal.NewFromInt(1), Direction: domain.Above})

	p := newTestPoller(source, notifier, registry, history)
	p.RunOnce(context.Background())

	require.Equal(t, 0, history.Len("BTC"))
	require.Empty(t, notifier.notified)
	require.Len(t, registry.ListFor(1), 1)
}

func TestRunOnceSkipsAbsentPricesInHistory(t *testing.T) {
	t.Parallel()

	source := &fakeSource{quotes: map[string]domain.Quote{
		"BTC": {Symbol: "BTC", Price: decp(52000)},
		"ETH": {Symbol: "ETH"},
	}}
	history := quote.NewHistory(100)

	p := newTestPoller(source, &fakeNotifier{}, alert.NewRegistry(), history)
	p.RunOnce(context.Background())

	require.Equal(t, 1, history.Len("BTC"))
	require.Equal(t, 0, history.Len("ETH"))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	source := &fakeSource{quotes: map[string]domain.Quote{}}
	p := newTestPoller(source, &fakeNotifier{}, alert.NewRegistry(), quote.NewHistory(100))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
}
