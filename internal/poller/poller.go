package poller

import (
	"context"
	"time"

	"github.com/quvondiq/pricebot/internal/alert"
	"github.com/quvondiq/pricebot/internal/domain"
	"github.com/quvondiq/pricebot/internal/quote"
	"go.uber.org/zap"
)

// Notifier delivers one fired alert to its owner.
type Notifier interface {
	Notify(ownerID int64, fired domain.FiredAlert) error
}

// Poller is the long-lived background loop: refresh quotes for the core
// symbols, append history, evaluate alerts, dispatch notifications.
// Iteration failures are logged and the loop continues; only context
// cancellation stops it.
type Poller struct {
	cache     *quote.Cache
	history   *quote.History
	evaluator *alert.Evaluator
	notifier  Notifier
	logger    *zap.Logger

	symbols      []string
	initialDelay time.Duration
	interval     time.Duration
}

func New(cache *quote.Cache, history *quote.History, evaluator *alert.Evaluator, notifier Notifier, logger *zap.Logger, symbols []string, initialDelay, interval time.Duration) *Poller {
	return &Poller{
		cache:        cache,
		history:      history,
		evaluator:    evaluator,
		notifier:     notifier,
		logger:       logger,
		symbols:      symbols,
		initialDelay: initialDelay,
		interval:     interval,
	}
}

// Run blocks until ctx is cancelled. The inter-iteration delay is fixed
// regardless of how long an iteration took.
func (p *Poller) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(p.initialDelay):
	}

	p.logger.Info("background poller started", zap.Strings("symbols", p.symbols), zap.Duration("interval", p.interval))
	for {
		p.RunOnce(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("background poller stopped")
			return
		case <-time.After(p.interval):
		}
	}
}

// RunOnce executes a single poll iteration. It never panics past its
// boundary.
func (p *Poller) RunOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("poll iteration panicked", zap.Any("panic", r))
		}
	}()

	snap, err := p.cache.Refresh(ctx, p.symbols)
	if err != nil {
		p.logger.Warn("quote refresh failed", zap.Error(err))
		return
	}

	for _, symbol := range p.symbols {
		if q, ok := snap.Quotes[symbol]; ok {
			p.history.Append(symbol, q.Price, snap.FetchedAt)
		}
	}

	// Evaluate against a cache-backed read; normally this reuses the
	// snapshot stored a moment ago.
	evalSnap, err := p.cache.Get(ctx, p.symbols, true)
	if err != nil {
		p.logger.Warn("no snapshot for alert evaluation", zap.Error(err))
		return
	}

	fired := p.evaluator.Evaluate(evalSnap)
	for _, f := range fired {
		if err := p.notifier.Notify(f.OwnerID, f); err != nil {
			p.logger.Warn("failed to deliver alert",
				zap.Int64("owner_id", f.OwnerID),
				zap.String("symbol", f.Symbol),
				zap.Error(err),
			)
			continue
		}
		p.logger.Info("alert fired",
			zap.Int64("owner_id", f.OwnerID),
			zap.String("symbol", f.Symbol),
			zap.String("target", f.TargetPrice.String()),
			zap.String("observed", f.ObservedPrice.String()),
		)
	}
}
