package app

import (
	"context"

	"github.com/quvondiq/pricebot/internal/alert"
	"github.com/quvondiq/pricebot/internal/config"
	"github.com/quvondiq/pricebot/internal/delivery/telegram"
	"github.com/quvondiq/pricebot/internal/domain"
	"github.com/quvondiq/pricebot/internal/infra/coingecko"
	"github.com/quvondiq/pricebot/internal/infra/log"
	"github.com/quvondiq/pricebot/internal/poller"
	"github.com/quvondiq/pricebot/internal/quote"
	"github.com/quvondiq/pricebot/internal/wizard"
	"go.uber.org/zap"
)

type App struct {
	bot    *telegram.Bot
	poller *poller.Poller
	logger *zap.Logger
}

func New(cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	source := coingecko.NewClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoTimeout, logger)
	cache := quote.NewCache(source, cfg.QuoteCacheTTL, logger)
	history := quote.NewHistory(cfg.HistoryCapacity)
	registry := alert.NewRegistry()
	evaluator := alert.NewEvaluator(registry)
	wiz := wizard.New(registry)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	notifier := telegram.NewNotifier(api, logger)
	backgroundPoller := poller.New(cache, history, evaluator, notifier, logger, domain.CoreSymbols, cfg.PollInitialDelay, cfg.PollInterval)
	handlers := telegram.NewHandlers(cache, history, registry, wiz, logger, cfg.StatsWindow)
	bot := telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)

	return &App{bot: bot, poller: backgroundPoller, logger: logger}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("pricebot service starting")

	// The poller runs for the whole process lifetime; it stops only when
	// ctx is cancelled at shutdown.
	go a.poller.Run(ctx)

	a.logger.Info("pricebot service started")
	return a.bot.Start(ctx)
}

func (a *App) Shutdown() {
	a.logger.Info("pricebot service shutting down")
	_ = a.logger.Sync()
}
