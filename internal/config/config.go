package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`

	CoinGeckoBaseURL string        `env:"COINGECKO_BASE_URL,default=https://api.coingecko.com/api/v3"`
	CoinGeckoTimeout time.Duration `env:"COINGECKO_TIMEOUT,default=15s"`

	QuoteCacheTTL    time.Duration `env:"QUOTE_CACHE_TTL,default=60s"`
	HistoryCapacity  int           `env:"HISTORY_CAPACITY,default=100"`
	StatsWindow      int           `env:"STATS_WINDOW,default=10"`
	PollInterval     time.Duration `env:"POLL_INTERVAL,default=2m"`
	PollInitialDelay time.Duration `env:"POLL_INITIAL_DELAY,default=5s"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
