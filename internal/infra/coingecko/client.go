package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quvondiq/pricebot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client fetches quotes from the CoinGecko simple/price endpoint. All
// transport and upstream failures surface as plain errors except rate
// limiting, which maps to domain.ErrThrottled so the cache can degrade
// to stale data.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type coinPayload struct {
	USD          *float64 `json:"usd"`
	USD24hChange *float64 `json:"usd_24h_change"`
	USDMarketCap *float64 `json:"usd_market_cap"`
}

func (c *Client) Fetch(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	ids := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		asset, ok := domain.AssetBySymbol(symbol)
		if !ok {
			return nil, fmt.Errorf("coingecko: unsupported symbol %q", symbol)
		}
		ids = append(ids, asset.ID)
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_change", "true")
	query.Set("include_market_cap", "true")
	endpoint := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("coingecko request failed", zap.Strings("symbols", symbols), zap.Error(err))
		return nil, err
	}
	defer response.Body.Close()

	c.logger.Debug(
		"coingecko request complete",
		zap.Strings("symbols", symbols),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode == http.StatusTooManyRequests {
		return nil, domain.ErrThrottled
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("coingecko: status %d", response.StatusCode)
	}

	var payload map[string]coinPayload
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, err
	}

	quotes := make(map[string]domain.Quote, len(payload))
	for id, coin := range payload {
		asset, ok := domain.AssetByID(id)
		if !ok {
			continue
		}
		quotes[asset.Symbol] = domain.Quote{
			Symbol:    asset.Symbol,
			Price:     toDecimal(coin.USD),
			Change24h: toDecimal(coin.USD24hChange),
			MarketCap: toDecimal(coin.USDMarketCap),
		}
	}
	return quotes, nil
}

func toDecimal(value *float64) *decimal.Decimal {
	if value == nil {
		return nil
	}
	d := decimal.NewFromFloat(*value)
	return &d
}
