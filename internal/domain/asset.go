package domain

// Asset is a supported cryptocurrency: its CoinGecko identifier plus
// display attributes.
type Asset struct {
	ID     string
	Symbol string
	Name   string
	Emoji  string
}

var assets = []Asset{
	{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", Emoji: "\U0001F7E0"},
	{ID: "ethereum", Symbol: "ETH", Name: "Ethereum", Emoji: "\U0001F535"},
	{ID: "the-open-network", Symbol: "TON", Name: "TON", Emoji: "\U0001F48E"},
	{ID: "tether", Symbol: "USDT", Name: "Tether", Emoji: "\U0001F4B5"},
	{ID: "binancecoin", Symbol: "BNB", Name: "BNB", Emoji: "\U0001F7E1"},
	{ID: "solana", Symbol: "SOL", Name: "Solana", Emoji: "\U0001F7E3"},
	{ID: "ripple", Symbol: "XRP", Name: "Ripple", Emoji: "⚪"},
}

// CoreSymbols is the set the background poller tracks and the one
// history and statistics are kept for.
var CoreSymbols = []string{"BTC", "ETH", "TON"}

func Assets() []Asset {
	out := make([]Asset, len(assets))
	copy(out, assets)
	return out
}

func AssetBySymbol(symbol string) (Asset, bool) {
	for _, a := range assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}

func AssetByID(id string) (Asset, bool) {
	for _, a := range assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// AllSymbols lists every supported symbol in catalog order.
func AllSymbols() []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Symbol
	}
	return out
}
