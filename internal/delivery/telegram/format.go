package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/quvondiq/pricebot/internal/domain"
	"github.com/quvondiq/pricebot/internal/quote"
	"github.com/shopspring/decimal"
)

const WelcomeText = `👋 <b>Welcome to the Crypto Price Bot!</b>

I help you keep an eye on cryptocurrency prices.

🚀 <b>Features:</b>
• Live prices with 24h change
• Price alerts
• Price statistics

Pick an option below:`

const HelpText = `ℹ️ <b>Help</b>

<b>Commands:</b>
/start - open the main menu
/price - show current prices
/alert - set a price alert
/stats - show price statistics
/help - show this help

<b>Alerts:</b>
Pick an asset, a direction (above or below) and a target price.
You get exactly one message when the price crosses it; set a new
alert to keep watching the same level.`

const (
	callbackPricesAll  = "prices_all"
	callbackPricesTop3 = "prices_top3"
	callbackSetAlert   = "set_alert"
	callbackMyAlerts   = "my_alerts"
	callbackStatistics = "statistics"
	callbackHelp       = "help"
	callbackBackMain   = "back_main"

	callbackAssetPrefix = "asset_"
	callbackDirAbove    = "dir_above"
	callbackDirBelow    = "dir_below"
)

func mainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 All prices", callbackPricesAll),
			tgbotapi.NewInlineKeyboardButtonData("📊 Top 3", callbackPricesTop3),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 Set alert", callbackSetAlert),
			tgbotapi.NewInlineKeyboardButtonData("📋 My alerts", callbackMyAlerts),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 Statistics", callbackStatistics),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Help", callbackHelp),
		),
	)
}

func assetKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(domain.CoreSymbols)+1)
	for _, symbol := range domain.CoreSymbols {
		asset, _ := domain.AssetBySymbol(symbol)
		label := fmt.Sprintf("%s %s", asset.Emoji, asset.Symbol)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackAssetPrefix+asset.Symbol),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackBackMain),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func directionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 When price rises", callbackDirAbove),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📉 When price falls", callbackDirBelow),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackBackMain),
		),
	)
}

func trendEmoji(change *decimal.Decimal) string {
	if change == nil {
		return "➖"
	}
	switch {
	case change.GreaterThan(decimal.NewFromInt(5)):
		return "🚀"
	case change.IsPositive():
		return "📈"
	case change.LessThan(decimal.NewFromInt(-5)):
		return "📉"
	case change.IsNegative():
		return "🔻"
	default:
		return "➖"
	}
}

func formatQuotes(snap *domain.Snapshot, symbols []string) string {
	var builder strings.Builder
	builder.WriteString("💰 <b>Cryptocurrency Prices (USD)</b>\n\n")

	for _, symbol := range symbols {
		q, ok := snap.Quotes[symbol]
		if !ok || q.Price == nil {
			continue
		}
		asset, _ := domain.AssetBySymbol(symbol)

		changeText := "N/A"
		if q.Change24h != nil {
			sign := ""
			if !q.Change24h.IsNegative() {
				sign = "+"
			}
			changeText = fmt.Sprintf("%s%s%%", sign, q.Change24h.StringFixed(2))
		}

		builder.WriteString(fmt.Sprintf("%s <b>%s</b>: $%s\n", asset.Emoji, symbol, q.Price.StringFixed(2)))
		builder.WriteString(fmt.Sprintf("   %s 24h: %s\n\n", trendEmoji(q.Change24h), changeText))
	}

	builder.WriteString(fmt.Sprintf("🕐 Updated: %s", snap.FetchedAt.Format("15:04:05")))
	return builder.String()
}

func formatStats(history *quote.History, window int) string {
	var builder strings.Builder
	builder.WriteString("📊 <b>Price Statistics</b>\n\n")

	wrote := false
	for _, symbol := range domain.CoreSymbols {
		stats, ok := history.Stats(symbol, window)
		if !ok {
			continue
		}
		wrote = true
		builder.WriteString(fmt.Sprintf("<b>%s</b> (last %d points):\n", symbol, stats.Count))
		builder.WriteString(fmt.Sprintf("  📍 Mean: $%s\n", stats.Mean.StringFixed(2)))
		builder.WriteString(fmt.Sprintf("  📉 Min: $%s\n", stats.Min.StringFixed(2)))
		builder.WriteString(fmt.Sprintf("  📈 Max: $%s\n\n", stats.Max.StringFixed(2)))
	}

	if !wrote {
		builder.WriteString("Still collecting data, check back in a few minutes...")
	}
	return builder.String()
}

func formatAlertList(conditions []domain.Condition) string {
	if len(conditions) == 0 {
		return "📋 <b>You have no alerts yet</b>\n\nUse the Set alert button to create one."
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Your alerts:</b>\n\n")
	for i, cond := range conditions {
		builder.WriteString(fmt.Sprintf("%d. %s %s $%s\n", i+1, cond.Symbol, cond.Direction.String(), cond.TargetPrice.StringFixed(2)))
	}
	return builder.String()
}

func formatFiredAlert(fired domain.FiredAlert) string {
	return fmt.Sprintf(
		"🔔 <b>ALERT!</b>\n\n%s reached $%s!\nYour target: $%s (%s)",
		fired.Symbol,
		fired.ObservedPrice.StringFixed(2),
		fired.TargetPrice.StringFixed(2),
		fired.Direction.String(),
	)
}

func formatPricePrompt(symbol string, direction domain.Direction, current *decimal.Decimal) string {
	currentText := "N/A"
	if current != nil {
		currentText = "$" + current.StringFixed(2)
	}
	return fmt.Sprintf(
		"💰 <b>Enter a target price for %s</b>\n\nCurrent price: %s\n\nYou will be notified when the price goes %s it.\nFor example: 50000 or 3500.50",
		symbol,
		currentText,
		direction.String(),
	)
}

func formatConditionCreated(cond domain.Condition) string {
	return fmt.Sprintf(
		"✅ <b>Alert set!</b>\n\n💎 Asset: %s\n💰 Price: $%s (%s)\n\nYou will get a message when the price crosses it!",
		cond.Symbol,
		cond.TargetPrice.StringFixed(2),
		cond.Direction.String(),
	)
}

func formatUnavailable(now time.Time) string {
	return fmt.Sprintf("❌ Could not fetch prices right now, try again later.\n🕐 %s", now.Format("15:04:05"))
}
