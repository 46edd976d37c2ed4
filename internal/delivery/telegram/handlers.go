package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/quvondiq/pricebot/internal/alert"
	"github.com/quvondiq/pricebot/internal/domain"
	"github.com/quvondiq/pricebot/internal/quote"
	"github.com/quvondiq/pricebot/internal/wizard"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handlers struct {
	cache       *quote.Cache
	history     *quote.History
	registry    *alert.Registry
	wizard      *wizard.Wizard
	logger      *zap.Logger
	statsWindow int
}

func NewHandlers(cache *quote.Cache, history *quote.History, registry *alert.Registry, wiz *wizard.Wizard, logger *zap.Logger, statsWindow int) *Handlers {
	return &Handlers{
		cache:       cache,
		history:     history,
		registry:    registry,
		wizard:      wiz,
		logger:      logger,
		statsWindow: statsWindow,
	}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.handleCallback(ctx, api, update.CallbackQuery)
		return
	}
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
		return
	}
	h.handleText(api, update)
}

func (h *Handlers) handleCommand(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	command := update.Message.Command()
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.Int64("owner_id", userID),
		zap.String("command", command),
	)

	switch command {
	case "start":
		h.replyWithKeyboard(api, chatID, WelcomeText, mainKeyboard())
	case "help":
		h.replyWithKeyboard(api, chatID, HelpText, mainKeyboard())
	case "price":
		h.reply(api, chatID, h.priceText(ctx, domain.CoreSymbols))
	case "alert":
		h.wizard.Begin(userID)
		h.replyWithKeyboard(api, chatID, "🔔 <b>Set an alert</b>\n\nWhich asset do you want to watch?", assetKeyboard())
	case "stats":
		h.reply(api, chatID, formatStats(h.history, h.statsWindow))
	default:
		h.logger.Warn("unknown command", zap.Int64("owner_id", userID), zap.String("command", command))
		h.reply(api, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) handleCallback(ctx context.Context, api *tgbotapi.BotAPI, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil {
		return
	}
	data := cq.Data
	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID
	userID := cq.From.ID

	h.logger.Info("telegram callback received", zap.Int64("owner_id", userID), zap.String("data", data))

	defer func() {
		if _, err := api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			h.logger.Warn("failed to answer callback", zap.Error(err))
		}
	}()

	switch {
	case data == callbackPricesAll:
		h.edit(api, chatID, messageID, h.priceText(ctx, domain.AllSymbols()), mainKeyboard())
	case data == callbackPricesTop3:
		h.edit(api, chatID, messageID, h.priceText(ctx, domain.CoreSymbols), mainKeyboard())
	case data == callbackSetAlert:
		h.wizard.Begin(userID)
		h.edit(api, chatID, messageID, "🔔 <b>Set an alert</b>\n\nWhich asset do you want to watch?", assetKeyboard())
	case strings.HasPrefix(data, callbackAssetPrefix):
		h.handleAssetChoice(api, chatID, messageID, userID, strings.TrimPrefix(data, callbackAssetPrefix))
	case data == callbackDirAbove:
		h.handleDirectionChoice(ctx, api, chatID, messageID, userID, domain.Above)
	case data == callbackDirBelow:
		h.handleDirectionChoice(ctx, api, chatID, messageID, userID, domain.Below)
	case data == callbackMyAlerts:
		h.edit(api, chatID, messageID, formatAlertList(h.registry.ListFor(userID)), mainKeyboard())
	case data == callbackStatistics:
		h.edit(api, chatID, messageID, formatStats(h.history, h.statsWindow), mainKeyboard())
	case data == callbackHelp:
		h.edit(api, chatID, messageID, HelpText, mainKeyboard())
	case data == callbackBackMain:
		h.wizard.OnCancel(userID)
		h.edit(api, chatID, messageID, "👋 <b>Main menu</b>\n\nPick an option below:", mainKeyboard())
	default:
		h.logger.Warn("unknown callback", zap.Int64("owner_id", userID), zap.String("data", data))
	}
}

func (h *Handlers) handleAssetChoice(api *tgbotapi.BotAPI, chatID int64, messageID int, userID int64, symbol string) {
	session, err := h.wizard.OnAssetChosen(userID, symbol)
	if err != nil {
		h.logger.Warn("asset choice rejected", zap.Int64("owner_id", userID), zap.String("symbol", symbol), zap.Error(err))
		h.edit(api, chatID, messageID, "That selection is no longer valid. Start over with /alert.", mainKeyboard())
		return
	}
	text := "🔔 <b>Alert for " + session.Symbol + "</b>\n\nWhen should I message you?"
	h.edit(api, chatID, messageID, text, directionKeyboard())
}

func (h *Handlers) handleDirectionChoice(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, messageID int, userID int64, direction domain.Direction) {
	session, err := h.wizard.OnDirectionChosen(userID, direction)
	if err != nil {
		h.logger.Warn("direction choice rejected", zap.Int64("owner_id", userID), zap.Error(err))
		h.edit(api, chatID, messageID, "That selection is no longer valid. Start over with /alert.", mainKeyboard())
		return
	}
	h.editPlain(api, chatID, messageID, formatPricePrompt(session.Symbol, session.Direction, h.currentPrice(ctx, session.Symbol)))
}

func (h *Handlers) handleText(api *tgbotapi.BotAPI, update tgbotapi.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	session, ok := h.wizard.Session(userID)
	if !ok || session.Phase != wizard.AwaitingPrice {
		return
	}

	cond, err := h.wizard.OnPriceText(userID, update.Message.Text)
	if err != nil {
		if errors.Is(err, wizard.ErrInvalidPriceFormat) {
			h.reply(api, chatID, "❌ Wrong format! Please enter a positive number.\nFor example: 50000 or 3500.50")
			return
		}
		h.logger.Warn("price input rejected", zap.Int64("owner_id", userID), zap.Error(err))
		h.reply(api, chatID, "Something went wrong. Start over with /alert.")
		return
	}

	h.logger.Info(
		"alert created",
		zap.Int64("owner_id", userID),
		zap.String("symbol", cond.Symbol),
		zap.String("direction", cond.Direction.String()),
		zap.String("target", cond.TargetPrice.String()),
	)
	h.replyWithKeyboard(api, chatID, formatConditionCreated(cond), mainKeyboard())
}

// priceText fetches (cache permitting) and formats quotes for the given
// symbols. Upstream failures degrade to a short apology, never an error.
func (h *Handlers) priceText(ctx context.Context, symbols []string) string {
	snap, err := h.cache.Get(ctx, symbols, true)
	if err != nil {
		h.logger.Warn("price fetch failed", zap.Error(err))
		return formatUnavailable(time.Now())
	}
	return formatQuotes(snap, symbols)
}

func (h *Handlers) currentPrice(ctx context.Context, symbol string) *decimal.Decimal {
	snap, err := h.cache.Get(ctx, domain.AllSymbols(), true)
	if err != nil {
		return nil
	}
	if q, ok := snap.Quotes[symbol]; ok {
		return q.Price
	}
	return nil
}

func (h *Handlers) reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}

func (h *Handlers) replyWithKeyboard(api *tgbotapi.BotAPI, chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}

func (h *Handlers) edit(api *tgbotapi.BotAPI, chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to edit message", zap.Error(err))
	}
}

func (h *Handlers) editPlain(api *tgbotapi.BotAPI, chatID int64, messageID int, text string) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to edit message", zap.Error(err))
	}
}
