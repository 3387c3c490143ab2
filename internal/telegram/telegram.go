package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/bot"
	applog "finbot/internal/log"
)

// Bot runs the long-polling loop and bridges Telegram updates to the
// command router. All Telegram-specific types stay in this package.
type Bot struct {
	api    *tgbotapi.BotAPI
	router *bot.Router
	log    *applog.Logger
}

func NewBot(token string, router *bot.Router, logger *applog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	return &Bot{
		api:    api,
		router: router,
		log:    logger.WithComponent(applog.ComponentTelegram),
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.log.Info("Bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("Bot stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := msg.Text

	// In group chats the button press arrives with the bot mentioned.
	if msg.Chat.IsGroup() || msg.Chat.IsSuperGroup() {
		text = strings.ReplaceAll(text, "@"+b.api.Self.UserName, "")
		text = strings.TrimSpace(text)
	}
	if text == "" {
		return
	}

	reply := b.router.HandleMessage(ctx, msg.From.ID, text)
	if reply.Text == "" {
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, reply.Text)
	if markup, ok := replyMarkup(reply.Keyboard); ok {
		out.ReplyMarkup = markup
	}

	if _, err := b.api.Send(out); err != nil {
		b.log.Error("Failed to send reply",
			applog.FieldChatID, msg.Chat.ID, applog.FieldError, err)
	}
}

// replyMarkup renders a keyboard selection into Telegram markup.
func replyMarkup(kb bot.Keyboard) (tgbotapi.ReplyKeyboardMarkup, bool) {
	var rows [][]string
	switch kb {
	case bot.KeyboardMain:
		rows = bot.MainKeyboardRows
	case bot.KeyboardCancel:
		rows = bot.CancelKeyboardRows
	case bot.KeyboardPeriods:
		rows = bot.PeriodsKeyboardRows
	default:
		return tgbotapi.ReplyKeyboardMarkup{}, false
	}

	buttonRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		buttonRows = append(buttonRows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	return tgbotapi.NewReplyKeyboard(buttonRows...), true
}
