package notifications

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"netdo/internal/config"
)

// TelegramBot is the slice of the bot API the channel needs.
type TelegramBot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BotFactory creates a TelegramBot; tests substitute a fake.
type BotFactory func(token, apiEndpoint string, client *http.Client) (TelegramBot, error)

var defaultBotFactory BotFactory = func(token, apiEndpoint string, client *http.Client) (TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, client)
	if err != nil {
		return nil, err
	}
	return bot, nil
}

// Telegram sends notifications to one chat. The bot is created on first
// delivery so constructing the channel never touches the network.
type Telegram struct {
	token   string
	chatID  int64
	client  *http.Client
	factory BotFactory

	mu  sync.Mutex
	bot TelegramBot
}

// NewTelegram builds a Telegram channel. A nil factory uses the real bot API.
func NewTelegram(token string, chatID int64, client *http.Client, factory BotFactory) (*Telegram, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("telegram channel: token is required")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram channel: chat id is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	if factory == nil {
		factory = defaultBotFactory
	}
	return &Telegram{token: token, chatID: chatID, client: client, factory: factory}, nil
}

func (t *Telegram) Name() string { return config.ChannelTelegram }

func (t *Telegram) Deliver(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bot, err := t.ensureBot()
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("%s\n%s", n.Title, n.Message))
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

func (t *Telegram) ensureBot() (TelegramBot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := t.factory(t.token, tgbotapi.APIEndpoint, t.client)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	t.bot = bot
	return bot, nil
}
