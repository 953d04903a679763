package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"netdo/internal/config"
	"netdo/internal/logging"
)

// Channel delivers a notification to an external recipient.
type Channel interface {
	Deliver(ctx context.Context, n Notification) error
	Name() string
}

// Simulated stands in for a real channel; delivery always succeeds.
type Simulated struct {
	Logger *slog.Logger
}

func (s Simulated) Deliver(_ context.Context, n Notification) error {
	if s.Logger != nil {
		s.Logger.Debug("simulated delivery",
			logging.String(logging.FieldNotificationID, n.ID),
			logging.String("message", n.Message),
		)
	}
	return nil
}

func (Simulated) Name() string { return config.ChannelSimulated }

// NewChannel builds the channel selected by cfg.
func NewChannel(cfg *config.Config, logger *slog.Logger) (Channel, error) {
	logger = logging.NewComponentLogger(logger, "delivery")
	if cfg == nil {
		return Simulated{Logger: logger}, nil
	}
	client := &http.Client{Timeout: cfg.RequestTimeout()}
	switch cfg.Notifications.Channel {
	case "", config.ChannelSimulated:
		return Simulated{Logger: logger}, nil
	case config.ChannelNtfy:
		topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
		if topic == "" {
			return nil, fmt.Errorf("ntfy channel: topic is required")
		}
		return NewNtfy(topic, client), nil
	case config.ChannelTelegram:
		return NewTelegram(cfg.Notifications.TelegramToken, cfg.Notifications.TelegramChatID, client, nil)
	default:
		return nil, fmt.Errorf("unsupported notifications channel %q", cfg.Notifications.Channel)
	}
}
