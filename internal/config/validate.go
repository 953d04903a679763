package config

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateNetwork(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case StoreBackendSQLite, StoreBackendMemory:
		return nil
	default:
		return fmt.Errorf("store.backend: unsupported value %q (expected sqlite or memory)", c.Store.Backend)
	}
}

func (c *Config) validateNetwork() error {
	switch c.Network.Detector {
	case DetectorSimulated:
	case DetectorNetlink:
		if len(c.Network.HomeInterfaces) == 0 {
			return errors.New("network.home_interfaces must list at least one interface when network.detector is netlink")
		}
	default:
		return fmt.Errorf("network.detector: unsupported value %q (expected simulated or netlink)", c.Network.Detector)
	}
	return validateSchedule("network.simulate_schedule", c.Network.SimulateSchedule)
}

// validateSchedule accepts an empty value (disabled), a five-field cron
// expression, or a descriptor such as "@every 5m".
func validateSchedule(field, spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%s: invalid schedule %q: %w", field, spec, err)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.DeliveryDelayMS < 0 {
		return errors.New("notifications.delivery_delay_ms must be zero or positive")
	}
	switch c.Notifications.Channel {
	case ChannelSimulated:
	case ChannelNtfy:
		if c.Notifications.NtfyTopic == "" {
			return errors.New("notifications.ntfy_topic must be set when notifications.channel is ntfy (or export NETDO_NTFY_TOPIC)")
		}
	case ChannelTelegram:
		if c.Notifications.TelegramToken == "" {
			return errors.New("notifications.telegram_token must be set when notifications.channel is telegram (or export TELEGRAM_BOT_TOKEN)")
		}
		if c.Notifications.TelegramChatID == 0 {
			return errors.New("notifications.telegram_chat_id must be set when notifications.channel is telegram")
		}
	default:
		return fmt.Errorf("notifications.channel: unsupported value %q (expected simulated, ntfy, or telegram)", c.Notifications.Channel)
	}
	return validateSchedule("notifications.due_check_schedule", c.Notifications.DueCheckSchedule)
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero (keep forever) or positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
