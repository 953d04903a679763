package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStore()
	c.normalizeNetwork()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultStoreBackend
	}
}

func (c *Config) normalizeNetwork() {
	c.Network.Detector = strings.ToLower(strings.TrimSpace(c.Network.Detector))
	if c.Network.Detector == "" {
		c.Network.Detector = defaultDetector
	}
	c.Network.SimulateSchedule = strings.TrimSpace(c.Network.SimulateSchedule)

	if len(c.Network.HomeInterfaces) == 0 {
		return
	}
	ifaces := make([]string, 0, len(c.Network.HomeInterfaces))
	seen := make(map[string]struct{}, len(c.Network.HomeInterfaces))
	for _, name := range c.Network.HomeInterfaces {
		normalized := strings.TrimSpace(name)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		ifaces = append(ifaces, normalized)
	}
	c.Network.HomeInterfaces = ifaces
}

func (c *Config) normalizeNotifications() {
	c.Notifications.Channel = strings.ToLower(strings.TrimSpace(c.Notifications.Channel))
	if c.Notifications.Channel == "" {
		c.Notifications.Channel = defaultChannel
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultRequestTimeout
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("NETDO_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	c.Notifications.TelegramToken = strings.TrimSpace(c.Notifications.TelegramToken)
	if c.Notifications.TelegramToken == "" {
		if value, ok := os.LookupEnv("TELEGRAM_BOT_TOKEN"); ok {
			c.Notifications.TelegramToken = strings.TrimSpace(value)
		}
	}
	c.Notifications.DueCheckSchedule = strings.TrimSpace(c.Notifications.DueCheckSchedule)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
