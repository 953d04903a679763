package preflight

import (
	"context"

	"netdo/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if cfg.Store.Backend == config.StoreBackendSQLite {
		results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	switch cfg.Notifications.Channel {
	case config.ChannelNtfy:
		results = append(results, CheckNtfy(ctx, cfg.Notifications.NtfyTopic))
	case config.ChannelTelegram:
		results = append(results, CheckTelegram(cfg.Notifications.TelegramToken, cfg.Notifications.TelegramChatID))
	}

	if cfg.Network.Detector == config.DetectorNetlink {
		results = append(results, CheckNetlink())
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
