package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"netdo/internal/config"
	"netdo/internal/logging"
	"netdo/internal/tracker"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
	dirErr     error
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		// Missing directories are reported once a logger exists; the store
		// falls back to memory when data_dir stays unusable.
		c.dirErr = cfg.EnsureDirectories()
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// logger builds a logger for cfg. One-shot commands log warnings and above
// unless --log-level says otherwise; the daemon uses the configured level.
func (c *commandContext) logger(cfg *config.Config, daemon bool) (*slog.Logger, error) {
	copied := *cfg
	if !daemon {
		copied.Logging.Level = "warn"
	}
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		copied.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
	}
	logger, err := logging.NewFromConfig(&copied)
	if err != nil {
		return nil, err
	}
	if c.dirErr != nil {
		logging.WarnWithContext(logger, "could not create netdo directories", "directory_unavailable",
			logging.Error(c.dirErr),
			logging.String(logging.FieldErrorHint, "check paths.data_dir and paths.log_dir"),
			logging.String(logging.FieldImpact, "tasks may be kept in memory only"),
		)
	}
	return logger, nil
}

// withTracker opens a tracker for the duration of fn and closes it after.
func (c *commandContext) withTracker(cmd *cobra.Command, fn func(context.Context, *tracker.Tracker) error, opts ...tracker.Option) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger(cfg, false)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tr, err := tracker.New(ctx, cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer tr.Close()
	return fn(ctx, tr)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
