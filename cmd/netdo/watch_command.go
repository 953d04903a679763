package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"netdo/internal/daemon"
	"netdo/internal/logging"
	"netdo/internal/notifications"
	"netdo/internal/preflight"
	"netdo/internal/tracker"
)

const drainTimeout = 5 * time.Second

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run in the foreground, sending due and network reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cfg, true)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			for _, result := range preflight.Failed(preflight.RunAll(runCtx, cfg)) {
				logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
					logging.String("check", result.Name),
					logging.String("detail", result.Detail),
					logging.String(logging.FieldImpact, "reminders may not be delivered"),
				)
			}

			var opts []tracker.Option
			if !quiet {
				presenter := notifications.NewWriterPresenter(cmd.OutOrStdout())
				opts = append(opts, tracker.WithDispatcherOptions(notifications.WithPresenter(presenter)))
			}
			tr, err := tracker.New(runCtx, cfg, logger, opts...)
			if err != nil {
				return err
			}
			defer tr.Close()

			d, err := daemon.New(cfg, tr, logger)
			if err != nil {
				return err
			}
			// Printed before Start; the presenter writes from timer goroutines after it.
			fmt.Fprintf(cmd.OutOrStdout(), "Watching for reminders (session %s); press Ctrl+C to stop\n", d.SessionID())
			if err := d.Start(runCtx); err != nil {
				return err
			}

			<-runCtx.Done()
			d.Stop()
			drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			defer cancel()
			if err := tr.WaitIdle(drainCtx); err != nil {
				logger.Warn("pending deliveries dropped at shutdown", logging.Int("pending", tr.Dispatcher().Pending()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print notifications to stdout")
	return cmd
}
