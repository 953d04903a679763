package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"netdo/internal/network"
	"netdo/internal/notifications"
	"netdo/internal/tracker"
)

func newNetworkCommand(ctx *commandContext) *cobra.Command {
	networkCmd := &cobra.Command{
		Use:   "network",
		Short: "Inspect or simulate the network classification",
	}

	networkCmd.AddCommand(newNetworkStatusCommand(ctx))
	networkCmd.AddCommand(newNetworkSimulateCommand(ctx))

	return networkCmd
}

func newNetworkStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current network status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				status := tr.NetworkStatus()
				if ctx.jsonOutput() {
					return writeJSON(cmd, status)
				}
				printNetworkStatus(cmd, status)
				return nil
			})
		},
	}
}

func printNetworkStatus(cmd *cobra.Command, status network.Status) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	kind := statusOK
	if !status.Connected {
		kind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Connected", kind, yesNo(status.Connected), colorize))
	fmt.Fprintln(out, renderStatusLine("Network", statusInfo, status.SSID, colorize))
	fmt.Fprintln(out, renderStatusLine("Classification", statusInfo, titleCase(status.Label()), colorize))
}

func newNetworkSimulateCommand(ctx *commandContext) *cobra.Command {
	var home, away bool
	var ssid string
	var noWait bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a network change and send matching reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if home && away {
				return errors.New("--home and --away are mutually exclusive")
			}
			if ssid != "" && !home && !away {
				return errors.New("--ssid requires --home or --away")
			}

			var opts []tracker.Option
			if !ctx.jsonOutput() {
				presenter := notifications.NewWriterPresenter(cmd.OutOrStdout())
				opts = append(opts, tracker.WithDispatcherOptions(notifications.WithPresenter(presenter)))
			}

			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				var change network.Change
				if home || away {
					status := network.Status{Connected: true, SSID: ssid, IsHomeNetwork: home}
					if status.SSID == "" {
						status.SSID = "Home Network"
						if away {
							status.SSID = "Away Network"
						}
					}
					change = tr.ApplyNetworkStatus(c, status)
				} else {
					var err error
					change, err = tr.SimulateNetworkChange(c)
					if err != nil {
						return err
					}
				}

				if !noWait {
					if err := tr.WaitIdle(c); err != nil {
						return err
					}
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, struct {
						Status        network.Status               `json:"status"`
						Notifications []notifications.Notification `json:"notifications"`
					}{change.Status, tr.Notifications()})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Now on %s network %q; %d reminders sent via %s\n",
					change.Status.Label(), change.Status.SSID, change.Reminders(), tr.Dispatcher().Channel())
				return nil
			}, opts...)
		},
	}

	cmd.Flags().BoolVar(&home, "home", false, "Switch to a home network instead of picking one at random")
	cmd.Flags().BoolVar(&away, "away", false, "Switch to an away network instead of picking one at random")
	cmd.Flags().StringVar(&ssid, "ssid", "", "Network name used with --home or --away")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return without waiting for delivery")
	return cmd
}
