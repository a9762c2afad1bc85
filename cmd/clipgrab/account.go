package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/iconidentify/clipgrab/internal/service"
)

func newSubscribeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe",
		Short: "Enable downloads on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.entitlement.Subscribe(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render("subscription active"))
			return nil
		},
	}
}

func newUnsubscribeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe",
		Short: "Disable downloads on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.entitlement.Unsubscribe(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "subscription removed")
			return nil
		},
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show subscription, relay and download directory status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()

			sub := styleWarn.Render("inactive")
			if a.entitlement.IsEntitled() {
				sub = styleSuccess.Render("active")
			}
			fmt.Fprintf(out, "subscription  %s\n", sub)

			if a.remote == nil {
				fmt.Fprintf(out, "relay         local (%s)\n", a.cfg.Platforms.BaseURL)
			} else {
				fmt.Fprintf(out, "relay         %s %s\n", a.cfg.Client.ProxyURL, serverState(ctx, a))
			}

			free := service.FreeDiskSpace(a.cfg.Download.Dir)
			freeText := "unknown"
			if free > 0 {
				freeText = humanize.Bytes(uint64(free)) + " free"
			}
			fmt.Fprintf(out, "downloads     %s (%s)\n", a.cfg.Download.Dir, freeText)
			return nil
		},
	}
}

func serverState(ctx context.Context, a *app) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.remote.Health(ctx); err != nil {
		a.logger.Debug("health check failed", "error", err)
		return styleError.Render("unreachable")
	}
	return styleSuccess.Render("ok")
}
