package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/platform"
)

func newPlatformsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			for _, d := range platform.NewRegistry(cfg.Platforms).All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", d.ID, d.DisplayName)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), Version)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "clipgrab %s (built %s, %s %s/%s)\n",
				Version, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
