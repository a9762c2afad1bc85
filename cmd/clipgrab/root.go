package main

import (
	"github.com/spf13/cobra"
)

type options struct {
	configPath  string
	serverURL   string
	downloadDir string
	local       bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "clipgrab",
		Short:         "Download videos from Instagram, Facebook, TikTok and YouTube",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to config file")
	pf.StringVar(&opts.serverURL, "server", "", "clipgrab server URL (overrides CLIPGRAB_PROXY_URL)")
	pf.StringVarP(&opts.downloadDir, "dir", "d", "", "Download directory (overrides DOWNLOAD_DIR)")
	pf.BoolVar(&opts.local, "local", false, "Fetch directly instead of through a clipgrab server")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newGetCmd(opts),
		newResolveCmd(opts),
		newSubscribeCmd(opts),
		newUnsubscribeCmd(opts),
		newStatusCmd(opts),
		newPlatformsCmd(opts),
		newVersionCmd(),
	)
	return root
}
