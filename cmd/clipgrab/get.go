package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/platform"
)

func newGetCmd(opts *options) *cobra.Command {
	var platformID string
	var entry int

	cmd := &cobra.Command{
		Use:   "get <link or text>...",
		Short: "Resolve a link and download it",
		Example: "  clipgrab get https://www.tiktok.com/@user/video/123\n" +
			"  clipgrab get --entry 2 \"look at this https://vm.tiktok.com/xyz\"",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			media, err := a.resolve(ctx, platformID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			printMedia(cmd.OutOrStdout(), a.registry, media)

			selected, err := pickEntry(media, entry)
			if err != nil {
				return err
			}

			job, err := a.download(ctx, cmd.ErrOrStderr(), selected)
			if err != nil {
				if errors.Is(err, domain.ErrDownloadStreamFailure) {
					return errors.New("download failed, please try again")
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render("saved"), a.downloads.Path(*job))
			return nil
		},
	}

	cmd.Flags().StringVarP(&platformID, "platform", "p", "", "Platform ("+strings.Join(platformIDs(), ", ")+"); detected from the link when omitted")
	cmd.Flags().IntVarP(&entry, "entry", "e", 1, "Which download entry to fetch, 1 is the best quality")
	lo.Must0(cmd.RegisterFlagCompletionFunc("platform", completePlatforms))
	return cmd
}

func newResolveCmd(opts *options) *cobra.Command {
	var platformID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <link or text>...",
		Short: "Show the downloads available for a link",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			media, err := a.resolve(ctx, platformID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), media)
			}
			printMedia(cmd.OutOrStdout(), a.registry, media)
			return nil
		},
	}

	cmd.Flags().StringVarP(&platformID, "platform", "p", "", "Platform; detected from the link when omitted")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	lo.Must0(cmd.RegisterFlagCompletionFunc("platform", completePlatforms))
	return cmd
}

// resolve runs a session search, detecting the platform when none is given.
func (a *app) resolve(ctx context.Context, platformID, input string) (*domain.ResolvedMedia, error) {
	id := domain.PlatformID(platformID)
	if id == "" {
		detected, ok := a.search.Detect(input)
		if !ok {
			return nil, fmt.Errorf("could not detect the platform, pass --platform (%s)", strings.Join(platformIDs(), ", "))
		}
		id = detected
	}
	return a.session.Search(ctx, id, input)
}

func (a *app) download(ctx context.Context, w io.Writer, entry domain.DownloadEntry) (*domain.DownloadJob, error) {
	r := newProgressRenderer(w, a.downloads.Dir())
	job, err := a.downloads.Download(ctx, entry, r.update)
	r.finish()
	return job, err
}

// pickEntry returns the n-th (1-based) download entry.
func pickEntry(media *domain.ResolvedMedia, n int) (domain.DownloadEntry, error) {
	if n < 1 || n > len(media.Downloads) {
		return domain.DownloadEntry{}, fmt.Errorf("entry %d out of range, %d available", n, len(media.Downloads))
	}
	return media.Downloads[n-1], nil
}

func platformIDs() []string {
	return lo.Map(domain.AllPlatforms(), func(id domain.PlatformID, _ int) string {
		return id.String()
	})
}

func completePlatforms(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return platformIDs(), cobra.ShellCompDirectiveNoFileComp
}

func printMedia(w io.Writer, registry *platform.Registry, media *domain.ResolvedMedia) {
	name := media.Platform.String()
	if d, err := registry.Get(media.Platform); err == nil {
		name = d.DisplayName
	}

	header := styleTitle.Render(name)
	if media.Title != "" {
		header += " " + media.Title
	}
	fmt.Fprintln(w, header)

	for i, e := range media.Downloads {
		fmt.Fprintf(w, "%2d. %s %s  %s\n", i+1, styleTag.Render(string(e.Kind)), e.Label, styleFaint.Render(e.Filename))
		fmt.Fprintf(w, "    %s\n", styleFaint.Render(e.URL))
	}
}
