package resolver

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/iconidentify/clipgrab/internal/domain"
)

const defaultTitle = "video"

var (
	titleDisallowed = regexp.MustCompile(`[^A-Za-z0-9 ]+`)
	titleSpaces     = regexp.MustCompile(` +`)
)

type youtubeCandidate struct {
	url     string
	quality string
	rank    int
	noAudio bool
	title   string
}

var youtubeShapes = []shape{
	// [{"url": "...", "quality": "720"}, ...]
	{name: "array", match: func(p any) *domain.ResolvedMedia {
		return youtubeFromList(list(p), p)
	}},
	// {"data": [...]}
	{name: "data[]", match: func(p any) *domain.ResolvedMedia {
		return youtubeFromList(list(field(p, "data")), p)
	}},
	// {"formats": [...]}
	{name: "formats[]", match: func(p any) *domain.ResolvedMedia {
		return youtubeFromList(list(field(p, "formats")), p)
	}},
	// {"url": "...", "title": "..."}
	{name: "url", match: func(p any) *domain.ResolvedMedia {
		return youtubeMedia(str(field(p, "url")), "", youtubeTitle(p, ""))
	}},
	// {"data": {"url": "...", "title": "..."}}
	{name: "data.url", match: func(p any) *domain.ResolvedMedia {
		return youtubeMedia(str(field(p, "data", "url")), str(field(p, "data", "quality")), youtubeTitle(p, ""))
	}},
}

func youtubeFromList(items []any, payload any) *domain.ResolvedMedia {
	best, ok := bestYouTubeCandidate(items)
	if !ok {
		return nil
	}
	return youtubeMedia(best.url, best.quality, youtubeTitle(payload, best.title))
}

// bestYouTubeCandidate drops entries without a quality tag or flagged as
// having no audio, then picks the highest numeric quality. Ties keep the
// upstream order.
func bestYouTubeCandidate(items []any) (youtubeCandidate, bool) {
	candidates := lo.FilterMap(items, func(item any, _ int) (youtubeCandidate, bool) {
		obj := object(item)
		if obj == nil {
			return youtubeCandidate{}, false
		}
		c := youtubeCandidate{
			url:     firstString(obj, "url", "link"),
			noAudio: truthy(obj["noAudio"]) || truthy(obj["no_audio"]),
			title:   str(obj["title"]),
		}
		c.quality, c.rank = qualityOf(obj["quality"])
		return c, c.url != "" && c.quality != "" && !c.noAudio
	})
	if len(candidates) == 0 {
		return youtubeCandidate{}, false
	}

	slices.SortStableFunc(candidates, func(a, b youtubeCandidate) int {
		return cmp.Compare(b.rank, a.rank)
	})
	return candidates[0], true
}

func youtubeMedia(url, quality, title string) *domain.ResolvedMedia {
	if url == "" {
		return nil
	}
	label := "Download YouTube video"
	if quality != "" {
		label += " (" + quality + ")"
	}
	return domain.NewResolvedMedia(domain.PlatformYouTube, title, domain.DownloadEntry{
		URL:      url,
		Label:    label,
		Filename: SanitizeTitle(title) + ".mp4",
		Kind:     domain.MediaKindVideo,
	})
}

func youtubeTitle(payload any, fallback string) string {
	if t := str(field(payload, "title")); t != "" {
		return t
	}
	if t := str(field(payload, "data", "title")); t != "" {
		return t
	}
	return fallback
}

// SanitizeTitle keeps ASCII letters, digits and spaces, and joins words
// with underscores. Titles with nothing left become "video".
func SanitizeTitle(title string) string {
	clean := titleDisallowed.ReplaceAllString(title, "")
	clean = strings.TrimSpace(clean)
	clean = titleSpaces.ReplaceAllString(clean, "_")
	if clean == "" {
		return defaultTitle
	}
	return clean
}
