package resolver

import "github.com/iconidentify/clipgrab/internal/domain"

var (
	facebookHDKeys = []string{"HD video", "HD", "hd", "hd_url"}
	facebookSDKeys = []string{"Normal video", "SD video", "SD", "sd", "sd_url"}
)

var facebookShapes = []shape{
	// {"links": {"HD video": "...", "Normal video": "..."}}
	{name: "links", match: func(p any) *domain.ResolvedMedia {
		return facebookFromLinks(object(field(p, "links")))
	}},
	// {"data": {"links": {...}}}
	{name: "data.links", match: func(p any) *domain.ResolvedMedia {
		return facebookFromLinks(object(field(p, "data", "links")))
	}},
	// {"urls": {...}}
	{name: "urls", match: func(p any) *domain.ResolvedMedia {
		return facebookFromLinks(object(field(p, "urls")))
	}},
	// {"data": {"hd": "...", "sd": "..."}}
	{name: "data", match: func(p any) *domain.ResolvedMedia {
		return facebookFromLinks(object(field(p, "data")))
	}},
	// {"hd": "...", "sd": "..."}
	{name: "hd/sd", match: func(p any) *domain.ResolvedMedia {
		return facebookFromLinks(object(p))
	}},
	// [{"url": "..."}] and {"data": {"url": "..."}}, as served for Instagram
	{name: "array", match: func(p any) *domain.ResolvedMedia {
		return facebookSingle(urlOf(firstItem(list(p))))
	}},
	{name: "data[]", match: func(p any) *domain.ResolvedMedia {
		return facebookSingle(urlOf(firstItem(list(field(p, "data")))))
	}},
	{name: "data.url", match: func(p any) *domain.ResolvedMedia {
		return facebookSingle(str(field(p, "data", "url")))
	}},
	{name: "url", match: func(p any) *domain.ResolvedMedia {
		return facebookSingle(str(field(p, "url")))
	}},
}

func facebookFromLinks(links map[string]any) *domain.ResolvedMedia {
	if links == nil {
		return nil
	}
	return facebookMedia(firstString(links, facebookHDKeys...), firstString(links, facebookSDKeys...))
}

// facebookMedia prefers the HD link and keeps SD as a second entry.
func facebookMedia(hd, sd string) *domain.ResolvedMedia {
	var entries []domain.DownloadEntry
	if hd != "" {
		entries = append(entries, domain.DownloadEntry{
			URL:      hd,
			Label:    "Download HD video",
			Filename: "facebook_video_hd.mp4",
			Kind:     domain.MediaKindVideo,
		})
	}
	if sd != "" && sd != hd {
		entries = append(entries, domain.DownloadEntry{
			URL:      sd,
			Label:    "Download SD video",
			Filename: "facebook_video_sd.mp4",
			Kind:     domain.MediaKindVideo,
		})
	}
	return domain.NewResolvedMedia(domain.PlatformFacebook, "", entries...)
}

func facebookSingle(url string) *domain.ResolvedMedia {
	if url == "" {
		return nil
	}
	return domain.NewResolvedMedia(domain.PlatformFacebook, "", domain.DownloadEntry{
		URL:      url,
		Label:    "Download Facebook video",
		Filename: "facebook_video.mp4",
		Kind:     domain.MediaKindVideo,
	})
}
