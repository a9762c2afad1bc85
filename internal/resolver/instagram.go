package resolver

import "github.com/iconidentify/clipgrab/internal/domain"

var instagramShapes = []shape{
	// [{"url": "..."}, ...]
	{name: "array", match: func(p any) *domain.ResolvedMedia {
		return instagramMedia(urlOf(firstItem(list(p))))
	}},
	// {"data": [{"url": "..."}]}
	{name: "data[]", match: func(p any) *domain.ResolvedMedia {
		return instagramMedia(urlOf(firstItem(list(field(p, "data")))))
	}},
	// {"url": "..."}
	{name: "url", match: func(p any) *domain.ResolvedMedia {
		return instagramMedia(str(field(p, "url")))
	}},
	// {"data": {"url": "..."}}
	{name: "data.url", match: func(p any) *domain.ResolvedMedia {
		return instagramMedia(str(field(p, "data", "url")))
	}},
}

func firstItem(items []any) any {
	if len(items) == 0 {
		return nil
	}
	return items[0]
}

func instagramMedia(url string) *domain.ResolvedMedia {
	if url == "" {
		return nil
	}
	return domain.NewResolvedMedia(domain.PlatformInstagram, "", domain.DownloadEntry{
		URL:      url,
		Label:    "Download Instagram video",
		Filename: "instagram_video.mp4",
		Kind:     domain.MediaKindVideo,
	})
}
