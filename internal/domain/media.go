package domain

// MediaKind tells a video entry from an audio-only one.
type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

// DownloadEntry is one downloadable rendition of a resolved video.
// Filename carries a default extension but no timestamp; the timestamp
// is added when the download starts.
type DownloadEntry struct {
	URL      string    `json:"url"`
	Label    string    `json:"label"`
	Filename string    `json:"filename"`
	Kind     MediaKind `json:"kind"`
}

// ResolvedMedia is the canonical result of resolving an upstream payload.
type ResolvedMedia struct {
	Platform   PlatformID      `json:"platform"`
	Title      string          `json:"title,omitempty"`
	PreviewURL string          `json:"preview_url"`
	Downloads  []DownloadEntry `json:"downloads"`
}

// NewResolvedMedia builds a ResolvedMedia whose preview is the first entry.
// It returns nil when downloads is empty or the first entry has no URL.
func NewResolvedMedia(platform PlatformID, title string, downloads ...DownloadEntry) *ResolvedMedia {
	if len(downloads) == 0 || downloads[0].URL == "" {
		return nil
	}
	return &ResolvedMedia{
		Platform:   platform,
		Title:      title,
		PreviewURL: downloads[0].URL,
		Downloads:  downloads,
	}
}

// Primary returns the best-quality entry.
func (m *ResolvedMedia) Primary() DownloadEntry {
	return m.Downloads[0]
}
