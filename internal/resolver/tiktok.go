package resolver

import "github.com/iconidentify/clipgrab/internal/domain"

var tiktokShapes = []shape{
	// {"data": {"play": "...", "music": "..."}}
	{name: "data.play", match: func(p any) *domain.ResolvedMedia {
		data := object(field(p, "data"))
		if data == nil {
			return nil
		}
		audio := str(data["music"])
		if audio == "" {
			audio = urlOf(data["music_info"])
		}
		return tiktokMedia(firstString(data, "play", "hdplay"), audio, str(data["title"]))
	}},
	// {"result": {"video": [...], "audio": [...]}}
	{name: "result.video", match: func(p any) *domain.ResolvedMedia {
		result := object(field(p, "result"))
		if result == nil {
			return nil
		}
		return tiktokMedia(urlOf(result["video"]), urlOf(result["audio"]), str(result["desc"]))
	}},
	// {"play": "...", "music": "..."}
	{name: "play", match: func(p any) *domain.ResolvedMedia {
		obj := object(p)
		if obj == nil {
			return nil
		}
		return tiktokMedia(firstString(obj, "play", "hdplay"), urlOf(obj["music"]), str(obj["title"]))
	}},
}

func tiktokMedia(videoURL, audioURL, title string) *domain.ResolvedMedia {
	if videoURL == "" {
		return nil
	}
	entries := []domain.DownloadEntry{{
		URL:      videoURL,
		Label:    "Download video without watermark",
		Filename: "tiktok_video.mp4",
		Kind:     domain.MediaKindVideo,
	}}
	if audioURL != "" {
		entries = append(entries, domain.DownloadEntry{
			URL:      audioURL,
			Label:    "Download audio",
			Filename: "tiktok_audio.mp3",
			Kind:     domain.MediaKindAudio,
		})
	}
	return domain.NewResolvedMedia(domain.PlatformTikTok, title, entries...)
}
