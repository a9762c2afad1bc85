// Package resolver turns the raw JSON returned by the per-platform video
// info APIs into domain.ResolvedMedia.
//
// The upstream schemas drift between provider versions, so every platform
// is described as an ordered list of known shapes. The first shape that
// yields a usable URL wins; a payload no shape recognises is not found.
package resolver

import (
	"encoding/json"

	"github.com/iconidentify/clipgrab/internal/domain"
)

// shape is one known layout of an upstream payload.
type shape struct {
	name  string
	match func(payload any) *domain.ResolvedMedia
}

var shapesByPlatform = map[domain.PlatformID][]shape{
	domain.PlatformTikTok:    tiktokShapes,
	domain.PlatformYouTube:   youtubeShapes,
	domain.PlatformInstagram: instagramShapes,
	domain.PlatformFacebook:  facebookShapes,
}

// Resolve maps a raw payload for platform id to a ResolvedMedia.
//
// It returns domain.ErrNotFound when the payload is empty or unrecognised,
// and a *domain.UpstreamMessageError when the upstream explains the miss.
func Resolve(id domain.PlatformID, raw json.RawMessage) (*domain.ResolvedMedia, error) {
	media, _, err := ResolveShape(id, raw)
	return media, err
}

// ResolveShape is Resolve that also reports the name of the matched shape.
func ResolveShape(id domain.PlatformID, raw json.RawMessage) (*domain.ResolvedMedia, string, error) {
	shapes, ok := shapesByPlatform[id]
	if !ok {
		return nil, "", domain.ErrUnknownPlatform
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, "", domain.ErrNotFound
	}
	if isEmpty(payload) {
		return nil, "", domain.ErrNotFound
	}
	if msg, failed := ErrorMessage(payload); failed {
		return nil, "", &domain.UpstreamMessageError{Message: msg}
	}

	for _, s := range shapes {
		if media := s.match(payload); media != nil {
			media.Platform = id
			return media, s.name, nil
		}
	}

	if msg := str(field(payload, "msg")); msg != "" {
		return nil, "", &domain.UpstreamMessageError{Message: msg}
	}
	return nil, "", domain.ErrNotFound
}

// ErrorMessage reports whether payload carries an explicit upstream error,
// and the best message for it.
func ErrorMessage(payload any) (string, bool) {
	obj := object(payload)
	if obj == nil {
		return "", false
	}

	switch v := obj["error"].(type) {
	case string:
		if v != "" {
			return v, true
		}
	case bool:
		if v {
			if msg := str(obj["msg"]); msg != "" {
				return msg, true
			}
			if msg := str(obj["message"]); msg != "" {
				return msg, true
			}
			return "upstream reported an error", true
		}
	case map[string]any:
		if msg := str(v["message"]); msg != "" {
			return msg, true
		}
		return "upstream reported an error", true
	}
	return "", false
}

func isEmpty(payload any) bool {
	switch v := payload.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	}
	return false
}
