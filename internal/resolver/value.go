package resolver

import (
	"strconv"
	"strings"
)

// field walks nested objects by key. Missing keys yield nil.
func field(v any, path ...string) any {
	for _, key := range path {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = obj[key]
	}
	return v
}

func object(v any) map[string]any {
	obj, _ := v.(map[string]any)
	return obj
}

func list(v any) []any {
	arr, _ := v.([]any)
	return arr
}

// str returns v as a trimmed string, or "" when v is not a string.
func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// firstString returns the first non-empty string among obj[keys...].
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := str(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

// urlOf extracts a media URL from a bare string, a one-element list or an
// object with a url/link field.
func urlOf(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		if len(t) > 0 {
			return urlOf(t[0])
		}
	case map[string]any:
		return firstString(t, "url", "link", "play", "play_url", "download_url")
	}
	return ""
}

// maxQualityRank caps quality ranks so they stay comparable.
const maxQualityRank = 1 << 20

// qualityOf returns the quality tag of v and its numeric rank ("720p" is 720).
// Ranks are clamped to maxQualityRank.
func qualityOf(v any) (string, int) {
	switch t := v.(type) {
	case float64:
		if t <= 0 {
			return "", 0
		}
		if t >= maxQualityRank {
			return strconv.FormatFloat(t, 'f', -1, 64), maxQualityRank
		}
		return strconv.Itoa(int(t)), int(t)
	case string:
		tag := strings.TrimSpace(t)
		end := 0
		for end < len(tag) && tag[end] >= '0' && tag[end] <= '9' {
			end++
		}
		if end == 0 {
			return tag, 0
		}
		rank, err := strconv.Atoi(tag[:end])
		if err != nil || rank > maxQualityRank {
			rank = maxQualityRank
		}
		return tag, rank
	}
	return "", 0
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	case float64:
		return t != 0
	}
	return false
}
