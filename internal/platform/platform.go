// Package platform describes the supported source platforms and how to
// reach the third-party video info API for each of them.
package platform

import (
	"net/url"
	"strings"

	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/domain"
)

// Descriptor is the immutable description of one platform.
type Descriptor struct {
	ID          domain.PlatformID `json:"id"`
	DisplayName string            `json:"name"`

	endpoint   string
	extraQuery string
	hosts      []string
}

// BuildRequestURL returns the upstream API URL for a source link.
func (d Descriptor) BuildRequestURL(sourceURL string) string {
	u := d.endpoint + "?url=" + url.QueryEscape(sourceURL)
	if d.extraQuery != "" {
		u += "&" + d.extraQuery
	}
	return u
}

// Matches reports whether sourceURL points at this platform.
func (d Descriptor) Matches(sourceURL string) bool {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range d.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Registry holds the descriptors of every supported platform.
type Registry struct {
	order []domain.PlatformID
	byID  map[domain.PlatformID]Descriptor
}

// NewRegistry builds the registry against the configured API base URL.
func NewRegistry(cfg config.PlatformsConfig) *Registry {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	endpoint := func(id domain.PlatformID) string {
		return base + "/" + id.String() + "/dl"
	}

	descriptors := []Descriptor{
		{
			ID:          domain.PlatformInstagram,
			DisplayName: "Instagram",
			endpoint:    endpoint(domain.PlatformInstagram),
			hosts:       []string{"instagram.com", "instagr.am"},
		},
		{
			ID:          domain.PlatformFacebook,
			DisplayName: "Facebook",
			endpoint:    endpoint(domain.PlatformFacebook),
			hosts:       []string{"facebook.com", "fb.watch", "fb.com"},
		},
		{
			ID:          domain.PlatformTikTok,
			DisplayName: "TikTok",
			endpoint:    endpoint(domain.PlatformTikTok),
			hosts:       []string{"tiktok.com"},
		},
		{
			ID:          domain.PlatformYouTube,
			DisplayName: "YouTube",
			endpoint:    endpoint(domain.PlatformYouTube),
			extraQuery:  "type=video",
			hosts:       []string{"youtube.com", "youtu.be"},
		},
	}

	r := &Registry{byID: make(map[domain.PlatformID]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		r.order = append(r.order, d.ID)
		r.byID[d.ID] = d
	}
	return r
}

// Get returns the descriptor for id.
func (r *Registry) Get(id domain.PlatformID) (Descriptor, error) {
	d, ok := r.byID[id]
	if !ok {
		return Descriptor{}, domain.ErrUnknownPlatform
	}
	return d, nil
}

// All returns every descriptor in display order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Detect finds the platform a source URL belongs to.
func (r *Registry) Detect(sourceURL string) (Descriptor, bool) {
	for _, id := range r.order {
		if d := r.byID[id]; d.Matches(sourceURL) {
			return d, true
		}
	}
	return Descriptor{}, false
}
