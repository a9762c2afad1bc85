package domain

// PlatformID identifies a supported source platform.
type PlatformID string

const (
	PlatformInstagram PlatformID = "instagram"
	PlatformFacebook  PlatformID = "facebook"
	PlatformTikTok    PlatformID = "tiktok"
	PlatformYouTube   PlatformID = "youtube"
)

// String returns the string representation of the PlatformID.
func (id PlatformID) String() string {
	return string(id)
}

// Valid reports whether id names one of the supported platforms.
func (id PlatformID) Valid() bool {
	switch id {
	case PlatformInstagram, PlatformFacebook, PlatformTikTok, PlatformYouTube:
		return true
	}
	return false
}

// AllPlatforms lists the supported platforms in display order.
func AllPlatforms() []PlatformID {
	return []PlatformID{PlatformInstagram, PlatformFacebook, PlatformTikTok, PlatformYouTube}
}
