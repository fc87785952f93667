package domain

import (
	"net/url"
	"strings"
)

// Platform identifies the site a link was saved from.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
	PlatformGitHub    Platform = "github"
	PlatformMedium    Platform = "medium"
	PlatformReddit    Platform = "reddit"
	PlatformFacebook  Platform = "facebook"
	PlatformOther     Platform = "other"
)

var platforms = []Platform{
	PlatformYouTube,
	PlatformTwitter,
	PlatformInstagram,
	PlatformLinkedIn,
	PlatformTikTok,
	PlatformGitHub,
	PlatformMedium,
	PlatformReddit,
	PlatformFacebook,
	PlatformOther,
}

// Platforms returns every known platform in catalog order.
func Platforms() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

// Valid reports whether p belongs to the closed platform enumeration.
func (p Platform) Valid() bool {
	for _, known := range platforms {
		if p == known {
			return true
		}
	}
	return false
}

// hostPlatforms maps registrable domains (and short-link aliases) to platforms.
var hostPlatforms = map[string]Platform{
	"youtube.com":     PlatformYouTube,
	"youtu.be":        PlatformYouTube,
	"twitter.com":     PlatformTwitter,
	"x.com":           PlatformTwitter,
	"t.co":            PlatformTwitter,
	"instagram.com":   PlatformInstagram,
	"instagr.am":      PlatformInstagram,
	"linkedin.com":    PlatformLinkedIn,
	"lnkd.in":         PlatformLinkedIn,
	"tiktok.com":      PlatformTikTok,
	"github.com":      PlatformGitHub,
	"gist.github.com": PlatformGitHub,
	"medium.com":      PlatformMedium,
	"reddit.com":      PlatformReddit,
	"redd.it":         PlatformReddit,
	"facebook.com":    PlatformFacebook,
	"fb.com":          PlatformFacebook,
	"fb.watch":        PlatformFacebook,
}

// DetectPlatform derives the platform from a URL's host.
// Subdomains match their parent (m.youtube.com, old.reddit.com, foo.medium.com).
// Anything unparseable or unknown is PlatformOther.
func DetectPlatform(rawURL string) Platform {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return PlatformOther
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return PlatformOther
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	for host != "" {
		if p, ok := hostPlatforms[host]; ok {
			return p
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			break
		}
		host = host[i+1:]
	}
	return PlatformOther
}
