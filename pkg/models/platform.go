package models

import (
	"net/url"
	"strings"
)

// Platform identifies the source site a URL belongs to. Classification is
// domain based; anything outside the known set maps to PlatformOther, which
// yt-dlp may still handle.
type Platform string

const (
	PlatformYouTube     Platform = "youtube"
	PlatformFacebook    Platform = "facebook"
	PlatformInstagram   Platform = "instagram"
	PlatformTikTok      Platform = "tiktok"
	PlatformTwitter     Platform = "twitter"
	PlatformVimeo       Platform = "vimeo"
	PlatformSoundCloud  Platform = "soundcloud"
	PlatformDailymotion Platform = "dailymotion"
	PlatformTwitch      Platform = "twitch"
	PlatformReddit      Platform = "reddit"
	PlatformBilibili    Platform = "bilibili"
	PlatformUpload      Platform = "upload"
	PlatformOther       Platform = "other"
)

// platformDomains maps each platform to the host substrings that identify it.
// Extending support means adding a constant above and an entry here.
var platformDomains = []struct {
	platform Platform
	domains  []string
}{
	{PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{PlatformFacebook, []string{"facebook.com", "fb.watch", "fb.com"}},
	{PlatformInstagram, []string{"instagram.com"}},
	{PlatformTikTok, []string{"tiktok.com"}},
	{PlatformTwitter, []string{"twitter.com", "x.com"}},
	{PlatformVimeo, []string{"vimeo.com"}},
	{PlatformSoundCloud, []string{"soundcloud.com"}},
	{PlatformDailymotion, []string{"dailymotion.com"}},
	{PlatformTwitch, []string{"twitch.tv"}},
	{PlatformReddit, []string{"reddit.com"}},
	{PlatformBilibili, []string{"bilibili.com"}},
}

// ClassifyPlatform detects the platform from a URL. Matching is on the exact
// host or a subdomain of a known domain, never on substrings.
func ClassifyPlatform(rawURL string) Platform {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return PlatformOther
	}
	host := strings.ToLower(u.Hostname())

	for _, entry := range platformDomains {
		for _, domain := range entry.domains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return entry.platform
			}
		}
	}
	return PlatformOther
}

// NeedsBrowserHeaders reports whether the extractor should present a browser
// User-Agent when talking to this platform.
func (p Platform) NeedsBrowserHeaders() bool {
	switch p {
	case PlatformInstagram, PlatformFacebook, PlatformTikTok, PlatformTwitter:
		return true
	}
	return false
}

// UnreliableFormats reports whether the platform is known to publish rendition
// metadata that cannot be trusted for selection. Resolution failures on these
// platforms are retried once with the most permissive selector.
func (p Platform) UnreliableFormats() bool {
	switch p {
	case PlatformTikTok, PlatformInstagram, PlatformFacebook, PlatformTwitter:
		return true
	}
	return false
}

// SupportedPlatforms returns the display list advertised by the API.
func SupportedPlatforms() []string {
	return []string{
		"YouTube",
		"Facebook",
		"Instagram",
		"TikTok",
		"Twitter/X",
		"Vimeo",
		"SoundCloud",
		"Dailymotion",
		"Twitch",
		"Reddit",
		"Bilibili",
		"Direct MP3/MP4 links",
		"1000+ more sites",
	}
}
