package musiclink

import (
	"net/url"
	"strings"
)

// foreignProviders maps hostnames of other music services to their provider name.
var foreignProviders = map[string]string{
	"open.spotify.com":  "spotify",
	"spotify.com":       "spotify",
	"youtube.com":       "youtube",
	"www.youtube.com":   "youtube",
	"m.youtube.com":     "youtube",
	"music.youtube.com": "youtube",
	"youtu.be":          "youtube",
	"music.apple.com":   "apple_music",
	"itunes.apple.com":  "apple_music",
	"tidal.com":         "tidal",
	"www.tidal.com":     "tidal",
	"beatport.com":      "beatport",
	"www.beatport.com":  "beatport",
}

// Classify determines what kind of input query is.
func Classify(query string) QueryKind {
	query = strings.TrimSpace(query)
	if query == "" {
		return KindSearch
	}

	u, err := url.Parse(query)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		// Scheme-less links such as "soundcloud.com/artist/track".
		if !strings.Contains(query, " ") && IsSoundCloudLink("https://"+query) {
			return KindSoundCloud
		}
		return KindSearch
	}

	if IsSoundCloudLink(query) {
		return KindSoundCloud
	}
	if Provider(query) != "" {
		return KindForeignLink
	}
	return KindOtherURL
}

// Provider returns the name of the non-SoundCloud music provider rawURL points to,
// or "" if it is not a known provider.
func Provider(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	hostname := strings.ToLower(u.Hostname())
	if name, ok := foreignProviders[hostname]; ok {
		return name
	}
	// Support various Amazon Music domains (music.amazon.com, music.amazon.co.uk, etc.).
	if strings.HasPrefix(hostname, "music.amazon.") {
		return "amazon_music"
	}
	return ""
}
