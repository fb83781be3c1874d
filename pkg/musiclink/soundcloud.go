package musiclink

import (
	"net/url"
	"strings"
)

// IsSoundCloudLink checks if the URL is a SoundCloud link.
func IsSoundCloudLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	hostname := strings.ToLower(u.Hostname())
	// Support main, mobile, and short link domains.
	switch hostname {
	case "soundcloud.com", "www.soundcloud.com", "m.soundcloud.com", "on.soundcloud.com":
		return true
	}
	return false
}
