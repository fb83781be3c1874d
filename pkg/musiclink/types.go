// Package musiclink classifies user input for the SoundCloud resolve endpoint:
// SoundCloud links, links of other music providers, and plain search terms.
package musiclink

// QueryKind is the classification of a resolve query.
type QueryKind int

const (
	// KindSearch is free text that is not a URL.
	KindSearch QueryKind = iota
	// KindSoundCloud is a soundcloud.com link (main, mobile or short link).
	KindSoundCloud
	// KindForeignLink is a link to another music provider, which SoundCloud cannot resolve.
	KindForeignLink
	// KindOtherURL is any other absolute http(s) URL.
	KindOtherURL
)

func (k QueryKind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindSoundCloud:
		return "soundcloud"
	case KindForeignLink:
		return "foreign_link"
	case KindOtherURL:
		return "other_url"
	default:
		return "unknown"
	}
}
