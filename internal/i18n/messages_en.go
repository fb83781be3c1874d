package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Error messages
	"error.generic":               "Something went wrong. Please try again.",
	"error.missing_configuration": "Missing Client ID, Client Secret or User ID",
	"error.token.status":          "%s Status: %d",
	"error.token.default":         "Failed to obtain access token.",
	"error.token.request":         "Error obtaining access token",
	"error.api":                   "API Error: %s",
	"error.uploads.unknown":       "Unknown error occurred while fetching tracks.",
	"error.uploads.request":       "There was an error fetching tracks.",
	"error.no_tracks":             "No tracks found.",
	"error.resolve.no_tracks":     "No tracks found for the resolve query. URL: %s",
	"error.resolve.failed":        "Error fetching resolve results. URL: %s",
	"error.resolve.request":       "Error fetching resolve results.",
	"error.resolve.foreign_link":  "%s links cannot be resolved, use a SoundCloud URL instead. URL: %s",
	"error.empty_commit":          "Nothing selected. Add at least one track before saving.",
	"error.commit_failed":         "The selection could not be saved to the document.",
	"error.busy":                  "Please wait until the current request has finished.",

	// Prompts
	"prompt.select_track": "Please select...",
	"prompt.resolve_url":  "SoundCloud URL or search term",

	// Success messages
	"success.committed": "Saved %d track(s).",
	"success.cleared":   "SoundCloud field cleared.",

	// Button texts
	"button.fetch_uploads": "Fetch uploads",
	"button.add_track":     "Add track",
	"button.add_url":       "Add from URL",
	"button.confirm":       "Save selection",
	"button.reset":         "Reset",

	// Detail view labels
	"label.title":             "Title",
	"label.track_id":          "Track ID",
	"label.created_at":        "Created At",
	"label.duration":          "Duration",
	"label.tag_list":          "Tag List",
	"label.streamable":        "Streamable",
	"label.genre":             "Genre",
	"label.description":       "Description",
	"label.license":           "License",
	"label.uri":               "URI",
	"label.stream_url":        "Stream URL",
	"label.playback_count":    "Playback Count",
	"label.favoritings_count": "Favoritings Count",
}
