package i18n

// germanMessages contains all German translations
var germanMessages = map[string]string{
	// Error messages
	"error.generic":               "Etwas ist schiefgelaufen. Bitte versuche es erneut.",
	"error.missing_configuration": "Client ID, Client Secret oder User ID fehlt",
	"error.token.status":          "%s Status: %d",
	"error.token.default":         "Access Token konnte nicht abgerufen werden.",
	"error.token.request":         "Fehler beim Abrufen des Access Tokens",
	"error.api":                   "API-Fehler: %s",
	"error.uploads.unknown":       "Beim Laden der Tracks ist ein unbekannter Fehler aufgetreten.",
	"error.uploads.request":       "Beim Laden der Tracks ist ein Fehler aufgetreten.",
	"error.no_tracks":             "Keine Tracks gefunden.",
	"error.resolve.no_tracks":     "Keine Tracks für die Abfrage gefunden. URL: %s",
	"error.resolve.failed":        "Fehler beim Auflösen der Abfrage. URL: %s",
	"error.resolve.request":       "Fehler beim Auflösen der Abfrage.",
	"error.resolve.foreign_link":  "%s-Links können nicht aufgelöst werden, bitte eine SoundCloud-URL verwenden. URL: %s",
	"error.empty_commit":          "Nichts ausgewählt. Füge vor dem Speichern mindestens einen Track hinzu.",
	"error.commit_failed":         "Die Auswahl konnte nicht im Dokument gespeichert werden.",
	"error.busy":                  "Bitte warte, bis die laufende Anfrage abgeschlossen ist.",

	// Prompts
	"prompt.select_track": "Bitte wählen...",
	"prompt.resolve_url":  "SoundCloud-URL oder Suchbegriff",

	// Success messages
	"success.committed": "%d Track(s) gespeichert.",
	"success.cleared":   "SoundCloud-Feld geleert.",

	// Button texts
	"button.fetch_uploads": "Uploads laden",
	"button.add_track":     "Track hinzufügen",
	"button.add_url":       "Von URL hinzufügen",
	"button.confirm":       "Auswahl speichern",
	"button.reset":         "Zurücksetzen",

	// Detail view labels
	"label.title":             "Titel",
	"label.track_id":          "Track-ID",
	"label.created_at":        "Erstellt am",
	"label.duration":          "Dauer",
	"label.tag_list":          "Tags",
	"label.streamable":        "Streambar",
	"label.genre":             "Genre",
	"label.description":       "Beschreibung",
	"label.license":           "Lizenz",
	"label.uri":               "URI",
	"label.stream_url":        "Stream-URL",
	"label.playback_count":    "Wiedergaben",
	"label.favoritings_count": "Favoriten",
}
