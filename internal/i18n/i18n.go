// Package i18n provides internationalization support for user-facing messages
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

const (
	// DefaultLanguage is the fallback language when no translation is available
	DefaultLanguage = "en"
	// GermanMessages is the language of the German editor UI ("Bitte wählen...")
	GermanMessages = "de"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first entry is the matcher's fallback
	language.German,
})

// Localizer provides translation functionality
type Localizer struct {
	language string
	messages map[string]string
}

// NewLocalizer creates a new localizer for the best supported match of language.
// Accepts BCP 47 tags ("de-CH") and Accept-Language style lists ("de-CH,de;q=0.9,en;q=0.5").
func NewLocalizer(language string) *Localizer {
	lang := Match(language)
	return &Localizer{
		language: lang,
		messages: getMessages(lang),
	}
}

// Language returns the resolved language code.
func (l *Localizer) Language() string {
	return l.language
}

// T translates a message key, with optional parameters for formatting
func (l *Localizer) T(key string, args ...interface{}) string {
	if message, exists := l.messages[key]; exists {
		if len(args) > 0 {
			return fmt.Sprintf(message, args...)
		}
		return message
	}

	// Fallback to English if key not found in current language
	if l.language != DefaultLanguage {
		if fallbackMessage, exists := getMessages(DefaultLanguage)[key]; exists {
			if len(args) > 0 {
				return fmt.Sprintf(fallbackMessage, args...)
			}
			return fallbackMessage
		}
	}

	// Ultimate fallback: return the key itself
	return key
}

// Match returns the supported language code closest to requested.
func Match(requested string) string {
	if requested == "" {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(requested)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return GetSupportedLanguages()[index]
}

// GetSupportedLanguages returns list of supported language codes, in matcher order
func GetSupportedLanguages() []string {
	return []string{DefaultLanguage, GermanMessages}
}

// getMessages returns the message map for a given language
func getMessages(language string) map[string]string {
	switch language {
	case DefaultLanguage:
		return englishMessages
	case GermanMessages:
		return germanMessages
	default:
		return englishMessages // Default to English
	}
}
