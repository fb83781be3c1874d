package i18n

import (
	"sort"
	"strings"
	"testing"
)

// TestI18nCompleteness verifies that all language profiles contain all message keys
func TestI18nCompleteness(t *testing.T) {
	languages := GetSupportedLanguages()
	if len(languages) == 0 {
		t.Fatal("No supported languages found")
	}

	referenceMessages := getMessages(DefaultLanguage)
	if len(referenceMessages) == 0 {
		t.Fatal("No reference messages found in default language")
	}

	var referenceKeys []string
	for key := range referenceMessages {
		referenceKeys = append(referenceKeys, key)
	}
	sort.Strings(referenceKeys)

	t.Logf("Reference language (%s) has %d message keys", DefaultLanguage, len(referenceKeys))

	for _, lang := range languages {
		t.Run("Language_"+lang, func(t *testing.T) {
			messages := getMessages(lang)

			var missingKeys []string
			for _, refKey := range referenceKeys {
				if _, exists := messages[refKey]; !exists {
					missingKeys = append(missingKeys, refKey)
				}
			}

			var extraKeys []string
			for langKey := range messages {
				if _, exists := referenceMessages[langKey]; !exists {
					extraKeys = append(extraKeys, langKey)
				}
			}

			if len(missingKeys) > 0 {
				t.Errorf("Language %s is missing %d keys: %v", lang, len(missingKeys), missingKeys)
			}

			if len(extraKeys) > 0 {
				t.Logf("Language %s has %d extra keys (not in reference): %v", lang, len(extraKeys), extraKeys)
			}
		})
	}
}

// TestI18nKeyConsistency verifies that all message keys follow expected patterns
func TestI18nKeyConsistency(t *testing.T) {
	expectedPrefixes := []string{
		"error.",
		"prompt.",
		"success.",
		"button.",
		"label.",
	}

	for key := range getMessages(DefaultLanguage) {
		hasValidPrefix := false
		for _, prefix := range expectedPrefixes {
			if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
				hasValidPrefix = true
				break
			}
		}

		if !hasValidPrefix {
			t.Errorf("Message key '%s' does not follow expected naming convention (should start with one of: %v)", key, expectedPrefixes)
		}
	}
}

// TestI18nMessageValues verifies that messages contain expected placeholders
func TestI18nMessageValues(t *testing.T) {
	testsWithPlaceholders := map[string]int{
		"error.token.status":         2, // message, status
		"error.api":                  1, // upstream message
		"error.resolve.no_tracks":    1, // url
		"error.resolve.failed":       1, // url
		"error.resolve.foreign_link": 2, // provider, url
		"success.committed":          1, // track count
	}

	for _, lang := range GetSupportedLanguages() {
		messages := getMessages(lang)
		for key, expectedPlaceholders := range testsWithPlaceholders {
			message, exists := messages[key]
			if !exists {
				t.Errorf("Expected message key '%s' not found in %s", key, lang)
				continue
			}

			placeholderCount := 0
			for i := 0; i < len(message)-1; i++ {
				if message[i] == '%' && (message[i+1] == 's' || message[i+1] == 'd') {
					placeholderCount++
				}
			}

			if placeholderCount != expectedPlaceholders {
				t.Errorf("Message key '%s' (%s) should have %d placeholders but has %d: %s",
					key, lang, expectedPlaceholders, placeholderCount, message)
			}
		}
	}
}

// TestLocalizerFunctionality tests the Localizer methods
func TestLocalizerFunctionality(t *testing.T) {
	localizer := NewLocalizer(DefaultLanguage)
	if localizer == nil {
		t.Fatal("Failed to create localizer")
	}

	result := localizer.T("error.generic")
	if result == "" || result == "error.generic" {
		t.Errorf("Expected translated message for 'error.generic', got: %s", result)
	}

	nonExistentKey := "this.key.does.not.exist"
	result = localizer.T(nonExistentKey)
	if result != nonExistentKey {
		t.Errorf("Expected fallback to key name for non-existent key, got: %s", result)
	}

	result = localizer.T("error.api", "401 - Unauthorized")
	expected := "API Error: 401 - Unauthorized"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}

	result = localizer.T("error.token.status", "invalid_client", 401)
	expected = "invalid_client Status: 401"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		expected  string
	}{
		{name: "Empty", requested: "", expected: DefaultLanguage},
		{name: "English", requested: "en", expected: DefaultLanguage},
		{name: "German", requested: "de", expected: GermanMessages},
		{name: "Swiss German region", requested: "de-CH", expected: GermanMessages},
		{name: "Accept-Language list", requested: "de-AT,de;q=0.9,en;q=0.5", expected: GermanMessages},
		{name: "Unsupported", requested: "ja", expected: DefaultLanguage},
		{name: "Garbage", requested: "!!not a tag!!", expected: DefaultLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.requested); got != tt.expected {
				t.Errorf("Match(%q) = %q, expected %q", tt.requested, got, tt.expected)
			}
		})
	}
}

func TestNewLocalizer_GermanRegion(t *testing.T) {
	localizer := NewLocalizer("de-CH")

	if localizer.Language() != GermanMessages {
		t.Errorf("Language() = %q, expected %q", localizer.Language(), GermanMessages)
	}
	if got := localizer.T("prompt.select_track"); got != "Bitte wählen..." {
		t.Errorf("T(prompt.select_track) = %q, expected German prompt", got)
	}
}

// TestGetSupportedLanguages verifies the supported languages function
func TestGetSupportedLanguages(t *testing.T) {
	languages := GetSupportedLanguages()

	if len(languages) == 0 {
		t.Error("GetSupportedLanguages should return at least one language")
	}

	if languages[0] != DefaultLanguage {
		t.Errorf("GetSupportedLanguages()[0] = %q, expected default language '%s'", languages[0], DefaultLanguage)
	}
}

// BenchmarkLocalizer benchmarks the localization performance
func BenchmarkLocalizer(b *testing.B) {
	localizer := NewLocalizer(DefaultLanguage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = localizer.T("error.generic")
	}
}

// BenchmarkLocalizerWithArgs benchmarks localization with arguments
func BenchmarkLocalizerWithArgs(b *testing.B) {
	localizer := NewLocalizer(DefaultLanguage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = localizer.T("error.resolve.failed", "https%3A%2F%2Fsoundcloud.com%2Fa")
	}
}
