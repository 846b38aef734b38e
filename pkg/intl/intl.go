package intl

import (
	"golang.org/x/text/language"
)

type SupportedLanguage struct {
	Code        string
	VerboseName string
	Tag         language.Tag
}

// DefaultLocale is used when no locale is configured.
var DefaultLocale = language.English

var allSupportedLanguages = []SupportedLanguage{
	{Code: "en", VerboseName: "English", Tag: language.English},
	{Code: "zh", VerboseName: "中文", Tag: language.Chinese},
}

// GetSupportedLanguages returns the languages named in whitelist, in their
// canonical order. An empty whitelist, or one naming no known language,
// returns all of them.
func GetSupportedLanguages(whitelist []string) []SupportedLanguage {
	if len(whitelist) == 0 {
		return allSupportedLanguages
	}

	allowed := make(map[string]bool, len(whitelist))
	for _, code := range whitelist {
		allowed[code] = true
	}

	filtered := make([]SupportedLanguage, 0, len(whitelist))
	for _, lang := range allSupportedLanguages {
		if allowed[lang.Code] {
			filtered = append(filtered, lang)
		}
	}
	if len(filtered) == 0 {
		return allSupportedLanguages
	}
	return filtered
}

// LanguageCodes lists the codes of langs.
func LanguageCodes(langs []SupportedLanguage) []string {
	codes := make([]string, len(langs))
	for i, l := range langs {
		codes[i] = l.Code
	}
	return codes
}

// MatchLocale picks the language in supported closest to the requested one,
// falling back to the first.
func MatchLocale(requested string, supported []SupportedLanguage) language.Tag {
	if len(supported) == 0 {
		supported = allSupportedLanguages
	}
	tags := make([]language.Tag, len(supported))
	for i, lang := range supported {
		tags[i] = lang.Tag
	}
	candidate, err := language.Parse(requested)
	if err != nil {
		return tags[0]
	}
	_, idx, _ := language.NewMatcher(tags).Match(candidate)
	return tags[idx]
}
