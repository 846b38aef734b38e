package intl

import (
	"encoding/json"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Translator marks and translates user-facing strings. Message ids are the
// English source strings.
type Translator interface {
	T(message string) string
}

// Identity is the pass-through translator used by non-localized builds.
type Identity struct{}

func (Identity) T(message string) string {
	return message
}

var messageFilePatterns = []string{"*.json", "*.toml", "*/*.json", "*/*.toml"}

// NewBundle loads every json and toml message file at the root and one
// directory below it in each of the given file systems.
func NewBundle(files ...fs.FS) (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, fsys := range files {
		for _, pattern := range messageFilePatterns {
			matches, err := fs.Glob(fsys, pattern)
			if err != nil {
				return nil, err
			}
			for _, file := range matches {
				if _, err := bundle.LoadMessageFileFS(fsys, path.Clean(file)); err != nil {
					return nil, err
				}
			}
		}
	}
	return bundle, nil
}

// Localizer translates through a go-i18n bundle, falling back to the source
// string when a message is missing.
type Localizer struct {
	localizer *i18n.Localizer
	locale    language.Tag
}

func NewLocalizer(bundle *i18n.Bundle, locale language.Tag) *Localizer {
	return &Localizer{
		localizer: i18n.NewLocalizer(bundle, locale.String()),
		locale:    locale,
	}
}

func (l *Localizer) Locale() language.Tag {
	return l.locale
}

func (l *Localizer) T(message string) string {
	out, err := l.localizer.Localize(&i18n.LocalizeConfig{MessageID: message})
	if err != nil || out == "" {
		return message
	}
	return out
}
