package intl

import (
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DateFormatter renders dates the way the list shows them.
type DateFormatter interface {
	FormatDate(t time.Time) string
}

var mediumDateLayouts = map[language.Base]string{
	mustBase(language.English): "Jan 2, 2006",
	mustBase(language.Chinese): "2006年1月2日",
}

func mustBase(tag language.Tag) language.Base {
	base, _ := tag.Base()
	return base
}

// MediumDate formats dates in the locale's medium date pattern in a fixed
// location.
type MediumDate struct {
	layout   string
	location *time.Location
}

func NewMediumDate(locale language.Tag, location *time.Location) *MediumDate {
	layout, ok := mediumDateLayouts[mustBase(locale)]
	if !ok {
		layout = time.DateOnly
	}
	if location == nil {
		location = time.Local
	}
	return &MediumDate{layout: layout, location: location}
}

func (d *MediumDate) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(d.location).Format(d.layout)
}

// Collator compares strings with the locale's collation rules.
type Collator struct {
	mu       sync.Mutex
	collator *collate.Collator
}

func NewCollator(locale language.Tag) *Collator {
	return &Collator{collator: collate.New(locale)}
}

func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collator.CompareString(a, b)
}

// Fold returns the case-folded form of s for case-insensitive matching.
func Fold(s string) string {
	return cases.Fold().String(s)
}
