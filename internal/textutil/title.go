package textutil

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownTitle is returned when nothing readable remains of an identifier.
const UnknownTitle = "Unknown ROM"

// TitleFromID derives a display title from a ROM identifier or file name.
// The extension is dropped, separators collapse to single spaces and each
// word is title-cased: "street_fighter-3.zip" becomes "Street Fighter 3".
func TitleFromID(id string) string {
	base := filepath.Base(strings.TrimSpace(id))
	if base == "." || base == string(filepath.Separator) {
		return UnknownTitle
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var cleaned strings.Builder
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return UnknownTitle
	}
	return cases.Title(language.Und).String(title)
}
