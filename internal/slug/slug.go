// Package slug validates user-supplied note slugs and derives slugs from
// note titles when the user leaves the field blank.
package slug

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/MaraVoron/ya-note/internal/stringsx"
)

// MaxLen bounds both user-supplied and derived slugs.
const MaxLen = 100

// ErrInvalidFormat is returned by Validate for candidates outside the slug grammar.
var ErrInvalidFormat = errors.New("invalid slug format")

var pattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Validate normalizes candidate (trim, lowercase) and checks it against the
// slug grammar: ASCII letters, digits, hyphen, underscore, at most MaxLen
// characters. It returns the normalized slug, which is what gets persisted.
func Validate(candidate string) (string, error) {
	s := stringsx.Normalize(candidate)
	if s == "" || len(s) > MaxLen || !pattern.MatchString(s) {
		return "", ErrInvalidFormat
	}
	return s, nil
}

// translit maps lowercase Cyrillic letters to their Latin romanization.
// Hard and soft signs vanish without leaving a separator.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// FromTitle derives a slug from a note title: lowercase, Cyrillic
// transliterated to Latin, any run of other characters collapsed into a
// single hyphen, clipped to MaxLen. The result is deterministic for any
// title that yields at least one slug character; a title with no derivable
// content falls back to "note-" plus eight hex characters of a random UUID.
func FromTitle(title string) string {
	var b strings.Builder
	pending := false
	wrote := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending {
				b.WriteByte('-')
				pending = false
			}
			b.WriteRune(r)
			wrote = true
		default:
			t, ok := translit[r]
			if !ok {
				if wrote {
					pending = true
				}
				continue
			}
			if t == "" {
				continue
			}
			if pending {
				b.WriteByte('-')
				pending = false
			}
			b.WriteString(t)
			wrote = true
		}
	}

	s := strings.TrimRight(stringsx.Clip(b.String(), MaxLen), "-")
	if s == "" {
		return "note-" + uuid.NewString()[:8]
	}
	return s
}
