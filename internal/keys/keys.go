// Package keys derives storage keys from human labels.
//
// A key is a pure function of the label: Cyrillic letters are transliterated,
// Latin diacritics folded, the result lowercased and every run of characters
// outside [a-z0-9] collapsed into a single separator. Storage keys use the
// underscore separator; Slug returns the dash form.
package keys

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	'і': "i", 'ї': "yi", 'є': "ye", 'ґ': "g",
}

// Source is the minimal view of a definition needed to resolve its key.
// Key, when set, is a key pinned at first save and wins over the label.
type Source struct {
	Type  string
	Order int
	Label string
	Key   string
}

// Slug returns the dash separated form of label.
func Slug(label string) string {
	folded := fold(transliterate(strings.ToLower(label)))

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// Derive returns the storage key for label. It may be empty when the label
// carries no letters or digits.
func Derive(label string) string {
	return strings.ReplaceAll(Slug(label), "-", "_")
}

// Legacy returns the key older records used before labels were slugged.
func Legacy(contentType string, order int) string {
	return fmt.Sprintf("%s-%d", contentType, order)
}

// ResolveUnique returns one key per source, aligned with the input.
//
// Pinned keys are reserved first so a relabel never moves an existing key.
// Other sources derive their key from the label and fall back to the legacy
// "{type}-{order}" form when the label yields nothing. A base key already in
// use receives a numeric suffix (_1, _2, ...) in input order.
func ResolveUnique(sources []Source) []string {
	out := make([]string, len(sources))
	used := make(map[string]struct{}, len(sources))

	claim := func(base string) string {
		candidate := base
		for i := 1; ; i++ {
			if _, taken := used[candidate]; !taken {
				used[candidate] = struct{}{}
				return candidate
			}
			candidate = fmt.Sprintf("%s_%d", base, i)
		}
	}

	for i, src := range sources {
		if pinned := strings.TrimSpace(src.Key); pinned != "" {
			out[i] = claim(pinned)
		}
	}
	for i, src := range sources {
		if strings.TrimSpace(src.Key) != "" {
			continue
		}
		base := Derive(src.Label)
		if base == "" {
			base = Legacy(src.Type, src.Order)
		}
		out[i] = claim(base)
	}
	return out
}

func transliterate(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if latin, ok := cyrillic[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func fold(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return folded
}
