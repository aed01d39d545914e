package utils

import "strings"

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"ü", "u", "ñ", "n",
)

// Slugify derives a URL-safe slug from a plant's common name. It is the
// single fallback used when a request does not carry an explicit slug:
// lowercase, fold the Spanish accented vowels and enie, and collapse any
// remaining non-alphanumeric run into one hyphen.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = accentReplacer.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
