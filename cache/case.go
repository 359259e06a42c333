package cache

import (
	"strings"
	"unicode"
)

// NormalizeKind returns the canonical form of a counter kind as it appears in
// cache keys, e.g. "FavorCount" and "favor-count" both become "favor_count".
func NormalizeKind(kind string) string {
	return toSnake(kind)
}

// toSnake lowercases s and joins its words with single underscores. Any rune
// that is not a letter or digit acts as a word break.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	pending := false
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					pending = true
				}
			}
		case unicode.IsDigit(r):
			if i > 0 && unicode.IsLetter(runes[i-1]) {
				pending = true
			}
		case !unicode.IsLower(r):
			pending = true
			continue
		}

		if pending && b.Len() > 0 {
			b.WriteByte('_')
		}
		pending = false
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
