package ff

import (
	"strings"
	"unicode"
)

// toSnake converts an exported Go field name to snake_case for use as a key
// path segment. Acronym runs collapse so GetByID becomes get_by_id and
// HTTPClient becomes http_client; the result is stable across runs, which
// matters because it feeds persistent cache keys.
func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))

		case unicode.IsDigit(r):
			if i > 0 && !unicode.IsDigit(runes[i-1]) {
				b.WriteByte('_')
			}
			b.WriteRune(r)

		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
