package shared

import (
	"strings"
	"unicode"
)

// ToCamel upper-cases every letter or digit that follows a dash and drops
// the dash: "slider-neighbor" becomes "sliderNeighbor".
func ToCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upper := false
	for _, r := range s {
		if r == '-' {
			upper = true
			continue
		}
		if upper && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			r = unicode.ToUpper(r)
		} else if upper {
			b.WriteRune('-')
		}
		upper = false
		b.WriteRune(r)
	}
	if upper {
		b.WriteRune('-')
	}
	return b.String()
}
