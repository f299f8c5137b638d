package followup

import (
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		about above after again against also been before being below between both
		could does doing down during each from further have having here into just
		more most other over same should some such than that their them then there
		these they this those through under until very were what when where which
		while will with would your yours tell know like please describe explain`) {
		stopwords[w] = struct{}{}
	}
}

// keywords lowercases q, splits on anything but letters and digits, and
// drops tokens of three runes or fewer and stopwords.
func keywords(q string) []string {
	fields := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) <= 3 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// grounded reports whether any keyword of q occurs in the lowercased context.
func grounded(q, lowerContext string) bool {
	for _, k := range keywords(q) {
		if strings.Contains(lowerContext, k) {
			return true
		}
	}
	return false
}
