package logquery

import (
	"regexp"
	"strings"

	"github.com/V4T54L/logviewer/internal/domain"
)

var quotedRegex = regexp.MustCompile(`"([^"]+)"`)

// ParseQuery splits a query string into quoted phrases, positive terms and
// negative terms. Phrases are pulled out first so their words are not counted
// again as loose terms. Terms are lower-cased, phrases are kept as written.
// A lone "-" carries no term and is dropped.
func ParseQuery(query string) domain.QueryTermSet {
	var set domain.QueryTermSet

	for _, m := range quotedRegex.FindAllStringSubmatch(query, -1) {
		set.QuotedPhrases = append(set.QuotedPhrases, m[1])
		query = strings.ReplaceAll(query, m[0], " ")
	}

	for _, tok := range strings.Fields(query) {
		if rest, neg := strings.CutPrefix(tok, "-"); neg {
			if rest != "" {
				set.NegativeTerms = append(set.NegativeTerms, strings.ToLower(rest))
			}
			continue
		}
		set.PositiveTerms = append(set.PositiveTerms, strings.ToLower(tok))
	}

	return set
}
