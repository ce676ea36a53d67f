package domain

// QueryTermSet is the parsed form of a free-text query.
type QueryTermSet struct {
	QuotedPhrases []string
	PositiveTerms []string
	NegativeTerms []string
}

// IsEmpty reports whether the set carries no terms at all.
func (q QueryTermSet) IsEmpty() bool {
	return len(q.QuotedPhrases) == 0 && len(q.PositiveTerms) == 0 && len(q.NegativeTerms) == 0
}
