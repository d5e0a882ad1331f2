// Package compliance provides the default compliance classifier: a
// synchronous keyword lookup against a disallowed-terms list.
package compliance

import (
	"strings"

	"github.com/StudioSol/set"
	"github.com/raykavin/signalcast/core"
)

// defaultTerms is the built-in disallowed-content policy
var defaultTerms = []string{
	"gambling",
	"porn",
	"alcohol",
	"interest",
	"riba",
	"lending",
	"borrowing",
}

// KeywordClassifier implements core.Classifier by matching a symbol and
// description against a set of disallowed terms. Matching is
// case-insensitive substring search over both fields.
type KeywordClassifier struct {
	terms *set.LinkedHashSetString
}

// NewKeywordClassifier creates a classifier with the given disallowed
// terms. With no arguments the built-in policy is used.
func NewKeywordClassifier(terms ...string) *KeywordClassifier {
	if len(terms) == 0 {
		terms = defaultTerms
	}

	termSet := set.NewLinkedHashSetString()
	for _, term := range terms {
		termSet.Add(strings.ToLower(term))
	}

	return &KeywordClassifier{terms: termSet}
}

// Classify implements core.Classifier. It never fails; remote or otherwise
// fallible classifiers plug in behind the same interface.
func (c *KeywordClassifier) Classify(symbol, description string) (core.Compliance, error) {
	symbol = strings.ToLower(symbol)
	description = strings.ToLower(description)

	for term := range c.terms.Iter() {
		if strings.Contains(symbol, term) || strings.Contains(description, term) {
			return core.NonCompliant, nil
		}
	}

	return core.Compliant, nil
}
