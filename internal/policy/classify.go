package policy

import "strings"

// CompanyProbe pairs a template with the phrases that identify it. A
// document matches when any phrase occurs anywhere in its lowercased
// text.
type CompanyProbe struct {
	Company  Company
	Keywords []string
}

// Classifier decides which insurer template a document belongs to.
// Probes are evaluated in declaration order and the first match wins,
// so the slice order is the tie-break policy.
type Classifier struct {
	probes []CompanyProbe
}

// NewClassifier creates a Classifier with an explicit probe order.
func NewClassifier(probes []CompanyProbe) *Classifier {
	return &Classifier{probes: probes}
}

// DefaultProbes returns the stock probe table for the three supported
// insurers.
func DefaultProbes() []CompanyProbe {
	return []CompanyProbe{
		{Company: CompanyAllianz, Keywords: []string{"allianz"}},
		{Company: CompanyKooperativa, Keywords: []string{"kooperativa"}},
		{Company: CompanyGenerali, Keywords: []string{"generali", "česká podnikatelská"}},
	}
}

// Classify returns the first template whose probe matches the text, or
// CompanyUnknown when none does. Matching is case-insensitive substring
// search over the whole text.
func (c *Classifier) Classify(text string) Company {
	lower := strings.ToLower(text)
	for _, probe := range c.probes {
		for _, kw := range probe.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return probe.Company
			}
		}
	}
	return CompanyUnknown
}
