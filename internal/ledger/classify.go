package ledger

import "strings"

// Classifier derives the contra-asset and cash-equivalent flags from account
// names at creation time. Markers are plain lowercase substrings; the
// defaults cover the English and Indonesian account names the chart
// conventionally uses.
type Classifier struct {
	ContraMarkers []string
	CashMarkers   []string
}

// DefaultClassifier returns the classifier with the conventional markers.
func DefaultClassifier() Classifier {
	return Classifier{
		ContraMarkers: []string{"accumulated depreciation", "akumulasi penyusutan", "akum. penyusutan"},
		CashMarkers:   []string{"cash", "bank", "kas"},
	}
}

// NewClassifier builds a classifier from configured markers, falling back to
// the defaults when a list is empty.
func NewClassifier(contra, cash []string) Classifier {
	def := DefaultClassifier()
	c := Classifier{ContraMarkers: normalizeMarkers(contra), CashMarkers: normalizeMarkers(cash)}
	if len(c.ContraMarkers) == 0 {
		c.ContraMarkers = def.ContraMarkers
	}
	if len(c.CashMarkers) == 0 {
		c.CashMarkers = def.CashMarkers
	}
	return c
}

// Classify sets ContraAsset and CashEquivalent on the account. Only
// asset-typed accounts can carry either flag.
func (c Classifier) Classify(a *Account) {
	a.ContraAsset = false
	a.CashEquivalent = false
	if a.Type != AccountTypeAsset {
		return
	}
	name := strings.ToLower(a.Name)
	a.ContraAsset = containsAny(name, c.ContraMarkers)
	if !a.ContraAsset {
		a.CashEquivalent = containsAny(name, c.CashMarkers)
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func normalizeMarkers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}
