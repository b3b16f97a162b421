package ambiguity

import (
	"github.com/hyperjump/lexora/internal/models"
	"github.com/hyperjump/lexora/internal/nlp"
)

// Threshold is the simple alternative policy: any result set with more than
// one candidate is ambiguous unless the query intent is an explicit
// comparison. It reports the candidate ids so the user can narrow down.
type Threshold struct{}

// NewThreshold creates the threshold policy.
func NewThreshold() *Threshold {
	return &Threshold{}
}

// Detect short-circuits on candidate count alone.
func (t *Threshold) Detect(query string, parsed *nlp.ParsedQuery, candidates []*models.Document) *Report {
	if len(candidates) <= 1 {
		return unambiguous()
	}
	if parsed != nil && parsed.Intent == nlp.IntentCompare {
		return unambiguous()
	}
	ids := make([]string, len(candidates))
	for i, doc := range candidates {
		ids[i] = doc.ID
	}
	return &Report{
		IsAmbiguous: true,
		Reason:      ReasonMultipleResults,
		Conflicts:   Conflicts{CandidateIDs: ids},
		Suggestions: []string{"Ho trovato più risultati: restringi la domanda indicando il documento di interesse"},
	}
}
