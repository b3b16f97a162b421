package ambiguity

import (
	"fmt"
	"strings"

	"github.com/hyperjump/lexora/internal/models"
	"github.com/hyperjump/lexora/internal/nlp"
)

// multipleContextThreshold is the candidate count above which differing
// primary contexts are treated as ambiguity rather than breadth.
const multipleContextThreshold = 3

// Detector is the default Policy. It evaluates three conditions (multiple
// contexts, temporal conflicts, polysemous terms) and reports the highest
// priority one that triggered. All conditions are evaluated so the report
// carries every conflict found, but the reason follows the priority order
// multiple_context > temporal_conflict > polysemous_terms.
type Detector struct {
	parser nlp.Parser
}

// NewDetector creates the default detection policy. The parser supplies
// legal-term extraction for the polysemy check.
func NewDetector(parser nlp.Parser) *Detector {
	return &Detector{parser: parser}
}

// Detect classifies candidates for the given query. The result is fully
// deterministic for identical inputs: context and term orderings follow
// first appearance in the candidate list.
func (d *Detector) Detect(query string, parsed *nlp.ParsedQuery, candidates []*models.Document) *Report {
	report := unambiguous()

	if contexts := d.checkMultipleContexts(candidates, report); contexts {
		report.IsAmbiguous = true
		report.Reason = ReasonMultipleContext
	}
	if d.checkTemporalConflicts(candidates, report) && report.Reason == ReasonNone {
		report.IsAmbiguous = true
		report.Reason = ReasonTemporalConflict
	}
	if d.checkPolysemousTerms(query, candidates, report) && report.Reason == ReasonNone {
		report.IsAmbiguous = true
		report.Reason = ReasonPolysemousTerms
	}
	return report
}

// checkMultipleContexts triggers when the candidate set is large and spans
// more than one primary context label.
func (d *Detector) checkMultipleContexts(candidates []*models.Document, report *Report) bool {
	if len(candidates) <= multipleContextThreshold {
		return false
	}
	contexts := distinctInOrder(candidates, func(doc *models.Document) string {
		return doc.PrimaryContext()
	})
	if len(contexts) <= 1 {
		return false
	}
	report.Conflicts.Contexts = contexts
	report.Suggestions = append(report.Suggestions,
		fmt.Sprintf("Specifica il contesto tra: %s", strings.Join(contexts, ", ")),
		"Aggiungi più dettagli alla tua domanda",
		"Specifica il codice di riferimento (es. Codice Civile, Codice Penale)",
	)
	return true
}

// checkTemporalConflicts triggers when more than one candidate carries an
// effective-date field; each conflicting candidate is reported with its date.
func (d *Detector) checkTemporalConflicts(candidates []*models.Document, report *Report) bool {
	var conflicts []TemporalConflict
	for _, doc := range candidates {
		if doc.HasEffectiveDate() {
			conflicts = append(conflicts, TemporalConflict{ID: doc.ID, Date: doc.Structure.DataVigore})
		}
	}
	if len(conflicts) <= 1 {
		return false
	}
	report.Conflicts.Temporal = conflicts
	report.Suggestions = append(report.Suggestions,
		"Specifica il periodo temporale di interesse",
		"Indica se vuoi la versione attuale o una versione storica",
	)
	return true
}

// checkPolysemousTerms triggers when a legal term from the query appears in
// candidates spanning more than one distinct context value.
func (d *Detector) checkPolysemousTerms(query string, candidates []*models.Document, report *Report) bool {
	triggered := false
	for _, term := range d.parser.ExtractLegalTerms(query) {
		var matching []*models.Document
		for _, doc := range candidates {
			if strings.Contains(strings.ToLower(doc.Text), strings.ToLower(term)) {
				matching = append(matching, doc)
			}
		}
		if len(matching) <= 1 {
			continue
		}
		contexts := distinctInOrder(matching, func(doc *models.Document) string {
			return doc.Context
		})
		if len(contexts) <= 1 {
			continue
		}
		triggered = true
		report.Conflicts.Terms = append(report.Conflicts.Terms, TermConflict{Term: term, Contexts: contexts})
		report.Suggestions = append(report.Suggestions,
			fmt.Sprintf("Il termine '%s' ha diversi significati in: %s", term, strings.Join(contexts, ", ")),
		)
	}
	return triggered
}

// distinctInOrder returns the distinct non-empty values of key over docs,
// preserving first-appearance order for determinism.
func distinctInOrder(docs []*models.Document, key func(*models.Document) string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, doc := range docs {
		v := key(doc)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
