package ambiguity

import (
	"fmt"
	"strings"
)

// Clarification renders the user-facing clarification text for an ambiguous
// report. Returns "" for a non-ambiguous report.
func (r *Report) Clarification() string {
	if !r.IsAmbiguous {
		return ""
	}
	parts := []string{"Ho trovato alcune ambiguità nella tua domanda:"}

	switch r.Reason {
	case ReasonMultipleContext:
		parts = append(parts,
			"",
			"La tua domanda potrebbe riferirsi a diversi contesti legali.",
			"Per aiutarti meglio, potresti:")
		for _, s := range r.Suggestions {
			parts = append(parts, "- "+s)
		}
	case ReasonTemporalConflict:
		parts = append(parts,
			"",
			"Ho trovato versioni diverse della normativa nel tempo.",
			"Potresti specificare:")
		for _, s := range r.Suggestions {
			parts = append(parts, "- "+s)
		}
	case ReasonPolysemousTerms:
		parts = append(parts,
			"",
			"Alcuni termini nella tua domanda hanno significati diversi in contesti legali diversi:")
		for _, tc := range r.Conflicts.Terms {
			parts = append(parts, "", fmt.Sprintf("'%s' può riferirsi a:", tc.Term))
			for _, ctx := range tc.Contexts {
				parts = append(parts, "- "+ctx)
			}
		}
	case ReasonMultipleResults:
		parts = append(parts, "", "Ho trovato più risultati pertinenti:")
		for _, id := range r.Conflicts.CandidateIDs {
			parts = append(parts, "- "+id)
		}
	}

	parts = append(parts, "", "Puoi riformulare la domanda con più dettagli?")
	return strings.Join(parts, "\n")
}
