// Package assembler serializes resolved documents into the structured
// grounding context handed to the answer generator.
package assembler

import (
	"strings"

	"github.com/hyperjump/lexora/internal/models"
)

// Assemble groups candidates by type (statutes, rulings, procedures, other),
// preserving their order within each bucket, and renders each bucket under a
// labeled section. The returned string plus the original query is the entire
// payload the answer generator receives.
func Assemble(candidates []*models.Document) string {
	var statutes, rulings, procedures, others []*models.Document
	for _, doc := range candidates {
		switch doc.Type {
		case models.TypeStatute:
			statutes = append(statutes, doc)
		case models.TypeRuling:
			rulings = append(rulings, doc)
		case models.TypeProcedure:
			procedures = append(procedures, doc)
		default:
			others = append(others, doc)
		}
	}

	var parts []string
	if len(statutes) > 0 {
		parts = append(parts, "Articoli di legge pertinenti:")
		for _, doc := range statutes {
			parts = append(parts,
				"- "+doc.ID+": "+doc.Text,
				"  Contesto: "+doc.Context)
		}
	}
	if len(rulings) > 0 {
		parts = append(parts, "\nInterpretazioni giurisprudenziali:")
		for _, doc := range rulings {
			parts = append(parts,
				"- Sentenza "+doc.ID+":",
				"  "+doc.Text)
		}
	}
	if len(procedures) > 0 {
		parts = append(parts, "\nProcedure correlate:")
		for _, doc := range procedures {
			parts = append(parts,
				"- "+doc.ID+":",
				"  "+doc.Text)
		}
	}
	if len(others) > 0 {
		parts = append(parts, "\nAltri documenti rilevanti:")
		for _, doc := range others {
			parts = append(parts,
				"- "+doc.ID+":",
				"  "+doc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
