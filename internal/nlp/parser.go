// Package nlp provides query parsing: coarse intent, entity hints, and
// legal-term extraction. The Parser interface is the seam for plugging in a
// real linguistic model; RuleParser is the built-in rule-based implementation.
package nlp

import (
	"strings"

	"github.com/hyperjump/lexora/internal/models"
	"github.com/hyperjump/lexora/pkg/utils"
)

// Intent values produced by parsing.
const (
	IntentInfo    = "info"
	IntentCompare = "compare"
)

// Entities are the hints extracted from a query. Empty fields mean the query
// did not mention that entity.
type Entities struct {
	Codice   string // spoken code name, e.g. "codice civile"
	Articolo string // article number, e.g. "2051"
	Tipo     string // requested document type, e.g. "sentenza"
	Evento   string // triggering event, e.g. "Incendio"
}

// ParsedQuery is the result of parsing one query.
type ParsedQuery struct {
	Intent   string
	Entities Entities
}

// Parser extracts intent, entities, and legal terms from raw query text.
type Parser interface {
	Parse(query string) *ParsedQuery
	ExtractLegalTerms(query string) []string
}

// compareMarkers flip the intent to compare.
var compareMarkers = []string{"confronta", "differenze"}

// codeNames are the spoken code names recognized as codice entities.
var codeNames = []string{"codice civile", "codice penale"}

// tipoNames are the document-type words recognized as tipo entities.
var tipoNames = map[string]bool{
	string(models.TypeProcedure): true,
	string(models.TypeRuling):    true,
	string(models.TypeCircular):  true,
}

// legalTerms is the fixed lexicon of legal terms of interest, used for
// polysemy detection. These are terms whose meaning shifts across legal
// contexts (e.g. "custodia" in family law vs. liability for things).
var legalTerms = map[string]bool{
	"custodia":     true,
	"sequestro":    true,
	"possesso":     true,
	"prescrizione": true,
	"appello":      true,
	"ricorso":      true,
	"danno":        true,
	"colpa":        true,
	"dolo":         true,
	"obbligazione": true,
}

// RuleParser is a deterministic rule-based Parser.
type RuleParser struct{}

// NewRuleParser returns the built-in rule-based parser.
func NewRuleParser() *RuleParser {
	return &RuleParser{}
}

// Parse extracts intent and entity hints from the query.
func (p *RuleParser) Parse(query string) *ParsedQuery {
	lower := strings.ToLower(query)
	tokens := utils.Tokenize(query)

	parsed := &ParsedQuery{Intent: IntentInfo}
	for _, marker := range compareMarkers {
		if strings.Contains(lower, marker) {
			parsed.Intent = IntentCompare
			break
		}
	}
	for _, name := range codeNames {
		if strings.Contains(lower, name) {
			parsed.Entities.Codice = name
			break
		}
	}
	for i, tok := range tokens {
		word := trimPunct(tok)
		if strings.Contains(word, "articolo") && i+1 < len(tokens) {
			if num := trimPunct(tokens[i+1]); isDigits(num) {
				parsed.Entities.Articolo = num
			}
		}
		if tipoNames[word] && parsed.Entities.Tipo == "" {
			parsed.Entities.Tipo = word
		}
		if strings.Contains(word, "incendio") {
			parsed.Entities.Evento = "Incendio"
		}
	}
	return parsed
}

// ExtractLegalTerms returns the query tokens found in the legal-term lexicon,
// in query order, deduplicated.
func (p *RuleParser) ExtractLegalTerms(query string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, tok := range utils.Tokenize(query) {
		word := trimPunct(tok)
		if legalTerms[word] && !seen[word] {
			seen[word] = true
			terms = append(terms, word)
		}
	}
	return terms
}

func trimPunct(s string) string {
	return strings.Trim(s, ".,;:!?'\"()")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
