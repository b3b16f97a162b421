// Package ambiguity classifies candidate sets that cannot be answered
// directly and produces user-facing clarification suggestions.
package ambiguity

import (
	"github.com/hyperjump/lexora/internal/models"
	"github.com/hyperjump/lexora/internal/nlp"
)

// Reason identifies why a candidate set is ambiguous.
type Reason string

const (
	ReasonNone             Reason = "none"
	ReasonMultipleContext  Reason = "multiple_context"
	ReasonTemporalConflict Reason = "temporal_conflict"
	ReasonPolysemousTerms  Reason = "polysemous_terms"
	// ReasonMultipleResults is only produced by the Threshold policy.
	ReasonMultipleResults Reason = "multiple_results"
)

// TemporalConflict records one candidate carrying an effective date.
type TemporalConflict struct {
	ID   string `json:"id"`
	Date string `json:"data"`
}

// TermConflict records a query term appearing in candidates from more than
// one context.
type TermConflict struct {
	Term     string   `json:"term"`
	Contexts []string `json:"contexts"`
}

// Conflicts is the structured detail of a Report. Only the fields relevant
// to the triggered conditions are populated.
type Conflicts struct {
	Contexts     []string           `json:"contexts,omitempty"`
	Temporal     []TemporalConflict `json:"temporal,omitempty"`
	Terms        []TermConflict     `json:"terms,omitempty"`
	CandidateIDs []string           `json:"candidate_ids,omitempty"`
}

// Report is the result of ambiguity detection for one query. It is produced
// fresh per query and never persisted.
type Report struct {
	IsAmbiguous bool      `json:"is_ambiguous"`
	Reason      Reason    `json:"reason"`
	Conflicts   Conflicts `json:"conflicts"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

// Policy decides whether a filtered candidate set is ambiguous. The system
// historically carried two competing designs (a rich multi-reason detector
// and a bare result-count threshold); both live behind this interface and
// exactly one is active, chosen by configuration.
type Policy interface {
	Detect(query string, parsed *nlp.ParsedQuery, candidates []*models.Document) *Report
}

// unambiguous is the shared non-ambiguous report.
func unambiguous() *Report {
	return &Report{Reason: ReasonNone}
}
