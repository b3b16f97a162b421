package ambiguity

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/lexora/internal/models"
	"github.com/hyperjump/lexora/internal/nlp"
)

func doc(id, context, text string) *models.Document {
	return &models.Document{ID: id, Type: models.TypeStatute, Text: text, Context: context}
}

func docWithDate(id, context, date string) *models.Document {
	d := doc(id, context, "testo")
	d.Structure.DataVigore = date
	return d
}

func parsedInfo() *nlp.ParsedQuery {
	return &nlp.ParsedQuery{Intent: nlp.IntentInfo}
}

func TestDetector_multipleContext(t *testing.T) {
	d := NewDetector(nlp.NewRuleParser())
	candidates := []*models.Document{
		doc("CC-1-A", "civile, persone", "a"),
		doc("CP-1-A", "penale", "b"),
		doc("CC-2-A", "civile", "c"),
		doc("Proc-1-A", "procedura", "d"),
	}
	report := d.Detect("domanda generica", parsedInfo(), candidates)
	if !report.IsAmbiguous {
		t.Fatal("expected ambiguous report")
	}
	if report.Reason != ReasonMultipleContext {
		t.Errorf("reason = %q, want %q", report.Reason, ReasonMultipleContext)
	}
	want := []string{"civile", "penale", "procedura"}
	if !reflect.DeepEqual(report.Conflicts.Contexts, want) {
		t.Errorf("contexts = %v, want %v", report.Conflicts.Contexts, want)
	}
	if len(report.Suggestions) == 0 || !strings.Contains(report.Suggestions[0], "civile, penale, procedura") {
		t.Errorf("suggestions should enumerate contexts, got %v", report.Suggestions)
	}
}

func TestDetector_fewCandidatesNotMultipleContext(t *testing.T) {
	d := NewDetector(nlp.NewRuleParser())
	candidates := []*models.Document{
		doc("CC-1-A", "civile", "a"),
		doc("CP-1-A", "penale", "b"),
	}
	report := d.Detect("domanda", parsedInfo(), candidates)
	if report.Reason == ReasonMultipleContext {
		t.Error("multiple_context must not trigger with 2 candidates")
	}
}

func TestDetector_temporalConflict(t *testing.T) {
	d := NewDetector(nlp.NewRuleParser())
	candidates := []*models.Document{
		docWithDate("CC-1-A", "civile", "1942-04-21"),
		docWithDate("CC-1-B", "civile", "2006-03-01"),
	}
	report := d.Detect("quale versione vale", parsedInfo(), candidates)
	if report.Reason != ReasonTemporalConflict {
		t.Fatalf("reason = %q, want %q", report.Reason, ReasonTemporalConflict)
	}
	if len(report.Conflicts.Temporal) != 2 {
		t.Fatalf("temporal conflicts = %d, want 2", len(report.Conflicts.Temporal))
	}
	ids := []string{report.Conflicts.Temporal[0].ID, report.Conflicts.Temporal[1].ID}
	if ids[0] != "CC-1-A" || ids[1] != "CC-1-B" {
		t.Errorf("conflict ids = %v", ids)
	}
}

func TestDetector_polysemousTerms(t *testing.T) {
	d := NewDetector(nlp.NewRuleParser())
	candidates := []*models.Document{
		doc("CC-1-A", "civile", "la custodia delle cose"),
		doc("Proc-1-A", "famiglia", "la custodia dei figli"),
	}
	report := d.Detect("come funziona la custodia?", parsedInfo(), candidates)
	if report.Reason != ReasonPolysemousTerms {
		t.Fatalf("reason = %q, want %q", report.Reason, ReasonPolysemousTerms)
	}
	if len(report.Conflicts.Terms) != 1 || report.Conflicts.Terms[0].Term != "custodia" {
		t.Fatalf("term conflicts = %+v", report.Conflicts.Terms)
	}
	want := []string{"civile", "famiglia"}
	if !reflect.DeepEqual(report.Conflicts.Terms[0].Contexts, want) {
		t.Errorf("contexts = %v, want %v", report.Conflicts.Terms[0].Contexts, want)
	}
}

func TestDetector_priorityOrder(t *testing.T) {
	d := NewDetector(nlp.NewRuleParser())
	// Triggers all three conditions; reported reason must be multiple_context.
	candidates := []*models.Document{
		docWithDate("CC-1-A", "civile", "1942-04-21"),
		docWithDate("CC-1-B", "civile", "2006-03-01"),
		doc("CP-1-A", "penale", "la custodia cautelare"),
		doc("Proc-1-A", "famiglia", "la custodia dei figli"),
	}
	report := d.Detect("custodia", parsedInfo(), candidates)
	if report.Reason != ReasonMultipleContext {
		t.Errorf("reason = %q, want multiple_context by priority", report.Reason)
	}
	if len(report.Conflicts.Temporal) != 2 {
		t.Error("temporal conflicts should still be recorded")
	}
	if len(report.Conflicts.Terms) != 1 {
		t.Error("term conflicts should still be recorded")
	}
}

func TestDetector_unambiguous(t *testing.T) {
	d := NewDetector(nlp.NewRuleParser())
	report := d.Detect("domanda", parsedInfo(), []*models.Document{doc("CC-1-A", "civile", "testo")})
	if report.IsAmbiguous {
		t.Error("single candidate must be unambiguous")
	}
	if report.Reason != ReasonNone {
		t.Errorf("reason = %q, want none", report.Reason)
	}
	if len(report.Suggestions) != 0 {
		t.Errorf("suggestions = %v, want none", report.Suggestions)
	}
}

func TestDetector_deterministic(t *testing.T) {
	d := NewDetector(nlp.NewRuleParser())
	candidates := []*models.Document{
		doc("CC-1-A", "civile", "a"),
		doc("CP-1-A", "penale", "b"),
		doc("CC-2-A", "civile", "c"),
		doc("Proc-1-A", "procedura", "d"),
	}
	a := d.Detect("domanda", parsedInfo(), candidates)
	b := d.Detect("domanda", parsedInfo(), candidates)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs must produce identical reports")
	}
}

func TestThreshold(t *testing.T) {
	p := NewThreshold()
	two := []*models.Document{doc("CC-1-A", "civile", "a"), doc("CP-1-A", "penale", "b")}

	report := p.Detect("domanda", parsedInfo(), two)
	if !report.IsAmbiguous || report.Reason != ReasonMultipleResults {
		t.Fatalf("got %+v, want multiple_results", report)
	}
	if !reflect.DeepEqual(report.Conflicts.CandidateIDs, []string{"CC-1-A", "CP-1-A"}) {
		t.Errorf("candidate ids = %v", report.Conflicts.CandidateIDs)
	}

	compare := &nlp.ParsedQuery{Intent: nlp.IntentCompare}
	if p.Detect("confronta", compare, two).IsAmbiguous {
		t.Error("compare intent must not trigger the threshold policy")
	}
	if p.Detect("domanda", parsedInfo(), two[:1]).IsAmbiguous {
		t.Error("single candidate must be unambiguous")
	}
}

func TestReport_Clarification(t *testing.T) {
	d := NewDetector(nlp.NewRuleParser())
	candidates := []*models.Document{
		doc("CC-1-A", "civile", "a"),
		doc("CP-1-A", "penale", "b"),
		doc("CC-2-A", "civile", "c"),
		doc("Proc-1-A", "procedura", "d"),
	}
	report := d.Detect("domanda", parsedInfo(), candidates)
	text := report.Clarification()
	if !strings.Contains(text, "diversi contesti legali") {
		t.Errorf("clarification missing context explanation:\n%s", text)
	}
	if !strings.Contains(text, "Puoi riformulare la domanda con più dettagli?") {
		t.Error("clarification missing closing question")
	}

	if unambiguous().Clarification() != "" {
		t.Error("non-ambiguous report must render empty clarification")
	}
}
