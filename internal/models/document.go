// Package models defines core data structures for legal documents and queries.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type identifies the kind of a legal document. The values are the literal
// type strings used in the document store.
type Type string

const (
	TypeStatute   Type = "legge"
	TypeProcedure Type = "procedura"
	TypeRuling    Type = "sentenza"
	TypeCircular  Type = "circolare"
)

// Valid reports whether t is one of the known document types.
func (t Type) Valid() bool {
	switch t {
	case TypeStatute, TypeProcedure, TypeRuling, TypeCircular:
		return true
	}
	return false
}

// IDPrefixes maps the recognized id prefix codes to document types.
// Every document id is "<prefix>-<locator>".
var IDPrefixes = map[string]Type{
	"CC":   TypeStatute,
	"CP":   TypeStatute,
	"Proc": TypeProcedure,
	"Cass": TypeRuling,
	"Circ": TypeCircular,
}

// Document is the atomic retrievable unit: a statute article, a procedure,
// a ruling, or a circular.
type Document struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Text      string    `json:"text"`
	Context   string    `json:"context"`
	Structure Structure `json:"structure"`
}

// Structure is the type-dependent attribute block of a document. Exactly one
// variant is set, matching the document type. DataVigore is an optional
// effective date that any type may carry.
type Structure struct {
	Statute    *StatuteStructure
	Procedure  *ProcedureStructure
	Ruling     *RulingStructure
	Circular   *CircularStructure
	DataVigore string
}

// StatuteStructure locates an article inside a code hierarchy.
type StatuteStructure struct {
	Codice   string   `json:"codice"`
	Libro    string   `json:"libro"`
	Titolo   string   `json:"titolo"`
	Capo     string   `json:"capo"`
	Articolo string   `json:"articolo"`
	Commi    []string `json:"commi"`
}

// ProcedureStructure describes a triggering event and its ordered steps.
type ProcedureStructure struct {
	Evento string   `json:"evento"`
	Steps  []string `json:"steps"`
}

// RulingStructure carries docket data and the ids of the documents the
// ruling cites.
type RulingStructure struct {
	Numero      string   `json:"numero"`
	Anno        int      `json:"anno"`
	Sezione     string   `json:"sezione"`
	Riferimenti []string `json:"riferimenti"`
}

// CircularStructure identifies an administrative circular.
type CircularStructure struct {
	Ente   string `json:"ente"`
	Numero string `json:"numero"`
	Data   string `json:"data"`
}

// requiredStructureKeys lists the structure keys that must be present for
// each document type.
var requiredStructureKeys = map[Type][]string{
	TypeStatute:   {"codice", "libro", "titolo", "capo", "articolo", "commi"},
	TypeProcedure: {"evento", "steps"},
	TypeRuling:    {"numero", "anno", "sezione", "riferimenti"},
	TypeCircular:  {"ente", "numero", "data"},
}

// ParseStructure decodes a raw structure object for the given document type,
// checking that all required keys for that type are present.
func ParseStructure(t Type, raw []byte) (Structure, error) {
	if !t.Valid() {
		return Structure{}, fmt.Errorf("unknown document type %q", t)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Structure{}, fmt.Errorf("parse structure: %w", err)
	}
	var missing []string
	for _, key := range requiredStructureKeys[t] {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Structure{}, fmt.Errorf("structure for type %q missing fields: %s", t, strings.Join(missing, ", "))
	}

	var s Structure
	var err error
	switch t {
	case TypeStatute:
		s.Statute = &StatuteStructure{}
		err = json.Unmarshal(raw, s.Statute)
	case TypeProcedure:
		s.Procedure = &ProcedureStructure{}
		err = json.Unmarshal(raw, s.Procedure)
	case TypeRuling:
		s.Ruling = &RulingStructure{}
		err = json.Unmarshal(raw, s.Ruling)
	case TypeCircular:
		s.Circular = &CircularStructure{}
		err = json.Unmarshal(raw, s.Circular)
	}
	if err != nil {
		return Structure{}, fmt.Errorf("parse structure for type %q: %w", t, err)
	}

	if rawDate, ok := fields["data_vigore"]; ok {
		if err := json.Unmarshal(rawDate, &s.DataVigore); err != nil {
			return Structure{}, fmt.Errorf("parse data_vigore: %w", err)
		}
	}
	return s, nil
}

// MarshalJSON serializes the active variant, including data_vigore when set.
func (s Structure) MarshalJSON() ([]byte, error) {
	var variant any
	switch {
	case s.Statute != nil:
		variant = s.Statute
	case s.Procedure != nil:
		variant = s.Procedure
	case s.Ruling != nil:
		variant = s.Ruling
	case s.Circular != nil:
		variant = s.Circular
	default:
		variant = struct{}{}
	}
	b, err := json.Marshal(variant)
	if err != nil {
		return nil, err
	}
	if s.DataVigore == "" {
		return b, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	m["data_vigore"] = s.DataVigore
	return json.Marshal(m)
}

// UnmarshalJSON decodes a document and its structure variant based on the
// declared type, validating id shape and required structure fields.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string          `json:"id"`
		Type      Type            `json:"type"`
		Text      string          `json:"text"`
		Context   string          `json:"context"`
		Structure json.RawMessage `json:"structure"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Structure == nil {
		return fmt.Errorf("document %q: missing structure", raw.ID)
	}
	s, err := ParseStructure(raw.Type, raw.Structure)
	if err != nil {
		return fmt.Errorf("document %q: %w", raw.ID, err)
	}
	d.ID = raw.ID
	d.Type = raw.Type
	d.Text = raw.Text
	d.Context = raw.Context
	d.Structure = s
	return d.Validate()
}

// Validate checks the document-local invariants: non-empty id with a
// recognized prefix code, a known type, and a structure variant matching the
// type. Cross-document invariants (reference resolution) are checked at
// catalog build time.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document id is empty")
	}
	prefix, _, found := strings.Cut(d.ID, "-")
	if !found {
		return fmt.Errorf("document %q: id has no prefix separator", d.ID)
	}
	if _, ok := IDPrefixes[prefix]; !ok {
		return fmt.Errorf("document %q: unrecognized id prefix %q", d.ID, prefix)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("document %q: unknown type %q", d.ID, d.Type)
	}
	var matches bool
	switch d.Type {
	case TypeStatute:
		matches = d.Structure.Statute != nil
	case TypeProcedure:
		matches = d.Structure.Procedure != nil
	case TypeRuling:
		matches = d.Structure.Ruling != nil
	case TypeCircular:
		matches = d.Structure.Circular != nil
	}
	if !matches {
		return fmt.Errorf("document %q: structure does not match type %q", d.ID, d.Type)
	}
	return nil
}

// PrimaryContext returns the text before the first comma of the context
// field, trimmed. It is the label used for ambiguity grouping.
func (d *Document) PrimaryContext() string {
	head, _, _ := strings.Cut(d.Context, ",")
	return strings.TrimSpace(head)
}

// References returns the ids cited by a ruling, or nil for other types.
func (d *Document) References() []string {
	if d.Structure.Ruling == nil {
		return nil
	}
	return d.Structure.Ruling.Riferimenti
}

// HasEffectiveDate reports whether the structure carries a data_vigore field.
func (d *Document) HasEffectiveDate() bool {
	return d.Structure.DataVigore != ""
}

// EmbeddingText returns the representation indexed for semantic search:
// the concatenation of text and context.
func (d *Document) EmbeddingText() string {
	return d.Text + " " + d.Context
}
