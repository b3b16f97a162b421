package nlp

import (
	"reflect"
	"testing"
)

func TestRuleParser_Parse(t *testing.T) {
	p := NewRuleParser()
	tests := []struct {
		name  string
		query string
		want  ParsedQuery
	}{
		{
			"plain info question",
			"Cosa dice la legge sul risarcimento?",
			ParsedQuery{Intent: IntentInfo},
		},
		{
			"compare intent",
			"Confronta le differenze tra i due articoli",
			ParsedQuery{Intent: IntentCompare},
		},
		{
			"codice and articolo",
			"Cosa dice l'articolo 2051 del Codice Civile?",
			ParsedQuery{Intent: IntentInfo, Entities: Entities{Codice: "codice civile", Articolo: "2051"}},
		},
		{
			"tipo entity",
			"Esiste una sentenza in merito?",
			ParsedQuery{Intent: IntentInfo, Entities: Entities{Tipo: "sentenza"}},
		},
		{
			"evento entity",
			"Cosa devo fare in caso di incendio?",
			ParsedQuery{Intent: IntentInfo, Entities: Entities{Evento: "Incendio"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.query)
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.query, *got, tt.want)
			}
		})
	}
}

func TestRuleParser_ExtractLegalTerms(t *testing.T) {
	p := NewRuleParser()
	got := p.ExtractLegalTerms("La custodia del bene e il danno, ancora custodia.")
	want := []string{"custodia", "danno"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLegalTerms() = %v, want %v", got, want)
	}
}

func TestRuleParser_ExtractLegalTerms_none(t *testing.T) {
	p := NewRuleParser()
	if got := p.ExtractLegalTerms("domanda qualunque"); got != nil {
		t.Errorf("ExtractLegalTerms() = %v, want nil", got)
	}
}
