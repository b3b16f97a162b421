// Package generator produces the final Italian answer from a query and the
// assembled document context. The prompt pins the model to the supplied data
// and to a fixed fallback sentence when the data cannot answer the question.
package generator

import (
	"context"
	"fmt"
)

// InsufficientDataAnswer is the exact sentence the model is instructed to
// return when the assembled context does not cover the question.
const InsufficientDataAnswer = "Dati insufficienti per rispondere alla query."

// Generator turns a query and its grounding context into an answer.
type Generator interface {
	Generate(ctx context.Context, query, docContext string) (string, error)
}

// BuildPrompt renders the fixed prompt contract. Every generator backend
// sends exactly this text so answers stay comparable across providers.
func BuildPrompt(query, docContext string) string {
	return fmt.Sprintf(
		"Query: %s\nDati: %s\nRispondi in italiano usando SOLO i dati forniti, "+
			"senza aggiungere informazioni o interpretazioni non presenti. "+
			"Se i dati sono insufficienti, rispondi: '%s'",
		query, docContext, InsufficientDataAnswer)
}
