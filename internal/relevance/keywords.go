package relevance

// ContextKeywords associates a legal context name with the fixed keyword set
// used for heuristic relevance matching. Keywords ending in "-" are id prefix
// codes and match query tokens by prefix; the rest match as whole tokens.
type ContextKeywords struct {
	Name     string
	Keywords []string
}

// ContextTable is the hand-maintained context-to-keywords mapping. It is
// deliberately a literal list, not a learned model; order is fixed so
// filtering is deterministic.
var ContextTable = []ContextKeywords{
	{Name: "civile", Keywords: []string{"CC-", "civile", "contratto", "risarcimento", "danno"}},
	{Name: "penale", Keywords: []string{"CP-", "penale", "reato", "pena"}},
	{Name: "procedura", Keywords: []string{"Proc-", "procedura", "processo"}},
	{Name: "giurisprudenza", Keywords: []string{"Cass-", "sentenza", "cassazione"}},
}

// CodePrefixes maps spoken code names to their id prefix, for explicit
// narrowing when a query names a code outright.
var CodePrefixes = map[string]string{
	"codice civile": "CC-",
	"codice penale": "CP-",
}
