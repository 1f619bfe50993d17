// Package nlp provides the named-entity and lemmatisation model used during
// enrichment. The pipeline depends only on the Model interface; Gazetteer
// is the bundled implementation.
package nlp

// Entity labels produced by a Model.
const (
	LabelGPE  = "GPE"  // countries, cities, states
	LabelLOC  = "LOC"  // non-political locations
	LabelORG  = "ORG"  // organisations
	LabelDATE = "DATE" // date expressions
)

// Entity is a labelled span of the analysed text.
type Entity struct {
	Text  string
	Label string
	Start int // byte offset
	End   int
}

// Token is a single word with its lemma.
type Token struct {
	Text  string
	Lemma string
}

// Doc is the analysis of one text.
type Doc struct {
	Entities []Entity
	Tokens   []Token
}

// EntitiesOf returns the entity texts carrying one of the given labels,
// in document order.
func (d Doc) EntitiesOf(labels ...string) []string {
	var out []string
	for _, e := range d.Entities {
		for _, l := range labels {
			if e.Label == l {
				out = append(out, e.Text)
				break
			}
		}
	}
	return out
}

// Lemmas returns the lowercased lemma of every token.
func (d Doc) Lemmas() []string {
	out := make([]string, 0, len(d.Tokens))
	for _, t := range d.Tokens {
		out = append(out, t.Lemma)
	}
	return out
}

// Model analyses text into entities and lemmatised tokens.
// Implementations must be safe for concurrent use.
type Model interface {
	Analyze(text string) (Doc, error)
}
