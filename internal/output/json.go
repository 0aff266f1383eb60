package output

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/aleksaelezovic/microdata/pkg/rdf"
)

// GraphJSON is the JSON rendering of one extracted graph
type GraphJSON struct {
	Graph   string       `json:"graph,omitempty"`
	Triples []TripleJSON `json:"triples"`
}

// TripleJSON represents a single triple
type TripleJSON struct {
	Subject   TermJSON `json:"subject"`
	Predicate TermJSON `json:"predicate"`
	Object    TermJSON `json:"object"`
}

// TermJSON follows the term shape of SPARQL JSON results
type TermJSON struct {
	Type     string  `json:"type"`
	Value    string  `json:"value"`
	Datatype *string `json:"datatype,omitempty"`
	XMLLang  *string `json:"xml:lang,omitempty"`
}

type jsonWriter struct {
	indent string
}

func (j jsonWriter) Write(w io.Writer, name string, triples []*rdf.Triple) error {
	graph := GraphJSON{
		Graph:   name,
		Triples: make([]TripleJSON, 0, len(triples)),
	}
	for _, t := range triples {
		graph.Triples = append(graph.Triples, TripleJSON{
			Subject:   termToJSON(t.Subject),
			Predicate: termToJSON(t.Predicate),
			Object:    termToJSON(t.Object),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", j.indent)
	enc.SetEscapeHTML(false)
	return enc.Encode(graph)
}

func termToJSON(term rdf.Term) TermJSON {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return TermJSON{Type: "uri", Value: t.IRI}

	case *rdf.BlankNode:
		return TermJSON{Type: "bnode", Value: t.ID}

	case *rdf.Literal:
		tj := TermJSON{Type: "literal", Value: t.Value}
		if t.Language != "" {
			lang := t.Language
			tj.XMLLang = &lang
		} else if t.Datatype != nil && t.Datatype.IRI != rdf.XSDString.IRI {
			datatype := t.Datatype.IRI
			tj.Datatype = &datatype
		}
		return tj

	default:
		return TermJSON{Type: "literal", Value: term.String()}
	}
}
