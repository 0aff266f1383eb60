// Package output renders extracted triples in the formats the command line
// offers.
package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/aleksaelezovic/microdata/pkg/rdf"
)

// Format names a rendering of a graph
type Format string

const (
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatJSON     Format = "json"
)

// Writer renders one graph. name is the graph's base IRI and may be empty.
type Writer interface {
	Write(w io.Writer, name string, triples []*rdf.Triple) error
}

var writers = map[Format]Writer{
	FormatNTriples: ntriplesWriter{},
	FormatNQuads:   nquadsWriter{},
	FormatJSON:     jsonWriter{indent: "  "},
}

var aliases = map[string]Format{
	"nt": FormatNTriples,
	"nq": FormatNQuads,
}

// Lookup returns the writer for a format name or one of its aliases.
func Lookup(name string) (Writer, error) {
	format := Format(name)
	if alias, ok := aliases[name]; ok {
		format = alias
	}
	w, ok := writers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %q (supported: %v)", name, Formats())
	}
	return w, nil
}

// Formats lists the supported format names.
func Formats() []string {
	names := make([]string, 0, len(writers))
	for f := range writers {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

type ntriplesWriter struct{}

func (ntriplesWriter) Write(w io.Writer, _ string, triples []*rdf.Triple) error {
	_, err := io.WriteString(w, rdf.SerializeTriples(triples))
	return err
}

// nquadsWriter labels every triple with the graph name, so that several
// documents can be concatenated into one dataset. Blank node labels are
// scoped to the whole output, so each graph's labels carry a prefix derived
// from the graph name.
type nquadsWriter struct{}

func (nquadsWriter) Write(w io.Writer, name string, triples []*rdf.Triple) error {
	var graph rdf.Term = rdf.NewDefaultGraph()
	if name != "" {
		graph = rdf.NewNamedNode(name)
	}
	scope := graphScope(name)
	quads := make([]*rdf.Quad, len(triples))
	for i, t := range triples {
		quads[i] = rdf.NewQuad(scope(t.Subject), t.Predicate, scope(t.Object), graph)
	}
	_, err := io.WriteString(w, rdf.SerializeQuads(quads))
	return err
}

// graphScope returns a function relabelling blank nodes into the scope of
// one graph.
func graphScope(name string) func(rdf.Term) rdf.Term {
	prefix := fmt.Sprintf("g%016x_", xxh3.HashString(name))
	return func(term rdf.Term) rdf.Term {
		if b, ok := term.(*rdf.BlankNode); ok {
			return rdf.NewBlankNode(prefix + b.ID)
		}
		return term
	}
}
