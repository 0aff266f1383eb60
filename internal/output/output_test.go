package output

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/microdata/pkg/rdf"
)

func graph() []*rdf.Triple {
	s := rdf.NewBlankNode("b0")
	return []*rdf.Triple{
		rdf.NewTriple(s, rdf.RDFType, rdf.NewNamedNode("http://schema.org/Person")),
		rdf.NewTriple(s, rdf.NewNamedNode("http://schema.org/name"), rdf.NewLiteralWithLanguage("Ada <3", "en")),
		rdf.NewTriple(s, rdf.NewNamedNode("http://schema.org/birthDate"), rdf.NewLiteralWithDatatype("1815-12-10", rdf.XSDDate)),
		rdf.NewTriple(s, rdf.NewNamedNode("http://schema.org/url"), rdf.NewLiteral("")),
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"ntriples", "nt", "nquads", "nq", "json"} {
		_, err := Lookup(name)
		assert.NoError(t, err, name)
	}
	_, err := Lookup("turtle")
	assert.ErrorContains(t, err, "unsupported output format")
	assert.Equal(t, []string{"json", "nquads", "ntriples"}, Formats())
}

func TestNTriplesWriter(t *testing.T) {
	w, err := Lookup("nt")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, "http://example.com/", graph()))

	parsed, err := rdf.ParseNTriples(buf.String())
	require.NoError(t, err)
	assert.True(t, rdf.AreGraphsIsomorphic(graph(), parsed))
}

func TestNQuadsWriter(t *testing.T) {
	w, err := Lookup("nq")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, "http://example.com/doc.html", graph()[:2]))

	quads := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, quads, 2)
	for _, q := range quads {
		assert.True(t, strings.HasPrefix(q, "_:g"), q)
		assert.True(t, strings.HasSuffix(q, " <http://example.com/doc.html> ."), q)
	}
	assert.Contains(t, quads[0], " <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://schema.org/Person> ")

	subject := strings.Fields(quads[0])[0]
	assert.Equal(t, subject, strings.Fields(quads[1])[0], "one graph keeps one label per blank node")

	buf.Reset()
	require.NoError(t, w.Write(&buf, "", graph()[:1]))
	assert.True(t, strings.HasSuffix(buf.String(), " <http://schema.org/Person> .\n"), buf.String())
}

func TestNQuadsWriter_SeparatesGraphs(t *testing.T) {
	w, err := Lookup("nquads")
	require.NoError(t, err)

	name := rdf.NewNamedNode("http://schema.org/name")
	first := []*rdf.Triple{rdf.NewTriple(rdf.NewBlankNode("b0"), name, rdf.NewLiteral("A"))}
	second := []*rdf.Triple{rdf.NewTriple(rdf.NewBlankNode("b0"), name, rdf.NewLiteral("B"))}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, "http://example.org/a", first))
	require.NoError(t, w.Write(&buf, "http://example.org/b", second))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"A" <http://example.org/a> .`)
	assert.Contains(t, lines[1], `"B" <http://example.org/b> .`)
	assert.NotEqual(t, strings.Fields(lines[0])[0], strings.Fields(lines[1])[0])

	// The rewritten labels still parse as blank nodes.
	for _, line := range lines {
		triples, err := rdf.ParseNTriples(strings.Join(strings.Fields(line)[:3], " ") + " .")
		require.NoError(t, err)
		assert.Equal(t, rdf.TermTypeBlankNode, triples[0].Subject.Type())
	}
}

func TestJSONWriter(t *testing.T) {
	w, err := Lookup("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, "http://example.com/doc.html", graph()))
	assert.Contains(t, buf.String(), "Ada <3")

	var decoded GraphJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "http://example.com/doc.html", decoded.Graph)
	require.Len(t, decoded.Triples, 4)

	assert.Equal(t, TermJSON{Type: "bnode", Value: "b0"}, decoded.Triples[0].Subject)
	assert.Equal(t, TermJSON{Type: "uri", Value: "http://schema.org/Person"}, decoded.Triples[0].Object)

	name := decoded.Triples[1].Object
	require.NotNil(t, name.XMLLang)
	assert.Equal(t, "en", *name.XMLLang)
	assert.Nil(t, name.Datatype)

	date := decoded.Triples[2].Object
	require.NotNil(t, date.Datatype)
	assert.Equal(t, rdf.XSDDate.IRI, *date.Datatype)

	empty := decoded.Triples[3].Object
	assert.Equal(t, "", empty.Value)
	assert.Nil(t, empty.Datatype)
}

func TestJSONWriter_EmptyGraph(t *testing.T) {
	w, err := Lookup("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, "", nil))
	assert.JSONEq(t, `{"triples": []}`, buf.String())
}
