package microdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/aleksaelezovic/microdata/pkg/htmldoc"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
)

// firstProperty parses markup and returns the first element carrying itemprop.
func firstProperty(t *testing.T, markup string) (*htmldoc.Document, *html.Node) {
	t.Helper()
	doc, err := htmldoc.Parse(markup, "http://example.org/base/page.html")
	require.NoError(t, err)

	var found *html.Node
	doc.Walk(func(n *html.Node) bool {
		if found == nil && htmldoc.HasAttr(n, "itemprop") {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "no itemprop element in %s", markup)
	return doc, found
}

func TestExtractValue(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   rdf.Term
	}{
		{"meta content", `<meta itemprop="p" content="c">`, rdf.NewLiteral("c")},
		{"meta without content", `<meta itemprop="p">`, rdf.NewLiteral("")},
		{"img src", `<img itemprop="p" src="a.png">`, rdf.NewNamedNode("http://example.org/base/a.png")},
		{"iframe src", `<iframe itemprop="p" src="//cdn.example.net/f"></iframe>`, rdf.NewNamedNode("http://cdn.example.net/f")},
		{"video src", `<video itemprop="p" src="../v.mp4"></video>`, rdf.NewNamedNode("http://example.org/v.mp4")},
		{"a href", `<a itemprop="p" href="?q=1">x</a>`, rdf.NewNamedNode("http://example.org/base/page.html?q=1")},
		{"area href", `<map><area itemprop="p" href="#frag"></map>`, rdf.NewNamedNode("http://example.org/base/page.html#frag")},
		{"link without href", `<link itemprop="p">`, rdf.NewLiteral("")},
		{"object data", `<object itemprop="p" data="/movie"></object>`, rdf.NewNamedNode("http://example.org/movie")},
		{"data value", `<data itemprop="p" value="42">forty-two</data>`, rdf.NewLiteral("42")},
		{"data text", `<data itemprop="p"> forty-two </data>`, rdf.NewLiteral("forty-two")},
		{"meter value", `<meter itemprop="p" value="0.5">half</meter>`, rdf.NewLiteral("0.5")},
		{"default text", `<div itemprop="p"> Hello <b>World</b> </div>`, rdf.NewLiteral("Hello World")},
		{"default text with language", `<div lang="de"><span itemprop="p">Hallo</span></div>`, rdf.NewLiteralWithLanguage("Hallo", "de")},
		{"own language wins", `<div lang="de"><span itemprop="p" lang="en-GB">Hello</span></div>`, rdf.NewLiteralWithLanguage("Hello", "en-GB")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, el := firstProperty(t, tt.markup)
			got, err := extractValue(doc, el)
			require.NoError(t, err)
			assert.True(t, tt.want.Equals(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestExtractValue_Time(t *testing.T) {
	tests := []struct {
		value    string
		datatype *rdf.NamedNode
	}{
		{"2011-01-25", rdf.XSDDate},
		{"2011-01-25+01:00", rdf.XSDDate},
		{"00:00", rdf.XSDTime},
		{"12:30:15.5Z", rdf.XSDTime},
		{"2011-01-25T00:00:00Z", rdf.XSDDateTime},
		{"2011-01-25T10:00-05:00", rdf.XSDDateTime},
		{"2011-01-25 10:00-05:00", nil},
		{"2012-03-18 14:00", nil},
		{"P1D", rdf.XSDDuration},
		{"PT1H30M", rdf.XSDDuration},
		{"-P1Y2M", rdf.XSDDuration},
		{"2011-01", rdf.XSDGYearMonth},
		{"2011", rdf.XSDGYear},
		{"P1W", nil},
		{"P2W3D", nil},
		{"14:00+0100", nil},
		{"P", nil},
		{"PT", nil},
		{"next tuesday", nil},
		{"25/01/2011", nil},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			doc, el := firstProperty(t, `<time itemprop="p" datetime="`+tt.value+`">text</time>`)
			got, err := extractValue(doc, el)
			require.NoError(t, err)

			lit, ok := got.(*rdf.Literal)
			require.True(t, ok)
			assert.Equal(t, tt.value, lit.Value)
			if tt.datatype == nil {
				assert.Nil(t, lit.Datatype)
			} else {
				require.NotNil(t, lit.Datatype)
				assert.Equal(t, tt.datatype.IRI, lit.Datatype.IRI)
			}
		})
	}
}

func TestExtractValue_TimeTextContent(t *testing.T) {
	doc, el := firstProperty(t, `<p lang="en"><time itemprop="p"> 2011-01-25 </time></p>`)
	got, err := extractValue(doc, el)
	require.NoError(t, err)
	assert.True(t, rdf.NewLiteralWithDatatype("2011-01-25", rdf.XSDDate).Equals(got), "got %s", got)
}

func TestKindOf(t *testing.T) {
	doc, err := htmldoc.Parse(`<span id="s"></span><time id="t"></time><source id="src">`, "")
	require.NoError(t, err)

	span, _ := doc.ElementByID("s")
	tm, _ := doc.ElementByID("t")
	src, _ := doc.ElementByID("src")

	assert.Equal(t, valueText, kindOf(span))
	assert.Equal(t, valueTime, kindOf(tm))
	assert.Equal(t, valueMediaSource, kindOf(src))
}
