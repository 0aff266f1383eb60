package microdata

import (
	"regexp"
	"strings"

	"github.com/aleksaelezovic/microdata/pkg/htmldoc"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
	"golang.org/x/net/html"
)

// valueKind is the closed set of property value rules. Elements not listed
// in valueKinds use valueText.
type valueKind int

const (
	valueText valueKind = iota
	valueMeta
	valueMediaSource
	valueLink
	valueObject
	valueData
	valueTime
)

var valueKinds = map[string]valueKind{
	"meta":   valueMeta,
	"audio":  valueMediaSource,
	"embed":  valueMediaSource,
	"iframe": valueMediaSource,
	"img":    valueMediaSource,
	"source": valueMediaSource,
	"track":  valueMediaSource,
	"video":  valueMediaSource,
	"a":      valueLink,
	"area":   valueLink,
	"link":   valueLink,
	"object": valueObject,
	"data":   valueData,
	"meter":  valueData,
	"time":   valueTime,
}

func kindOf(el *html.Node) valueKind {
	if kind, ok := valueKinds[htmldoc.Tag(el)]; ok {
		return kind
	}
	return valueText
}

// Checked in order; the first match picks the datatype. Only XML Schema
// lexical forms are typed, so HTML-only spellings such as a space between
// date and time or a week duration stay plain literals.
var temporalPatterns = []struct {
	pattern  *regexp.Regexp
	datatype *rdf.NamedNode
}{
	{regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`), rdf.XSDDate},
	{regexp.MustCompile(`^\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:\d{2})?$`), rdf.XSDTime},
	{regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:\d{2})?$`), rdf.XSDDateTime},
	{regexp.MustCompile(`^-?P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`), rdf.XSDDuration},
	{regexp.MustCompile(`^-?\d{4,}-\d{2}$`), rdf.XSDGYearMonth},
	{regexp.MustCompile(`^-?\d{4,}$`), rdf.XSDGYear},
}

// extractValue computes the value of a property element that is not itself
// an item.
func extractValue(doc *htmldoc.Document, el *html.Node) (rdf.Term, error) {
	switch kindOf(el) {
	case valueMeta:
		content, _ := htmldoc.Attr(el, "content")
		return rdf.NewLiteral(content), nil
	case valueMediaSource:
		return urlValue(doc, el, "src")
	case valueLink:
		return urlValue(doc, el, "href")
	case valueObject:
		return urlValue(doc, el, "data")
	case valueData:
		if v, ok := htmldoc.Attr(el, "value"); ok {
			return rdf.NewLiteral(v), nil
		}
		return rdf.NewLiteral(strings.TrimSpace(htmldoc.Text(el))), nil
	case valueTime:
		return temporalValue(el), nil
	default:
		text := strings.TrimSpace(htmldoc.Text(el))
		if lang := htmldoc.Lang(el); lang != "" {
			return rdf.NewLiteralWithLanguage(text, lang), nil
		}
		return rdf.NewLiteral(text), nil
	}
}

// urlValue resolves a URL attribute. A missing attribute yields the empty
// literal.
func urlValue(doc *htmldoc.Document, el *html.Node, attr string) (rdf.Term, error) {
	ref, ok := htmldoc.Attr(el, attr)
	if !ok {
		return rdf.NewLiteral(""), nil
	}
	iri, err := doc.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return rdf.NewNamedNode(iri), nil
}

func temporalValue(el *html.Node) rdf.Term {
	value, ok := htmldoc.Attr(el, "datetime")
	if !ok {
		value = htmldoc.Text(el)
	}
	value = strings.TrimSpace(value)

	for _, p := range temporalPatterns {
		if p.pattern.MatchString(value) {
			if p.datatype == rdf.XSDDuration && (value == "P" || value == "-P" || strings.HasSuffix(value, "T")) {
				continue
			}
			return rdf.NewLiteralWithDatatype(value, p.datatype)
		}
	}
	return rdf.NewLiteral(value)
}
