// Package microdata extracts RDF triples from HTML annotated with Microdata
// (itemscope, itemtype, itemid, itemprop, itemref).
//
// Every run walks the document once, synchronously and depth first, with its
// own item state, so one Parser can serve concurrent runs. The same walk is
// exposed in several delivery styles:
//   - Process: a handler per triple, an optional filter and a done callback.
//   - Parse and ParseCallback: the full triple set.
//   - ParseAsync: a Future that completes when the walk finishes.
//   - Stream: a channel of events, one per triple, then end or error.
//   - All: a Go iterator.
//
// Example:
//
//	triples, err := microdata.Parse(markup, "http://example.org/")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Print(rdf.SerializeTriples(triples))
package microdata

import (
	"iter"
	"log/slog"

	"github.com/aleksaelezovic/microdata/pkg/htmldoc"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
)

// Filter decides whether a triple is delivered. Rejected triples are dropped
// without stopping the walk.
type Filter func(triple *rdf.Triple) bool

// Parser extracts triples from Microdata documents.
type Parser struct {
	vocabularies *VocabularyRegistry
	filter       Filter
	logger       *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithVocabularies replaces the built-in vocabulary registry.
func WithVocabularies(r *VocabularyRegistry) Option {
	return func(p *Parser) {
		p.vocabularies = r
	}
}

// WithFilter sets a filter applied to every run of the parser.
func WithFilter(f Filter) Option {
	return func(p *Parser) {
		p.filter = f
	}
}

// WithLogger sets the logger used for debug output about skipped properties,
// references and cycles.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = l
	}
}

// NewParser creates a parser using the built-in vocabulary registry.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		vocabularies: DefaultVocabularies(),
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Triples returns the triples of an already parsed document. Each iteration
// starts a fresh run; the sequence yields a non-nil error at most once, last.
func (p *Parser) Triples(doc *htmldoc.Document) iter.Seq2[*rdf.Triple, error] {
	return func(yield func(*rdf.Triple, error) bool) {
		stopped := false
		err := p.walk(doc, nil, func(t *rdf.Triple) bool {
			if !yield(t, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}

// All parses markup and returns its triples as an iterator. A parse error
// is yielded as the only element.
func (p *Parser) All(markup, base string) iter.Seq2[*rdf.Triple, error] {
	return func(yield func(*rdf.Triple, error) bool) {
		doc, err := htmldoc.Parse(markup, base)
		if err != nil {
			yield(nil, err)
			return
		}
		for t, err := range p.Triples(doc) {
			if !yield(t, err) {
				return
			}
		}
	}
}

// Process parses markup and calls handler for every triple accepted by both
// the parser filter and filter. done is called once after a successful run.
// handler, filter and done may be nil.
func (p *Parser) Process(markup, base string, handler func(*rdf.Triple), filter Filter, done func()) error {
	doc, err := htmldoc.Parse(markup, base)
	if err != nil {
		return err
	}

	err = p.walk(doc, filter, func(t *rdf.Triple) bool {
		if handler != nil {
			handler(t)
		}
		return true
	})
	if err != nil {
		return err
	}

	if done != nil {
		done()
	}
	return nil
}

// Parse parses markup and returns all extracted triples.
func (p *Parser) Parse(markup, base string) ([]*rdf.Triple, error) {
	var triples []*rdf.Triple
	err := p.Process(markup, base, func(t *rdf.Triple) {
		triples = append(triples, t)
	}, nil, nil)
	if err != nil {
		return nil, err
	}
	return triples, nil
}

// ParseCallback runs Parse and reports the outcome through an error-first
// callback.
func (p *Parser) ParseCallback(markup, base string, callback func(err error, triples []*rdf.Triple)) {
	triples, err := p.Parse(markup, base)
	callback(err, triples)
}

// walk runs one extraction, delivering triples that pass the parser filter
// and the run filter to deliver.
func (p *Parser) walk(doc *htmldoc.Document, filter Filter, deliver func(*rdf.Triple) bool) error {
	emit := func(t *rdf.Triple) bool {
		if p.filter != nil && !p.filter(t) {
			return true
		}
		if filter != nil && !filter(t) {
			return true
		}
		return deliver(t)
	}
	return newWalker(doc, p.vocabularies, p.logger, emit).run()
}

var defaultParser = NewParser()

// Process runs Parser.Process with the default parser.
func Process(markup, base string, handler func(*rdf.Triple), filter Filter, done func()) error {
	return defaultParser.Process(markup, base, handler, filter, done)
}

// Parse runs Parser.Parse with the default parser.
func Parse(markup, base string) ([]*rdf.Triple, error) {
	return defaultParser.Parse(markup, base)
}

// ParseCallback runs Parser.ParseCallback with the default parser.
func ParseCallback(markup, base string, callback func(err error, triples []*rdf.Triple)) {
	defaultParser.ParseCallback(markup, base, callback)
}

// ParseAsync runs Parser.ParseAsync with the default parser.
func ParseAsync(markup, base string) *Future {
	return defaultParser.ParseAsync(markup, base)
}

// Stream runs Parser.Stream with the default parser.
func Stream(markup, base string) <-chan Event {
	return defaultParser.Stream(markup, base)
}

// All runs Parser.All with the default parser.
func All(markup, base string) iter.Seq2[*rdf.Triple, error] {
	return defaultParser.All(markup, base)
}
