package microdata

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aleksaelezovic/microdata/pkg/htmldoc"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
	"golang.org/x/net/html"
)

// errStopped unwinds the walk when the consumer stops early. It never
// escapes the walker.
var errStopped = errors.New("consumer stopped")

// walker performs one extraction run over a document.
type walker struct {
	doc          *htmldoc.Document
	vocabularies *VocabularyRegistry
	items        *itemRegistry
	logger       *slog.Logger
	emit         func(*rdf.Triple) bool
}

func newWalker(doc *htmldoc.Document, vocabularies *VocabularyRegistry, logger *slog.Logger, emit func(*rdf.Triple) bool) *walker {
	return &walker{
		doc:          doc,
		vocabularies: vocabularies,
		items:        newItemRegistry(doc),
		logger:       logger,
		emit:         emit,
	}
}

// run extracts every top-level item in document order.
func (w *walker) run() error {
	var roots []*html.Node
	w.doc.Walk(func(n *html.Node) bool {
		if htmldoc.HasAttr(n, "itemscope") && !htmldoc.HasAttr(n, "itemprop") {
			roots = append(roots, n)
		}
		return true
	})

	for _, root := range roots {
		if _, _, err := w.processItem(root, vocabContext{}); err != nil {
			if errors.Is(err, errStopped) {
				return nil
			}
			return err
		}
	}
	return nil
}

// processItem emits the triples of the item rooted at el and returns its
// subject. ok is false when el is already being expanded higher up.
func (w *walker) processItem(el *html.Node, inherited vocabContext) (subject rdf.Term, ok bool, err error) {
	if !w.items.enter(el) {
		w.logger.Debug("skipping cyclic item reference", "element", describe(el))
		return nil, false, nil
	}
	defer w.items.leave(el)

	subject, err = w.items.identityFor(el)
	if err != nil {
		return nil, false, err
	}

	vocab := inherited
	for i, token := range htmldoc.Tokens(el, "itemtype") {
		typeIRI, err := w.doc.Resolve(token)
		if err != nil {
			return nil, false, fmt.Errorf("error resolving itemtype: %w", err)
		}
		if err := w.send(subject, rdf.RDFType, rdf.NewNamedNode(typeIRI)); err != nil {
			return nil, false, err
		}
		if i == 0 {
			vocab = w.vocabularies.contextFor(typeIRI)
		}
	}

	for _, prop := range w.collectProperties(el) {
		value, ok, err := w.propertyValue(prop, vocab)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}

		for _, name := range htmldoc.Tokens(prop, "itemprop") {
			predicates := w.vocabularies.resolve(name, vocab)
			if len(predicates) == 0 {
				w.logger.Debug("skipping property without vocabulary", "itemprop", name)
				continue
			}
			for _, predicate := range predicates {
				if err := w.send(subject, predicate, value); err != nil {
					return nil, false, err
				}
			}
		}
	}

	return subject, true, nil
}

// propertyValue returns the object for a property element. Nested items are
// expanded first; ok is false for a cyclic back-edge.
func (w *walker) propertyValue(prop *html.Node, vocab vocabContext) (rdf.Term, bool, error) {
	if htmldoc.HasAttr(prop, "itemscope") {
		return w.processItem(prop, vocab)
	}
	value, err := extractValue(w.doc, prop)
	if err != nil {
		return nil, false, fmt.Errorf("error extracting value of %s: %w", describe(prop), err)
	}
	return value, true, nil
}

// collectProperties returns the property elements of the item rooted at
// root: its own subtree first, in document order, then each itemref target
// in token order. Nested items are listed but not descended into.
func (w *walker) collectProperties(root *html.Node) []*html.Node {
	visited := map[*html.Node]bool{root: true}
	var props []*html.Node

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		if htmldoc.HasAttr(n, "itemprop") {
			props = append(props, n)
		}
		if htmldoc.HasAttr(n, "itemscope") {
			return
		}
		for _, c := range htmldoc.Children(n) {
			visit(c)
		}
	}

	for _, c := range htmldoc.Children(root) {
		visit(c)
	}

	for _, id := range htmldoc.Tokens(root, "itemref") {
		ref, ok := w.doc.ElementByID(id)
		if !ok {
			w.logger.Debug("skipping unknown itemref", "id", id)
			continue
		}
		if visited[ref] {
			w.logger.Debug("skipping itemref already visited", "id", id)
			continue
		}
		visit(ref)
	}

	return props
}

func (w *walker) send(subject rdf.Term, predicate *rdf.NamedNode, object rdf.Term) error {
	if !w.emit(rdf.NewTriple(subject, predicate, object)) {
		return errStopped
	}
	return nil
}

func describe(n *html.Node) string {
	if id, ok := htmldoc.Attr(n, "id"); ok {
		return fmt.Sprintf("<%s id=%q>", n.Data, id)
	}
	return fmt.Sprintf("<%s>", n.Data)
}
