package microdata

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/microdata/pkg/htmldoc"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
	"golang.org/x/net/html"
)

// itemRegistry holds the per-run item state: the element to subject memo and
// the set of items currently being expanded. A registry belongs to exactly
// one run and is never shared.
type itemRegistry struct {
	doc        *htmldoc.Document
	identities map[*html.Node]rdf.Term
	inProgress map[*html.Node]bool
	nextBlank  int
}

func newItemRegistry(doc *htmldoc.Document) *itemRegistry {
	return &itemRegistry{
		doc:        doc,
		identities: make(map[*html.Node]rdf.Term),
		inProgress: make(map[*html.Node]bool),
	}
}

// identityFor returns the subject for an item element, assigning it on first
// use: the itemid resolved against the base, or a fresh blank node.
func (r *itemRegistry) identityFor(el *html.Node) (rdf.Term, error) {
	if id, ok := r.identities[el]; ok {
		return id, nil
	}

	var subject rdf.Term
	if itemid, ok := htmldoc.Attr(el, "itemid"); ok && strings.TrimSpace(itemid) != "" {
		iri, err := r.doc.Resolve(itemid)
		if err != nil {
			return nil, fmt.Errorf("error resolving itemid: %w", err)
		}
		subject = rdf.NewNamedNode(iri)
	} else {
		subject = rdf.NewBlankNode(fmt.Sprintf("b%d", r.nextBlank))
		r.nextBlank++
	}

	r.identities[el] = subject
	return subject, nil
}

// enter marks el as being expanded. It returns false when el is already on
// the current expansion path.
func (r *itemRegistry) enter(el *html.Node) bool {
	if r.inProgress[el] {
		return false
	}
	r.inProgress[el] = true
	return true
}

func (r *itemRegistry) leave(el *html.Node) {
	delete(r.inProgress, el)
}
