package rdf

import (
	"fmt"
)

// TermType represents the type of an RDF term
type TermType byte

const (
	TermTypeNamedNode TermType = iota + 1
	TermTypeBlankNode
	TermTypeLiteral
	TermTypeDefaultGraph
)

func (t TermType) String() string {
	switch t {
	case TermTypeNamedNode:
		return "iri"
	case TermTypeBlankNode:
		return "bnode"
	case TermTypeLiteral:
		return "literal"
	case TermTypeDefaultGraph:
		return "default"
	default:
		return "unknown"
	}
}

// Term represents an RDF term (IRI, blank node, or literal)
type Term interface {
	Type() TermType
	String() string
	Equals(other Term) bool
}

// NamedNode represents an IRI
type NamedNode struct {
	IRI string
}

func NewNamedNode(iri string) *NamedNode {
	return &NamedNode{IRI: iri}
}

func (n *NamedNode) Type() TermType {
	return TermTypeNamedNode
}

func (n *NamedNode) String() string {
	return fmt.Sprintf("<%s>", n.IRI)
}

func (n *NamedNode) Equals(other Term) bool {
	if on, ok := other.(*NamedNode); ok {
		return n.IRI == on.IRI
	}
	return false
}

// BlankNode represents a blank node. The ID is only meaningful within the
// graph that produced it.
type BlankNode struct {
	ID string
}

func NewBlankNode(id string) *BlankNode {
	return &BlankNode{ID: id}
}

func (b *BlankNode) Type() TermType {
	return TermTypeBlankNode
}

func (b *BlankNode) String() string {
	return fmt.Sprintf("_:%s", b.ID)
}

func (b *BlankNode) Equals(other Term) bool {
	if ob, ok := other.(*BlankNode); ok {
		return b.ID == ob.ID
	}
	return false
}

// Literal represents an RDF literal. A literal with neither Language nor
// Datatype is a plain literal.
type Literal struct {
	Value    string
	Language string     // for language-tagged strings
	Datatype *NamedNode // for typed literals
}

func NewLiteral(value string) *Literal {
	return &Literal{Value: value}
}

func NewLiteralWithLanguage(value, language string) *Literal {
	return &Literal{Value: value, Language: language}
}

func NewLiteralWithDatatype(value string, datatype *NamedNode) *Literal {
	return &Literal{Value: value, Datatype: datatype}
}

func (l *Literal) Type() TermType {
	return TermTypeLiteral
}

func (l *Literal) String() string {
	result := fmt.Sprintf(`"%s"`, escapeString(l.Value))
	if l.Language != "" {
		result += "@" + l.Language
	} else if l.Datatype != nil && l.Datatype.IRI != XSDString.IRI {
		result += "^^" + l.Datatype.String()
	}
	return result
}

// Equals treats an explicit xsd:string datatype as equal to a plain literal.
func (l *Literal) Equals(other Term) bool {
	ol, ok := other.(*Literal)
	if !ok {
		return false
	}
	if l.Value != ol.Value || l.Language != ol.Language {
		return false
	}
	return l.datatypeIRI() == ol.datatypeIRI()
}

func (l *Literal) datatypeIRI() string {
	if l.Datatype == nil || l.Datatype.IRI == XSDString.IRI {
		return ""
	}
	return l.Datatype.IRI
}

// DefaultGraph represents the default graph
type DefaultGraph struct{}

func NewDefaultGraph() *DefaultGraph {
	return &DefaultGraph{}
}

func (d *DefaultGraph) Type() TermType {
	return TermTypeDefaultGraph
}

func (d *DefaultGraph) String() string {
	return "DEFAULT"
}

func (d *DefaultGraph) Equals(other Term) bool {
	_, ok := other.(*DefaultGraph)
	return ok
}

// Triple represents an RDF triple (subject, predicate, object)
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func NewTriple(subject, predicate, object Term) *Triple {
	return &Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

func (t *Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

// Equals reports whether both triples have equal terms in every position.
func (t *Triple) Equals(other *Triple) bool {
	return t.Subject.Equals(other.Subject) &&
		t.Predicate.Equals(other.Predicate) &&
		t.Object.Equals(other.Object)
}

// Quad represents an RDF quad (subject, predicate, object, graph)
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

func NewQuad(subject, predicate, object, graph Term) *Quad {
	return &Quad{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
		Graph:     graph,
	}
}

// Triple drops the graph component.
func (q *Quad) Triple() *Triple {
	return NewTriple(q.Subject, q.Predicate, q.Object)
}

func (q *Quad) String() string {
	return fmt.Sprintf("%s %s %s %s .", q.Subject, q.Predicate, q.Object, q.Graph)
}

// Common vocabulary terms
var (
	RDFType = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")

	XSDString     = NewNamedNode("http://www.w3.org/2001/XMLSchema#string")
	XSDDateTime   = NewNamedNode("http://www.w3.org/2001/XMLSchema#dateTime")
	XSDDate       = NewNamedNode("http://www.w3.org/2001/XMLSchema#date")
	XSDTime       = NewNamedNode("http://www.w3.org/2001/XMLSchema#time")
	XSDDuration   = NewNamedNode("http://www.w3.org/2001/XMLSchema#duration")
	XSDGYear      = NewNamedNode("http://www.w3.org/2001/XMLSchema#gYear")
	XSDGYearMonth = NewNamedNode("http://www.w3.org/2001/XMLSchema#gYearMonth")
	XSDInteger    = NewNamedNode("http://www.w3.org/2001/XMLSchema#integer")
	XSDDecimal    = NewNamedNode("http://www.w3.org/2001/XMLSchema#decimal")
	XSDDouble     = NewNamedNode("http://www.w3.org/2001/XMLSchema#double")
	XSDBoolean    = NewNamedNode("http://www.w3.org/2001/XMLSchema#boolean")
)
