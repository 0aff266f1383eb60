package rdf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SerializeTriples serializes triples to canonical N-Triples.
// Input order is preserved.
func SerializeTriples(triples []*Triple) string {
	var builder strings.Builder
	for _, triple := range triples {
		builder.WriteString(FormatTriple(triple))
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatTriple renders a single triple as one N-Triples line without the
// trailing newline.
func FormatTriple(triple *Triple) string {
	return formatTerm(triple.Subject) + " " +
		formatTerm(triple.Predicate) + " " +
		formatTerm(triple.Object) + " ."
}

// SerializeQuads serializes quads to N-Quads. Quads in the default graph are
// written without a graph label.
func SerializeQuads(quads []*Quad) string {
	var builder strings.Builder
	for _, quad := range quads {
		builder.WriteString(formatTerm(quad.Subject))
		builder.WriteString(" ")
		builder.WriteString(formatTerm(quad.Predicate))
		builder.WriteString(" ")
		builder.WriteString(formatTerm(quad.Object))
		if quad.Graph != nil && quad.Graph.Type() != TermTypeDefaultGraph {
			builder.WriteString(" ")
			builder.WriteString(formatTerm(quad.Graph))
		}
		builder.WriteString(" .\n")
	}
	return builder.String()
}

func formatTerm(term Term) string {
	switch t := term.(type) {
	case *NamedNode:
		return "<" + t.IRI + ">"
	case *BlankNode:
		return "_:" + t.ID
	case *Literal:
		return t.String()
	default:
		return ""
	}
}

// escapeString escapes a literal value per the canonical N-Triples rules:
// named escapes for \t \b \n \r \f \" \\ and \uXXXX for other control characters.
func escapeString(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\t':
			builder.WriteString(`\t`)
		case '\b':
			builder.WriteString(`\b`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\f':
			builder.WriteString(`\f`)
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7F || r == 0xFFFE || r == 0xFFFF {
				builder.WriteString(fmt.Sprintf(`\u%04X`, r))
			} else {
				builder.WriteRune(r)
			}
		}
	}

	return builder.String()
}

// NTriplesParser parses N-Triples documents. Comments and blank lines are
// skipped; each statement must end with '.'.
type NTriplesParser struct {
	input  string
	pos    int
	length int
	line   int
}

// NewNTriplesParser creates a new N-Triples parser
func NewNTriplesParser(input string) *NTriplesParser {
	return &NTriplesParser{
		input:  input,
		length: len(input),
		line:   1,
	}
}

// ParseNTriples is shorthand for NewNTriplesParser(input).Parse().
func ParseNTriples(input string) ([]*Triple, error) {
	return NewNTriplesParser(input).Parse()
}

// Parse parses the document and returns its triples in source order
func (p *NTriplesParser) Parse() ([]*Triple, error) {
	var triples []*Triple

	for {
		p.skipWhitespaceAndComments()
		if p.pos >= p.length {
			break
		}

		triple, err := p.parseTriple()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
		triples = append(triples, triple)
	}

	return triples, nil
}

func (p *NTriplesParser) skipWhitespaceAndComments() {
	for p.pos < p.length {
		ch := p.input[p.pos]
		switch {
		case ch == '\n':
			p.line++
			p.pos++
		case ch == ' ' || ch == '\t' || ch == '\r':
			p.pos++
		case ch == '#':
			for p.pos < p.length && p.input[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *NTriplesParser) parseTriple() (*Triple, error) {
	subject, err := p.parseTerm()
	if err != nil {
		return nil, fmt.Errorf("error parsing subject: %w", err)
	}
	if _, ok := subject.(*Literal); ok {
		return nil, fmt.Errorf("literal not allowed as subject")
	}

	p.skipWhitespaceAndComments()
	predicate, err := p.parseTerm()
	if err != nil {
		return nil, fmt.Errorf("error parsing predicate: %w", err)
	}
	if _, ok := predicate.(*NamedNode); !ok {
		return nil, fmt.Errorf("predicate must be an IRI")
	}

	p.skipWhitespaceAndComments()
	object, err := p.parseTerm()
	if err != nil {
		return nil, fmt.Errorf("error parsing object: %w", err)
	}

	p.skipWhitespaceAndComments()
	if p.pos >= p.length || p.input[p.pos] != '.' {
		return nil, fmt.Errorf("expected '.' at end of triple")
	}
	p.pos++

	return NewTriple(subject, predicate, object), nil
}

func (p *NTriplesParser) parseTerm() (Term, error) {
	if p.pos >= p.length {
		return nil, fmt.Errorf("unexpected end of input")
	}

	switch p.input[p.pos] {
	case '<':
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		return NewNamedNode(iri), nil
	case '_':
		return p.parseBlankNode()
	case '"':
		return p.parseLiteral()
	default:
		return nil, fmt.Errorf("unexpected character %q", p.input[p.pos])
	}
}

func (p *NTriplesParser) parseIRI() (string, error) {
	p.pos++ // skip '<'
	var builder strings.Builder
	for p.pos < p.length {
		ch := p.input[p.pos]
		switch ch {
		case '>':
			p.pos++
			return builder.String(), nil
		case '\\':
			r, err := p.parseEscape()
			if err != nil {
				return "", err
			}
			builder.WriteRune(r)
		case ' ', '\n', '\t':
			return "", fmt.Errorf("whitespace in IRI")
		default:
			builder.WriteByte(ch)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated IRI")
}

func (p *NTriplesParser) parseBlankNode() (Term, error) {
	if p.pos+1 >= p.length || p.input[p.pos+1] != ':' {
		return nil, fmt.Errorf("expected '_:' for blank node")
	}
	p.pos += 2
	start := p.pos
	for p.pos < p.length {
		ch := p.input[p.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '<' || ch == '"' {
			break
		}
		p.pos++
	}
	id := strings.TrimSuffix(p.input[start:p.pos], ".")
	p.pos = start + len(id)
	if id == "" {
		return nil, fmt.Errorf("empty blank node label")
	}
	return NewBlankNode(id), nil
}

func (p *NTriplesParser) parseLiteral() (Term, error) {
	p.pos++ // skip '"'
	var builder strings.Builder
	closed := false
	for p.pos < p.length && !closed {
		ch := p.input[p.pos]
		switch ch {
		case '"':
			p.pos++
			closed = true
		case '\\':
			r, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			builder.WriteRune(r)
		case '\n':
			return nil, fmt.Errorf("newline in literal")
		default:
			builder.WriteByte(ch)
			p.pos++
		}
	}
	if !closed {
		return nil, fmt.Errorf("unterminated literal")
	}

	value := builder.String()
	if !utf8.ValidString(value) {
		return nil, fmt.Errorf("invalid UTF-8 in literal")
	}

	if p.pos < p.length && p.input[p.pos] == '@' {
		p.pos++
		start := p.pos
		for p.pos < p.length {
			ch := p.input[p.pos]
			if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' {
				p.pos++
				continue
			}
			break
		}
		if p.pos == start {
			return nil, fmt.Errorf("empty language tag")
		}
		return NewLiteralWithLanguage(value, p.input[start:p.pos]), nil
	}

	if p.pos+1 < p.length && p.input[p.pos] == '^' && p.input[p.pos+1] == '^' {
		p.pos += 2
		if p.pos >= p.length || p.input[p.pos] != '<' {
			return nil, fmt.Errorf("expected datatype IRI")
		}
		datatype, err := p.parseIRI()
		if err != nil {
			return nil, fmt.Errorf("error parsing datatype: %w", err)
		}
		return NewLiteralWithDatatype(value, NewNamedNode(datatype)), nil
	}

	return NewLiteral(value), nil
}

// parseEscape decodes the escape sequence at p.pos (which points at '\').
func (p *NTriplesParser) parseEscape() (rune, error) {
	if p.pos+1 >= p.length {
		return 0, fmt.Errorf("incomplete escape sequence")
	}
	ch := p.input[p.pos+1]
	p.pos += 2

	switch ch {
	case 't':
		return '\t', nil
	case 'b':
		return '\b', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '\\':
		return '\\', nil
	case 'u':
		return p.parseHexRune(4)
	case 'U':
		return p.parseHexRune(8)
	default:
		return 0, fmt.Errorf("invalid escape sequence \\%c", ch)
	}
}

func (p *NTriplesParser) parseHexRune(digits int) (rune, error) {
	if p.pos+digits > p.length {
		return 0, fmt.Errorf("incomplete unicode escape")
	}
	code, err := strconv.ParseUint(p.input[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid unicode escape: %w", err)
	}
	p.pos += digits
	return rune(code), nil
}
