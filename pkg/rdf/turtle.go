package rdf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const rdfNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// TurtleParser parses Turtle documents such as the expected graphs of the
// W3C microdata test suite.
type TurtleParser struct {
	input                   string
	pos                     int
	length                  int
	prefixes                map[string]string
	base                    string
	blankNodeCounter        int
	extraTriples            []*Triple // Triples generated during term parsing (collections, blank node property lists)
	lastTermWasPropertyList bool      // True if the last parsed term was a blank node property list
}

// NewTurtleParser creates a new Turtle parser
func NewTurtleParser(input string) *TurtleParser {
	return &TurtleParser{
		input:    input,
		length:   len(input),
		prefixes: make(map[string]string),
	}
}

// ParseTurtle parses input with relative IRIs resolved against base.
func ParseTurtle(input, base string) ([]*Triple, error) {
	p := NewTurtleParser(input)
	p.SetBaseURI(base)
	return p.Parse()
}

// SetBaseURI sets the base URI for resolving relative IRIs
func (p *TurtleParser) SetBaseURI(baseURI string) {
	p.base = baseURI
}

// Parse parses the Turtle document and returns triples
func (p *TurtleParser) Parse() ([]*Triple, error) {
	var triples []*Triple

	for p.pos < p.length {
		p.skipWhitespaceAndComments()
		if p.pos >= p.length {
			break
		}

		// @prefix is case-sensitive, PREFIX is not
		if p.matchExactKeyword("@prefix") || p.matchKeyword("PREFIX") {
			if err := p.parsePrefix(); err != nil {
				return nil, err
			}
			continue
		}

		isTurtleBase := p.matchExactKeyword("@base")
		if isTurtleBase || p.matchKeyword("BASE") {
			if err := p.parseBase(isTurtleBase); err != nil {
				return nil, err
			}
			continue
		}

		blockTriples, err := p.parseTripleBlock()
		if err != nil {
			return nil, err
		}
		triples = append(triples, blockTriples...)
	}

	return triples, nil
}

func (p *TurtleParser) skipWhitespaceAndComments() {
	for p.pos < p.length {
		ch := p.input[p.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			p.pos++
			continue
		}
		if ch == '#' {
			for p.pos < p.length && p.input[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		break
	}
}

// matchKeyword consumes keyword (case-insensitive) if it is not followed by
// a name character.
func (p *TurtleParser) matchKeyword(keyword string) bool {
	end := p.pos + len(keyword)
	if end > p.length || !strings.EqualFold(p.input[p.pos:end], keyword) {
		return false
	}
	if end < p.length && isKeywordChar(p.input[end]) {
		return false
	}
	p.pos = end
	return true
}

// matchExactKeyword is matchKeyword with a case-sensitive comparison.
func (p *TurtleParser) matchExactKeyword(keyword string) bool {
	end := p.pos + len(keyword)
	if end > p.length || p.input[p.pos:end] != keyword {
		return false
	}
	if end < p.length && isKeywordChar(p.input[end]) {
		return false
	}
	p.pos = end
	return true
}

func isKeywordChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func (p *TurtleParser) parsePrefix() error {
	p.skipWhitespaceAndComments()

	prefixStart := p.pos
	for p.pos < p.length && p.input[p.pos] != ':' {
		p.pos++
	}
	prefix := p.input[prefixStart:p.pos]

	if p.pos >= p.length {
		return fmt.Errorf("expected ':' after prefix name")
	}
	p.pos++ // skip ':'

	p.skipWhitespaceAndComments()
	iri, err := p.parseIRI()
	if err != nil {
		return fmt.Errorf("failed to parse prefix IRI: %w", err)
	}
	p.prefixes[prefix] = iri

	p.skipWhitespaceAndComments()
	if p.pos < p.length && p.input[p.pos] == '.' {
		p.pos++
	}
	return nil
}

func (p *TurtleParser) parseBase(isTurtleStyle bool) error {
	p.skipWhitespaceAndComments()

	baseIRI, err := p.parseIRI()
	if err != nil {
		return fmt.Errorf("failed to parse base IRI: %w", err)
	}
	p.base = baseIRI

	p.skipWhitespaceAndComments()
	if p.pos < p.length && p.input[p.pos] == '.' {
		// SPARQL-style BASE takes no terminating '.'
		if !isTurtleStyle {
			return fmt.Errorf("SPARQL-style BASE should not be followed by '.'")
		}
		p.pos++
	}
	return nil
}

// parseTripleBlock parses a subject with its predicate-object list
func (p *TurtleParser) parseTripleBlock() ([]*Triple, error) {
	var triples []*Triple

	subject, err := p.parseTerm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse subject: %w", err)
	}
	if _, ok := subject.(*Literal); ok {
		return nil, fmt.Errorf("literals cannot be used as subjects")
	}
	triples = append(triples, p.extraTriples...)
	p.extraTriples = nil

	// A blank node property list may stand alone: [ <p> <o> ] .
	p.skipWhitespaceAndComments()
	if p.lastTermWasPropertyList && p.pos < p.length && p.input[p.pos] == '.' {
		p.pos++
		return triples, nil
	}

	objects, err := p.parsePredicateObjectList(subject, '.')
	if err != nil {
		return nil, err
	}
	triples = append(triples, objects...)

	if p.pos >= p.length || p.input[p.pos] != '.' {
		return nil, fmt.Errorf("expected '.' at end of triple at position %d", p.pos)
	}
	p.pos++ // skip '.'

	return triples, nil
}

// parsePredicateObjectList parses "p o1, o2; q o3" for subject, stopping
// before end. Triples from nested terms precede the triple using them.
func (p *TurtleParser) parsePredicateObjectList(subject Term, end byte) ([]*Triple, error) {
	var triples []*Triple

	for {
		p.skipWhitespaceAndComments()

		predicate, err := p.parseTerm()
		if err != nil {
			return nil, fmt.Errorf("failed to parse predicate: %w", err)
		}
		switch predicate.(type) {
		case *Literal:
			return nil, fmt.Errorf("literals cannot be used as predicates")
		case *BlankNode:
			return nil, fmt.Errorf("blank nodes cannot be used as predicates")
		}

		for {
			p.skipWhitespaceAndComments()

			object, err := p.parseTerm()
			if err != nil {
				return nil, fmt.Errorf("failed to parse object: %w", err)
			}
			triples = append(triples, p.extraTriples...)
			p.extraTriples = nil
			triples = append(triples, NewTriple(subject, predicate, object))

			p.skipWhitespaceAndComments()
			if p.pos < p.length && p.input[p.pos] == ',' {
				p.pos++
				continue
			}
			break
		}

		p.skipWhitespaceAndComments()
		if p.pos < p.length && p.input[p.pos] == ';' {
			// Repeated semicolons are allowed
			for p.pos < p.length && p.input[p.pos] == ';' {
				p.pos++
				p.skipWhitespaceAndComments()
			}
			if p.pos < p.length && p.input[p.pos] != end {
				continue
			}
		}
		return triples, nil
	}
}

func (p *TurtleParser) parseTerm() (Term, error) {
	p.skipWhitespaceAndComments()

	if p.pos >= p.length {
		return nil, fmt.Errorf("unexpected end of input")
	}

	// Set again by parseAnonymousBlankNode
	p.lastTermWasPropertyList = false

	ch := p.input[p.pos]
	switch {
	case ch == '<':
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		return NewNamedNode(iri), nil
	case ch == '_' && p.pos+1 < p.length && p.input[p.pos+1] == ':':
		return p.parseBlankNode()
	case ch == '[':
		return p.parseAnonymousBlankNode()
	case ch == '(':
		return p.parseCollection()
	case ch == '"' || ch == '\'':
		return p.parseLiteral()
	case p.atNumber():
		return p.parseNumber()
	}

	// 'a' is rdf:type unless it starts a prefixed name
	if ch == 'a' {
		isStandaloneA := true
		if p.pos+1 < p.length {
			next, _ := utf8.DecodeRuneInString(p.input[p.pos+1:])
			if isPN_CHARS(next) || next == ':' || next == '.' {
				isStandaloneA = false
			}
		}
		if isStandaloneA {
			p.pos++
			return RDFType, nil
		}
	}

	if p.matchExactKeyword("true") {
		return NewLiteralWithDatatype("true", XSDBoolean), nil
	}
	if p.matchExactKeyword("false") {
		return NewLiteralWithDatatype("false", XSDBoolean), nil
	}

	if r, _ := p.peekRune(); isPN_CHARS_BASE(r) || r == ':' {
		return p.parsePrefixedName()
	}

	return nil, fmt.Errorf("unexpected character: %c at position %d", ch, p.pos)
}

// atNumber reports whether a numeric literal starts at the current position:
// a digit, or a sign or '.' followed by one.
func (p *TurtleParser) atNumber() bool {
	i := p.pos
	if p.input[i] == '+' || p.input[i] == '-' {
		i++
	}
	if i < p.length && p.input[i] == '.' {
		i++
	}
	return i < p.length && p.input[i] >= '0' && p.input[i] <= '9'
}

func (p *TurtleParser) peekRune() (rune, int) {
	if p.pos >= p.length {
		return 0, 0
	}
	return utf8.DecodeRuneInString(p.input[p.pos:])
}

// isPN_CHARS_BASE checks if a rune is a PN_CHARS_BASE character
func isPN_CHARS_BASE(r rune) bool {
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 0x00C0 && r <= 0x00D6) ||
		(r >= 0x00D8 && r <= 0x00F6) ||
		(r >= 0x00F8 && r <= 0x02FF) ||
		(r >= 0x0370 && r <= 0x037D) ||
		(r >= 0x037F && r <= 0x1FFF) ||
		(r >= 0x200C && r <= 0x200D) ||
		(r >= 0x2070 && r <= 0x218F) ||
		(r >= 0x2C00 && r <= 0x2FEF) ||
		(r >= 0x3001 && r <= 0xD7FF) ||
		(r >= 0xF900 && r <= 0xFDCF) ||
		(r >= 0xFDF0 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0xEFFFF)
}

// isPN_CHARS_U checks if a rune is a PN_CHARS_U character
func isPN_CHARS_U(r rune) bool {
	return isPN_CHARS_BASE(r) || r == '_'
}

// isPN_CHARS checks if a rune is a PN_CHARS character
func isPN_CHARS(r rune) bool {
	return isPN_CHARS_U(r) ||
		r == '-' ||
		(r >= '0' && r <= '9') ||
		r == 0x00B7 ||
		(r >= 0x0300 && r <= 0x036F) ||
		(r >= 0x203F && r <= 0x2040)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// parseIRI parses an IRI in angle brackets and resolves it against the base
func (p *TurtleParser) parseIRI() (string, error) {
	if p.pos >= p.length || p.input[p.pos] != '<' {
		return "", fmt.Errorf("expected '<' at start of IRI")
	}
	p.pos++ // skip '<'

	var result strings.Builder
	for p.pos < p.length && p.input[p.pos] != '>' {
		ch := p.input[p.pos]
		if ch == '\\' {
			if p.pos+1 < p.length && (p.input[p.pos+1] == 'u' || p.input[p.pos+1] == 'U') {
				escaped, err := p.processUnicodeEscape()
				if err != nil {
					return "", err
				}
				result.WriteString(escaped)
				continue
			}
			return "", fmt.Errorf("invalid escape sequence in IRI at position %d", p.pos)
		}
		if ch == ' ' || ch == '<' || ch == '"' || ch <= 0x1F {
			return "", fmt.Errorf("invalid character in IRI: %q at position %d", ch, p.pos)
		}
		result.WriteByte(ch)
		p.pos++
	}

	if p.pos >= p.length {
		return "", fmt.Errorf("unclosed IRI")
	}
	p.pos++ // skip '>'

	iri := result.String()
	if hasScheme(iri) {
		return iri, nil
	}
	if p.base == "" {
		return "", fmt.Errorf("relative IRI not allowed without base: %s", iri)
	}
	return resolveRelativeIRI(p.base, iri), nil
}

// hasScheme reports whether iri starts with "scheme:".
func hasScheme(iri string) bool {
	for i := 0; i < len(iri); i++ {
		ch := iri[i]
		switch {
		case (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z'):
		case i > 0 && ((ch >= '0' && ch <= '9') || ch == '+' || ch == '-' || ch == '.'):
		case i > 0 && ch == ':':
			return true
		default:
			return false
		}
	}
	return false
}

// resolveRelativeIRI resolves a relative reference against base (RFC 3986
// section 5.2). Characters are kept as written, so non-ASCII IRIs survive.
func resolveRelativeIRI(base, relative string) string {
	if relative == "" {
		if idx := strings.Index(base, "#"); idx >= 0 {
			return base[:idx]
		}
		return base
	}

	if strings.HasPrefix(relative, "#") {
		if idx := strings.Index(base, "#"); idx >= 0 {
			base = base[:idx]
		}
		return base + relative
	}

	if strings.HasPrefix(relative, "?") {
		if idx := strings.IndexAny(base, "?#"); idx >= 0 {
			base = base[:idx]
		}
		return base + relative
	}

	schemeEnd := strings.Index(base, ":")
	if schemeEnd < 0 {
		return relative
	}

	// Network-path reference
	if strings.HasPrefix(relative, "//") {
		return normalizePath(base[:schemeEnd+1] + relative)
	}

	authorityEnd := schemeEnd + 1
	if strings.HasPrefix(base[authorityEnd:], "//") {
		authorityEnd += 2
		if idx := strings.IndexAny(base[authorityEnd:], "/?#"); idx >= 0 {
			authorityEnd += idx
		} else {
			authorityEnd = len(base)
		}
	}

	if strings.HasPrefix(relative, "/") {
		return normalizePath(base[:authorityEnd] + relative)
	}

	baseWithoutQF := base
	if idx := strings.IndexAny(baseWithoutQF, "?#"); idx >= 0 {
		baseWithoutQF = baseWithoutQF[:idx]
	}
	if lastSlash := strings.LastIndex(baseWithoutQF, "/"); lastSlash >= authorityEnd {
		return normalizePath(baseWithoutQF[:lastSlash+1] + relative)
	}
	if authorityEnd > schemeEnd+1 {
		// Base with an authority and an empty path
		return normalizePath(baseWithoutQF + "/" + relative)
	}
	return normalizePath(baseWithoutQF[:authorityEnd] + relative)
}

// normalizePath removes dot segments from the path of uri (RFC 3986 section 5.2.4)
func normalizePath(uri string) string {
	schemeEnd := strings.Index(uri, ":")
	if schemeEnd < 0 {
		return uri
	}

	pathStart := schemeEnd + 1
	if strings.HasPrefix(uri[pathStart:], "//") {
		idx := strings.IndexAny(uri[pathStart+2:], "/?#")
		if idx < 0 {
			return uri
		}
		pathStart += 2 + idx
	}

	prefix := uri[:pathStart]
	path := uri[pathStart:]
	var queryAndFragment string
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path, queryAndFragment = path[:idx], path[idx:]
	}

	needsTrailingSlash := strings.HasSuffix(path, "/") ||
		strings.HasSuffix(path, "/.") ||
		strings.HasSuffix(path, "/..")

	var normalized []string
	for _, segment := range strings.Split(path, "/") {
		switch segment {
		case ".":
		case "..":
			// Never pop the empty segment that roots an absolute path
			if len(normalized) > 1 || (len(normalized) == 1 && normalized[0] != "") {
				normalized = normalized[:len(normalized)-1]
			}
		default:
			normalized = append(normalized, segment)
		}
	}

	normalizedPath := strings.Join(normalized, "/")
	if needsTrailingSlash && !strings.HasSuffix(normalizedPath, "/") {
		normalizedPath += "/"
	}
	return prefix + normalizedPath + queryAndFragment
}

// processUnicodeEscape processes \uXXXX or \UXXXXXXXX escape sequences
func (p *TurtleParser) processUnicodeEscape() (string, error) {
	p.pos++ // skip '\'
	if p.pos >= p.length {
		return "", fmt.Errorf("incomplete escape sequence")
	}

	hexDigits := 4
	if p.input[p.pos] == 'U' {
		hexDigits = 8
	}
	p.pos++ // skip 'u' or 'U'

	if p.pos+hexDigits > p.length {
		return "", fmt.Errorf("incomplete Unicode escape sequence")
	}
	hexStr := p.input[p.pos : p.pos+hexDigits]
	p.pos += hexDigits

	codePoint, err := strconv.ParseUint(hexStr, 16, 32)
	if err != nil {
		return "", fmt.Errorf("invalid hex digits in Unicode escape: %s", hexStr)
	}
	if (codePoint >= 0xD800 && codePoint <= 0xDFFF) || codePoint > 0x10FFFF {
		return "", fmt.Errorf("invalid Unicode escape: code point U+%04X", codePoint)
	}
	return string(rune(codePoint)), nil
}

// parseBlankNode parses a labeled blank node
func (p *TurtleParser) parseBlankNode() (Term, error) {
	p.pos += 2 // skip '_:'
	start := p.pos

	r, size := p.peekRune()
	if !isPN_CHARS_U(r) && !(r >= '0' && r <= '9') {
		return nil, fmt.Errorf("invalid blank node label start character at position %d", p.pos)
	}
	p.pos += size

	lastCharWasDot := false
	for p.pos < p.length {
		r, size := p.peekRune()
		if !isPN_CHARS(r) && r != '.' {
			break
		}
		lastCharWasDot = r == '.'
		p.pos += size
	}
	// Labels cannot end with '.'
	if lastCharWasDot {
		p.pos--
	}

	return NewBlankNode(p.input[start:p.pos]), nil
}

// newBlankNode generates a new blank node with a unique identifier
func (p *TurtleParser) newBlankNode() *BlankNode {
	p.blankNodeCounter++
	return NewBlankNode(fmt.Sprintf("anon%d", p.blankNodeCounter))
}

// parseAnonymousBlankNode parses [] or a blank node property list
func (p *TurtleParser) parseAnonymousBlankNode() (Term, error) {
	p.pos++ // skip '['
	p.skipWhitespaceAndComments()

	blankNode := p.newBlankNode()
	if p.pos < p.length && p.input[p.pos] == ']' {
		p.pos++
		return blankNode, nil
	}

	// Triples collected by the outer caller would be lost on the recursive
	// parse, so they are set aside and restored in front.
	outer := p.extraTriples
	p.extraTriples = nil
	triples, err := p.parsePredicateObjectList(blankNode, ']')
	if err != nil {
		return nil, fmt.Errorf("in blank node property list: %w", err)
	}
	p.extraTriples = append(outer, triples...)

	p.skipWhitespaceAndComments()
	if p.pos >= p.length || p.input[p.pos] != ']' {
		return nil, fmt.Errorf("expected ']' at end of blank node property list")
	}
	p.pos++ // skip ']'

	// Set after the inner terms have been parsed
	p.lastTermWasPropertyList = true
	return blankNode, nil
}

// parseCollection parses a collection (RDF list): (item1 item2 ...)
func (p *TurtleParser) parseCollection() (Term, error) {
	p.pos++ // skip '('

	rdfNil := NewNamedNode(rdfNS + "nil")
	var items []Term
	for {
		p.skipWhitespaceAndComments()
		if p.pos >= p.length {
			return nil, fmt.Errorf("unexpected end of input in collection")
		}
		if p.input[p.pos] == ')' {
			p.pos++
			break
		}
		item, err := p.parseTerm()
		if err != nil {
			return nil, fmt.Errorf("failed to parse collection item: %w", err)
		}
		items = append(items, item)
	}
	p.lastTermWasPropertyList = false

	if len(items) == 0 {
		return rdfNil, nil
	}

	rdfFirst := NewNamedNode(rdfNS + "first")
	rdfRest := NewNamedNode(rdfNS + "rest")

	nodes := make([]*BlankNode, len(items))
	for i := range items {
		nodes[i] = p.newBlankNode()
	}
	for i, item := range items {
		p.extraTriples = append(p.extraTriples, NewTriple(nodes[i], rdfFirst, item))
		var rest Term = rdfNil
		if i+1 < len(nodes) {
			rest = nodes[i+1]
		}
		p.extraTriples = append(p.extraTriples, NewTriple(nodes[i], rdfRest, rest))
	}
	return nodes[0], nil
}

// parseLiteral parses a quoted string with an optional language tag or datatype
func (p *TurtleParser) parseLiteral() (Term, error) {
	quote := p.input[p.pos : p.pos+1]
	if strings.HasPrefix(p.input[p.pos:], `"""`) || strings.HasPrefix(p.input[p.pos:], `'''`) {
		quote = p.input[p.pos : p.pos+3]
	}
	long := len(quote) == 3
	p.pos += len(quote)

	var value strings.Builder
	closed := false
	for p.pos < p.length {
		if strings.HasPrefix(p.input[p.pos:], quote) {
			p.pos += len(quote)
			closed = true
			break
		}

		ch := p.input[p.pos]
		if !long && (ch == '\n' || ch == '\r') {
			return nil, fmt.Errorf("line break in short string literal at position %d", p.pos)
		}
		if ch != '\\' {
			value.WriteByte(ch)
			p.pos++
			continue
		}

		if p.pos+1 >= p.length {
			break
		}
		switch next := p.input[p.pos+1]; next {
		case 'u', 'U':
			escaped, err := p.processUnicodeEscape()
			if err != nil {
				return nil, err
			}
			value.WriteString(escaped)
			continue
		case 'n':
			value.WriteByte('\n')
		case 't':
			value.WriteByte('\t')
		case 'r':
			value.WriteByte('\r')
		case 'b':
			value.WriteByte('\b')
		case 'f':
			value.WriteByte('\f')
		case '"', '\'', '\\':
			value.WriteByte(next)
		default:
			return nil, fmt.Errorf("invalid escape sequence \\%c at position %d", next, p.pos)
		}
		p.pos += 2
	}
	if !closed {
		return nil, fmt.Errorf("unclosed string literal")
	}

	p.skipWhitespaceAndComments()
	if p.pos < p.length && p.input[p.pos] == '@' {
		p.pos++ // skip '@'
		langStart := p.pos
		for p.pos < p.length && (isKeywordChar(p.input[p.pos]) || p.input[p.pos] == '-') {
			p.pos++
		}
		if p.pos == langStart {
			return nil, fmt.Errorf("empty language tag at position %d", p.pos)
		}
		return NewLiteralWithLanguage(value.String(), p.input[langStart:p.pos]), nil
	}

	if strings.HasPrefix(p.input[p.pos:], "^^") {
		p.pos += 2
		datatype, err := p.parseTerm()
		if err != nil {
			return nil, fmt.Errorf("failed to parse datatype: %w", err)
		}
		named, ok := datatype.(*NamedNode)
		if !ok {
			return nil, fmt.Errorf("datatype must be an IRI or prefixed name")
		}
		return NewLiteralWithDatatype(value.String(), named), nil
	}

	return NewLiteral(value.String()), nil
}

// parseNumber parses an integer, decimal or double, keeping its lexical form
func (p *TurtleParser) parseNumber() (Term, error) {
	start := p.pos
	isDecimal := false

	if p.input[p.pos] == '+' || p.input[p.pos] == '-' {
		p.pos++
	}
	hasIntegerDigits := p.skipDigits()

	// A '.' not followed by a digit or exponent ends the statement
	if p.pos+1 < p.length && p.input[p.pos] == '.' {
		next := p.input[p.pos+1]
		if (next >= '0' && next <= '9') || (hasIntegerDigits && (next == 'e' || next == 'E')) {
			isDecimal = true
			p.pos++
			p.skipDigits()
		}
	}

	if p.pos < p.length && (p.input[p.pos] == 'e' || p.input[p.pos] == 'E') {
		p.pos++
		if p.pos < p.length && (p.input[p.pos] == '+' || p.input[p.pos] == '-') {
			p.pos++
		}
		if !p.skipDigits() {
			return nil, fmt.Errorf("expected digits in exponent at position %d", p.pos)
		}
		return NewLiteralWithDatatype(p.input[start:p.pos], XSDDouble), nil
	}

	if isDecimal {
		return NewLiteralWithDatatype(p.input[start:p.pos], XSDDecimal), nil
	}
	return NewLiteralWithDatatype(p.input[start:p.pos], XSDInteger), nil
}

func (p *TurtleParser) skipDigits() bool {
	start := p.pos
	for p.pos < p.length && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	return p.pos > start
}

// parsePrefixedName parses a prefixed name (e.g., ex:foo or :foo)
func (p *TurtleParser) parsePrefixedName() (Term, error) {
	start := p.pos

	// PN_PREFIX ::= PN_CHARS_BASE ((PN_CHARS|'.')* PN_CHARS)?
	if p.input[p.pos] != ':' {
		_, size := p.peekRune()
		p.pos += size
		for p.pos < p.length && p.input[p.pos] != ':' {
			r, size := p.peekRune()
			if !isPN_CHARS(r) && r != '.' {
				break
			}
			p.pos += size
		}
	}
	if p.pos >= p.length || p.input[p.pos] != ':' {
		return nil, fmt.Errorf("expected ':' in prefixed name at position %d", p.pos)
	}
	prefix := p.input[start:p.pos]
	p.pos++ // skip ':'

	var localPart strings.Builder
	for p.pos < p.length {
		r, size := p.peekRune()

		if r == '%' {
			if p.pos+2 >= p.length || !isHexDigit(p.input[p.pos+1]) || !isHexDigit(p.input[p.pos+2]) {
				return nil, fmt.Errorf("invalid percent encoding in prefixed name at position %d", p.pos)
			}
			localPart.WriteString(p.input[p.pos : p.pos+3])
			p.pos += 3
			continue
		}

		// PN_LOCAL_ESC
		if r == '\\' && p.pos+1 < p.length && strings.IndexByte("_~.-!$&'()*+,;=/?#@%:", p.input[p.pos+1]) >= 0 {
			localPart.WriteByte(p.input[p.pos+1])
			p.pos += 2
			continue
		}

		if localPart.Len() == 0 && (r == '-' || r == '.') {
			break
		}
		if isPN_CHARS(r) || r == ':' || r == '.' {
			localPart.WriteRune(r)
			p.pos += size
			continue
		}
		break
	}

	// PN_LOCAL cannot end with '.'; the dot terminates the statement
	localPartStr := localPart.String()
	trimmed := strings.TrimRight(localPartStr, ".")
	p.pos -= len(localPartStr) - len(trimmed)

	baseIRI, ok := p.prefixes[prefix]
	if !ok {
		return nil, fmt.Errorf("undefined prefix: '%s'", prefix)
	}
	return NewNamedNode(baseIRI + trimmed), nil
}
