package htmldoc

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// escapeMarker stands in for the '%' of escapes already present in a
// reference while it passes through net/url, so that only the escapes
// url.URL.String adds are turned back into characters.
const escapeMarker = "\uE000"

// Resolve resolves ref against the document base. Without a base the
// reference is returned in its parsed form, relative or not. Non-ASCII
// characters are kept as characters; escapes written in ref are kept as is.
func (d *Document) Resolve(ref string) (string, error) {
	u, err := parseIRI(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidIRI, ref, err)
	}
	if d.base == nil {
		return formatIRI(u), nil
	}
	return formatIRI(d.base.ResolveReference(u)), nil
}

// IsAbsoluteIRI reports whether s parses as an IRI with a scheme.
func IsAbsoluteIRI(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs()
}

func parseIRI(s string) (*url.URL, error) {
	return url.Parse(protectEscapes(strings.TrimSpace(s)))
}

func formatIRI(u *url.URL) string {
	return strings.ReplaceAll(uriToIRI(u.String()), escapeMarker, "%")
}

// protectEscapes replaces the '%' of every well-formed escape in s with
// escapeMarker.
func protectEscapes(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteString(escapeMarker)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// uriToIRI decodes the escapes of s that spell non-ASCII UTF-8 sequences
// (RFC 3987 section 3.2). ASCII escapes and invalid sequences stay escaped.
func uriToIRI(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		var run []byte
		j := i
		for j+2 < len(s) && s[j] == '%' && isHex(s[j+1]) && isHex(s[j+2]) {
			c := unhex(s[j+1])<<4 | unhex(s[j+2])
			if c < 0x80 {
				break
			}
			run = append(run, c)
			j += 3
		}
		if len(run) == 0 {
			b.WriteByte(s[i])
			i++
			continue
		}
		for len(run) > 0 {
			r, size := utf8.DecodeRune(run)
			if r == utf8.RuneError && size <= 1 {
				fmt.Fprintf(&b, "%%%02X", run[0])
				run = run[1:]
				continue
			}
			b.WriteRune(r)
			run = run[size:]
		}
		i = j
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
