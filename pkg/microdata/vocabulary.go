package microdata

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aleksaelezovic/microdata/pkg/htmldoc"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
	"gopkg.in/yaml.v3"
)

//go:embed vocabularies.yaml
var defaultVocabulariesYAML []byte

var defaultVocabularies = mustLoadVocabularies(defaultVocabulariesYAML)

// Vocabulary is one entry of the well-known vocabulary table.
type Vocabulary struct {
	// Prefix is matched against an item's first type. It becomes the
	// vocabulary IRI for matching items.
	Prefix string `yaml:"prefix"`

	// Separator joins the vocabulary and a property name when the vocabulary
	// ends in neither '/' nor '#'. Defaults to "#".
	Separator string `yaml:"separator,omitempty"`

	Properties map[string]PropertyMapping `yaml:"properties,omitempty"`
}

// PropertyMapping overrides the expansion of a single property name.
type PropertyMapping struct {
	// IRI replaces the expanded predicate entirely.
	IRI string `yaml:"iri,omitempty"`

	// SubPropertyOf and EquivalentProperty each add one extra triple per IRI
	// with the same subject and object.
	SubPropertyOf      IRIList `yaml:"subPropertyOf,omitempty"`
	EquivalentProperty IRIList `yaml:"equivalentProperty,omitempty"`
}

// IRIList accepts either a single IRI or a sequence of IRIs in YAML.
type IRIList []string

func (l *IRIList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = IRIList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected IRI or list of IRIs", value.Line)
	}
}

// VocabularyRegistry resolves item types to vocabularies and property names
// to predicates. It is read-only after construction.
type VocabularyRegistry struct {
	// longest prefix first
	entries []Vocabulary
}

type vocabularyFile struct {
	Vocabularies []Vocabulary `yaml:"vocabularies"`
}

// LoadVocabularies parses a registry from YAML.
func LoadVocabularies(data []byte) (*VocabularyRegistry, error) {
	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing vocabulary registry: %w", err)
	}
	for _, v := range file.Vocabularies {
		if err := v.validate(); err != nil {
			return nil, err
		}
	}
	return newVocabularyRegistry(file.Vocabularies), nil
}

// LoadVocabulariesFile reads a registry from a YAML file.
func LoadVocabulariesFile(path string) (*VocabularyRegistry, error) {
	data, err := os.ReadFile(path) // #nosec G304 - registry path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("error reading vocabulary registry: %w", err)
	}
	return LoadVocabularies(data)
}

// DefaultVocabularies returns the built-in registry of well-known vocabularies.
func DefaultVocabularies() *VocabularyRegistry {
	return defaultVocabularies
}

func mustLoadVocabularies(data []byte) *VocabularyRegistry {
	r, err := LoadVocabularies(data)
	if err != nil {
		panic(err)
	}
	return r
}

func newVocabularyRegistry(entries []Vocabulary) *VocabularyRegistry {
	sorted := make([]Vocabulary, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &VocabularyRegistry{entries: sorted}
}

func (v Vocabulary) validate() error {
	if !htmldoc.IsAbsoluteIRI(v.Prefix) {
		return fmt.Errorf("vocabulary prefix %q is not an absolute IRI", v.Prefix)
	}
	for name, m := range v.Properties {
		iris := append([]string{}, m.SubPropertyOf...)
		iris = append(iris, m.EquivalentProperty...)
		if m.IRI != "" {
			iris = append(iris, m.IRI)
		}
		for _, iri := range iris {
			if !htmldoc.IsAbsoluteIRI(iri) {
				return fmt.Errorf("vocabulary %s: property %s: %q is not an absolute IRI", v.Prefix, name, iri)
			}
		}
	}
	return nil
}

// Merge returns a registry holding the entries of r and other. Entries of
// other replace entries of r with the same prefix.
func (r *VocabularyRegistry) Merge(other *VocabularyRegistry) *VocabularyRegistry {
	if other == nil {
		return r
	}
	replaced := make(map[string]bool, len(other.entries))
	for _, v := range other.entries {
		replaced[v.Prefix] = true
	}
	merged := append([]Vocabulary{}, other.entries...)
	for _, v := range r.entries {
		if !replaced[v.Prefix] {
			merged = append(merged, v)
		}
	}
	return newVocabularyRegistry(merged)
}

// Entries returns the registry entries ordered by prefix.
func (r *VocabularyRegistry) Entries() []Vocabulary {
	entries := append([]Vocabulary{}, r.entries...)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Prefix < entries[j].Prefix
	})
	return entries
}

// lookup finds the longest registered prefix of typeIRI that ends on a
// segment boundary, so "http://n.whatwg.org/work" matches ".../work#x" but
// not ".../workshop".
func (r *VocabularyRegistry) lookup(typeIRI string) (*Vocabulary, bool) {
	for i := range r.entries {
		if matchesPrefix(typeIRI, r.entries[i].Prefix) {
			return &r.entries[i], true
		}
	}
	return nil, false
}

func matchesPrefix(typeIRI, prefix string) bool {
	if !strings.HasPrefix(typeIRI, prefix) {
		return false
	}
	if len(typeIRI) == len(prefix) || strings.HasSuffix(prefix, "/") || strings.HasSuffix(prefix, "#") {
		return true
	}
	next := typeIRI[len(prefix)]
	return next == '/' || next == '#'
}

// vocabContext is the vocabulary in effect for an item's properties. The
// zero value means no vocabulary.
type vocabContext struct {
	iri   string
	entry *Vocabulary
}

func (c vocabContext) absent() bool {
	return c.iri == ""
}

// contextFor derives the vocabulary from an item's first type.
func (r *VocabularyRegistry) contextFor(typeIRI string) vocabContext {
	if entry, ok := r.lookup(typeIRI); ok {
		return vocabContext{iri: entry.Prefix, entry: entry}
	}
	if i := strings.LastIndex(typeIRI, "#"); i >= 0 {
		return vocabContext{iri: typeIRI[:i+1]}
	}
	if i := strings.LastIndex(typeIRI, "/"); i >= 0 {
		return vocabContext{iri: typeIRI[:i+1]}
	}
	return vocabContext{iri: typeIRI}
}

// resolve turns an itemprop token into predicates: the primary predicate
// first, then any registry-declared super or equivalent properties. It
// returns nil when no predicate can be formed.
func (r *VocabularyRegistry) resolve(name string, ctx vocabContext) []*rdf.NamedNode {
	if htmldoc.IsAbsoluteIRI(name) {
		return []*rdf.NamedNode{rdf.NewNamedNode(name)}
	}
	if ctx.absent() {
		return nil
	}

	var mapping PropertyMapping
	separator := "#"
	if ctx.entry != nil {
		mapping = ctx.entry.Properties[name]
		if ctx.entry.Separator != "" {
			separator = ctx.entry.Separator
		}
	}

	primary := mapping.IRI
	if primary == "" {
		if strings.HasSuffix(ctx.iri, "/") || strings.HasSuffix(ctx.iri, "#") {
			primary = ctx.iri + name
		} else {
			primary = ctx.iri + separator + name
		}
	}

	predicates := []*rdf.NamedNode{rdf.NewNamedNode(primary)}
	for _, iri := range mapping.SubPropertyOf {
		predicates = append(predicates, rdf.NewNamedNode(iri))
	}
	for _, iri := range mapping.EquivalentProperty {
		predicates = append(predicates, rdf.NewNamedNode(iri))
	}
	return predicates
}
