package rdf

import (
	"sort"
)

// AreGraphsIsomorphic checks if two sets of triples are isomorphic,
// accounting for blank node label differences.
// Two graphs are isomorphic if there exists a bijection between their
// blank nodes such that when applied, the graphs are identical.
//
// Duplicate triples count: graphs of different lengths are never isomorphic.
func AreGraphsIsomorphic(expected, actual []*Triple) bool {
	if len(expected) != len(actual) {
		return false
	}

	expectedBlanks := blankNodeLabels(expected)
	actualBlanks := blankNodeLabels(actual)
	if len(expectedBlanks) != len(actualBlanks) {
		return false
	}

	actualKeys := tripleKeyCounts(actual, nil)
	if len(expectedBlanks) == 0 {
		return sameCounts(tripleKeyCounts(expected, nil), actualKeys)
	}

	// Matching high-degree nodes first prunes the search early.
	expectedDegrees := blankNodeDegrees(expected)
	actualDegrees := blankNodeDegrees(actual)
	sortByDegree(expectedBlanks, expectedDegrees)
	sortByDegree(actualBlanks, actualDegrees)

	m := &matcher{
		expected:      expected,
		actualKeys:    actualKeys,
		expectedBlank: expectedBlanks,
		actualBlank:   actualBlanks,
		expectedDeg:   expectedDegrees,
		actualDeg:     actualDegrees,
		mapping:       make(map[string]string),
		used:          make(map[string]bool),
	}
	return m.backtrack(0)
}

type matcher struct {
	expected      []*Triple
	actualKeys    map[string]int
	expectedBlank []string
	actualBlank   []string
	expectedDeg   map[string]int
	actualDeg     map[string]int
	mapping       map[string]string
	used          map[string]bool
}

// backtrack recursively tries to find a valid mapping between blank nodes
func (m *matcher) backtrack(index int) bool {
	if index == len(m.expectedBlank) {
		return sameCounts(tripleKeyCounts(m.expected, m.mapping), m.actualKeys)
	}

	current := m.expectedBlank[index]
	for _, candidate := range m.actualBlank {
		if m.used[candidate] || m.expectedDeg[current] != m.actualDeg[candidate] {
			continue
		}

		m.mapping[current] = candidate
		m.used[candidate] = true

		if m.consistent() && m.backtrack(index+1) {
			return true
		}

		delete(m.mapping, current)
		delete(m.used, candidate)
	}

	return false
}

// consistent checks that every expected triple whose blank nodes are all
// mapped has a counterpart in the actual graph.
func (m *matcher) consistent() bool {
	for _, triple := range m.expected {
		if !isMapped(triple.Subject, m.mapping) || !isMapped(triple.Object, m.mapping) {
			continue
		}
		if m.actualKeys[tripleKey(triple, m.mapping)] == 0 {
			return false
		}
	}
	return true
}

func isMapped(term Term, mapping map[string]string) bool {
	if b, ok := term.(*BlankNode); ok {
		_, exists := mapping[b.ID]
		return exists
	}
	return true
}

func blankNodeLabels(triples []*Triple) []string {
	seen := make(map[string]bool)
	for _, triple := range triples {
		for _, term := range []Term{triple.Subject, triple.Object} {
			if b, ok := term.(*BlankNode); ok {
				seen[b.ID] = true
			}
		}
	}

	result := make([]string, 0, len(seen))
	for label := range seen {
		result = append(result, label)
	}
	sort.Strings(result)
	return result
}

func blankNodeDegrees(triples []*Triple) map[string]int {
	degrees := make(map[string]int)
	for _, triple := range triples {
		for _, term := range []Term{triple.Subject, triple.Object} {
			if b, ok := term.(*BlankNode); ok {
				degrees[b.ID]++
			}
		}
	}
	return degrees
}

func sortByDegree(blanks []string, degrees map[string]int) {
	sort.SliceStable(blanks, func(i, j int) bool {
		return degrees[blanks[i]] > degrees[blanks[j]]
	})
}

func tripleKeyCounts(triples []*Triple, mapping map[string]string) map[string]int {
	counts := make(map[string]int, len(triples))
	for _, triple := range triples {
		counts[tripleKey(triple, mapping)]++
	}
	return counts
}

func sameCounts(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for key, n := range a {
		if b[key] != n {
			return false
		}
	}
	return true
}

// tripleKey creates a string key for a triple, applying blank node mapping if provided
func tripleKey(triple *Triple, mapping map[string]string) string {
	return termKey(triple.Subject, mapping) + "|" +
		termKey(triple.Predicate, mapping) + "|" +
		termKey(triple.Object, mapping)
}

func termKey(term Term, mapping map[string]string) string {
	if b, ok := term.(*BlankNode); ok && mapping != nil {
		if mapped, exists := mapping[b.ID]; exists {
			return "_:" + mapped
		}
	}
	return term.String()
}
