// Package conformance runs microdata-to-RDF fixtures: pairs of NAME.html
// inputs and NAME.nt or NAME.ttl expected graphs, compared up to blank node
// renaming.
package conformance

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aleksaelezovic/microdata/pkg/microdata"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
)

// DefaultBaseFormat builds the document base from a fixture name.
const DefaultBaseFormat = "http://example.com/%s.html"

// TestCase is one fixture pair
type TestCase struct {
	Name     string
	Input    string // HTML file
	Expected string // N-Triples or Turtle file
}

// TestResult represents the result of running a test
type TestResult int

const (
	TestResultPass TestResult = iota
	TestResultFail
	TestResultError
)

func (r TestResult) String() string {
	switch r {
	case TestResultPass:
		return "pass"
	case TestResultFail:
		return "fail"
	default:
		return "error"
	}
}

// TestStats tracks test execution statistics
type TestStats struct {
	Total  int
	Passed int
	Failed int
	Errors []TestError
}

// TestError represents a test failure
type TestError struct {
	TestName string
	Error    string
}

// Runner runs fixtures through a microdata parser.
type Runner struct {
	parser     *microdata.Parser
	baseFormat string
	out        io.Writer
	stats      *TestStats
}

// NewRunner creates a runner reporting progress to out. An empty baseFormat
// selects DefaultBaseFormat.
func NewRunner(parser *microdata.Parser, baseFormat string, out io.Writer) *Runner {
	if baseFormat == "" {
		baseFormat = DefaultBaseFormat
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		parser:     parser,
		baseFormat: baseFormat,
		out:        out,
		stats:      &TestStats{},
	}
}

// Discover lists the fixtures in dir, ordered by name. The expected graph is
// NAME.nt, or NAME.ttl when there is no .nt file. HTML files with neither are
// ignored.
func Discover(dir string) ([]TestCase, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	sort.Strings(matches)

	var cases []TestCase
	for _, input := range matches {
		name := strings.TrimSuffix(filepath.Base(input), ".html")
		expected := expectedFile(dir, name)
		if expected == "" {
			continue
		}
		cases = append(cases, TestCase{Name: name, Input: input, Expected: expected})
	}
	return cases, nil
}

var expectedExtensions = []string{".nt", ".ttl"}

func expectedFile(dir, name string) string {
	for _, ext := range expectedExtensions {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// RunDir runs every fixture in dir.
func (r *Runner) RunDir(dir string) error {
	cases, err := Discover(dir)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return fmt.Errorf("no fixtures found in %s", dir)
	}

	fmt.Fprintf(r.out, "\n📋 Running fixtures: %s\n", dir)
	fmt.Fprintf(r.out, "   Found %d tests\n\n", len(cases))

	for _, tc := range cases {
		switch r.Run(tc) {
		case TestResultPass:
			fmt.Fprintf(r.out, "  ✅ PASS: %s\n", tc.Name)
		case TestResultFail:
			fmt.Fprintf(r.out, "  ❌ FAIL: %s\n", tc.Name)
		case TestResultError:
			fmt.Fprintf(r.out, "  💥 ERROR: %s\n", tc.Name)
		}
	}

	r.printSummary()
	return nil
}

// Run runs a single fixture and records its outcome.
func (r *Runner) Run(tc TestCase) TestResult {
	r.stats.Total++
	result := r.run(tc)
	if result == TestResultPass {
		r.stats.Passed++
	} else {
		r.stats.Failed++
	}
	return result
}

func (r *Runner) run(tc TestCase) TestResult {
	input, err := os.ReadFile(tc.Input) // #nosec G304 - fixtures are read from an operator-supplied directory
	if err != nil {
		r.recordError(tc, fmt.Sprintf("Failed to read input: %v", err))
		return TestResultError
	}
	expectedData, err := os.ReadFile(tc.Expected) // #nosec G304 - fixtures are read from an operator-supplied directory
	if err != nil {
		r.recordError(tc, fmt.Sprintf("Failed to read expected output: %v", err))
		return TestResultError
	}

	base := fmt.Sprintf(r.baseFormat, tc.Name)
	var expected []*rdf.Triple
	if filepath.Ext(tc.Expected) == ".ttl" {
		expected, err = rdf.ParseTurtle(string(expectedData), base)
	} else {
		expected, err = rdf.ParseNTriples(string(expectedData))
	}
	if err != nil {
		r.recordError(tc, fmt.Sprintf("Failed to parse expected output: %v", err))
		return TestResultError
	}

	actual, err := r.parser.Parse(string(input), base)
	if err != nil {
		r.recordError(tc, fmt.Sprintf("Extraction error: %v", err))
		return TestResultError
	}

	if !rdf.AreGraphsIsomorphic(expected, actual) {
		r.recordError(tc, fmt.Sprintf("Graphs differ\nexpected:\n%sactual:\n%s",
			rdf.SerializeTriples(expected), rdf.SerializeTriples(actual)))
		return TestResultFail
	}
	return TestResultPass
}

func (r *Runner) recordError(tc TestCase, msg string) {
	r.stats.Errors = append(r.stats.Errors, TestError{TestName: tc.Name, Error: msg})
}

// Stats returns the statistics collected so far.
func (r *Runner) Stats() *TestStats {
	return r.stats
}

func (r *Runner) printSummary() {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "═══════════════════════════════════════")
	fmt.Fprintf(r.out, "  Total:  %d\n", r.stats.Total)
	fmt.Fprintf(r.out, "  Passed: %d\n", r.stats.Passed)
	fmt.Fprintf(r.out, "  Failed: %d\n", r.stats.Failed)
	if r.stats.Total > 0 {
		fmt.Fprintf(r.out, "  Pass rate: %.1f%%\n", float64(r.stats.Passed)*100/float64(r.stats.Total))
	}
	fmt.Fprintln(r.out, "═══════════════════════════════════════")

	for _, e := range r.stats.Errors {
		fmt.Fprintf(r.out, "\n  %s: %s\n", e.TestName, e.Error)
	}
}
